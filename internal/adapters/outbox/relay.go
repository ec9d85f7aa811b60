package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

const (
	// Event processing timeouts
	batchProcessTimeout = 60 * time.Second

	defaultPollInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

type Options struct {
	// Wake, when set, triggers a batch as soon as it receives.
	Wake         <-chan struct{}
	PollInterval time.Duration
	BatchSize    int
	Logger       *slog.Logger
}

// Relay moves order events from an outbox store to a publisher. Delivery is
// at least once: an event is marked processed only after it was published.
type Relay struct {
	store     ports.OutboxStore
	publisher ports.OrderEventPublisher
	opts      Options

	mu            sync.RWMutex
	lastProcessed time.Time
	isHealthy     bool
}

func NewRelay(store ports.OutboxStore, publisher ports.OrderEventPublisher, opts Options) *Relay {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = maxEventsPerBatch
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Relay{
		store:         store,
		publisher:     publisher,
		opts:          opts,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy returns true if the relay process is alive and responding.
// Meant for liveness probes; an open breaker is degraded, not dead.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isHealthy
}

// IsReady returns true if the relay has completed a batch recently.
func (r *Relay) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

// Start processes the backlog, then runs a batch on every wake-up and on
// every poll tick. This is a blocking call that runs until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	log := r.opts.Logger
	log.Info("outbox relay started", "poll_interval", r.opts.PollInterval.String())

	r.runBatch(ctx)

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay shutting down")
			return ctx.Err()
		case <-r.opts.Wake:
			r.runBatch(ctx)
		case <-ticker.C:
			r.runBatch(ctx)
		}
	}
}

func (r *Relay) runBatch(ctx context.Context) {
	n, err := r.ProcessPending(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.opts.Logger.Error("outbox batch failed", "error", err)
		r.isHealthy = false
		return
	}
	r.isHealthy = true
	r.lastProcessed = time.Now()
	if n > 0 {
		r.opts.Logger.Info("outbox batch relayed", "events", n)
	}
}

// ProcessPending relays one batch and returns how many events were
// published. A publish failure stops the batch so later events are not
// delivered ahead of it.
func (r *Relay) ProcessPending(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	records, err := r.store.PendingEvents(ctx, r.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, rec := range records {
		var evt domain.OrderEvent
		if err := json.Unmarshal(rec.Payload, &evt); err != nil {
			// Mark as processed anyway to avoid infinite retries on bad data
			r.opts.Logger.Error("invalid outbox payload", "event_id", rec.ID, "error", err)
			if err := r.store.MarkProcessed(ctx, rec.ID); err != nil {
				return published, err
			}
			continue
		}

		if err := r.publisher.PublishOrderEvent(ctx, evt); err != nil {
			r.opts.Logger.Warn("publish failed, will retry", "event_id", rec.ID, "error", err)
			return published, nil
		}
		if err := r.store.MarkProcessed(ctx, rec.ID); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
