package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	listenerPingInterval         = 90 * time.Second
)

// OutboxListener turns NOTIFY signals on outbox_channel into relay wake-ups.
type OutboxListener struct {
	listener *pq.Listener
	wake     chan struct{}
	log      *slog.Logger
}

func NewOutboxListener(dbURL string, log *slog.Logger) (*OutboxListener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error("outbox listener problem", "event", int(ev), "error", err)
		}
	}

	listener := pq.NewListener(dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	if err := listener.Listen(OutboxChannelName); err != nil {
		_ = listener.Close()
		return nil, err
	}
	log.Info("listening for outbox notifications", "channel", OutboxChannelName)

	return &OutboxListener{
		listener: listener,
		wake:     make(chan struct{}, 1),
		log:      log,
	}, nil
}

// Wake returns the channel that receives a value whenever new events may
// be waiting. Bursts of notifications collapse into one wake-up.
func (l *OutboxListener) Wake() <-chan struct{} {
	return l.wake
}

// Run forwards notifications until ctx is cancelled.
func (l *OutboxListener) Run(ctx context.Context) {
	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.listener.Notify:
			// nil means the connection was re-established; events may have
			// been missed in between.
			if n != nil {
				l.log.Debug("outbox notification", "event_id", n.Extra)
			}
			l.signal()
		case <-ticker.C:
			go func() {
				if err := l.listener.Ping(); err != nil {
					l.log.Warn("outbox listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *OutboxListener) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *OutboxListener) Close() error {
	return l.listener.Close()
}
