package config

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const (
	BreakerRedis         = "Redis-Tokens"
	BreakerPostgres      = "PostgreSQL"
	BreakerRelayPostgres = "Relay-PostgreSQL"
	BreakerRabbitMQ      = "RabbitMQ-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string, log *slog.Logger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = slog.Default()
	}

	var timeout time.Duration
	// Aligned with the 5s health check timeout.
	switch name {
	case BreakerRedis:
		timeout = time.Second * 5
	case BreakerPostgres, BreakerRelayPostgres:
		timeout = time.Second * 10
	default:
		timeout = time.Second * 30
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Error("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
