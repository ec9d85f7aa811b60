package messaging

import (
	"fmt"
	"log/slog"

	"github.com/AchilleasB/classbank/ledger-service/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// RabbitMQBroker publishes order events to the classroom's order queue.
type RabbitMQBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	opts config.BrokerConfig
	cb   *gobreaker.CircuitBreaker
	log  *slog.Logger
}

// NewRabbitMQBroker dials opts.URL, declares the order queue and, when
// publish confirms are on, puts the channel into confirm mode.
func NewRabbitMQBroker(opts config.BrokerConfig, log *slog.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareOrderQueue(ch, opts); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if opts.PublishConfirms {
		if err := ch.Confirm(false); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("enable publish confirms: %w", err)
		}
	}

	log.Info("order queue declared", "queue", opts.Queue, "durable", opts.Durable, "confirms", opts.PublishConfirms)
	return &RabbitMQBroker{
		conn: conn,
		ch:   ch,
		opts: opts,
		cb:   config.NewCircuitBreaker(config.BreakerRabbitMQ, log),
		log:  log,
	}, nil
}

// declareOrderQueue is idempotent as long as the arguments match the
// existing queue.
func declareOrderQueue(ch *amqp.Channel, opts config.BrokerConfig) error {
	_, err := ch.QueueDeclare(opts.Queue, opts.Durable, false, false, false, queueArgs(opts))
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", opts.Queue, err)
	}
	return nil
}

func queueArgs(opts config.BrokerConfig) amqp.Table {
	args := amqp.Table{}
	if opts.MessageTTL > 0 {
		args["x-message-ttl"] = opts.MessageTTL.Milliseconds()
	}
	if opts.DeadLetterExchange != "" {
		args["x-dead-letter-exchange"] = opts.DeadLetterExchange
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// Connected reports whether the AMQP connection is still open.
func (rmq *RabbitMQBroker) Connected() bool {
	return rmq != nil && rmq.conn != nil && !rmq.conn.IsClosed()
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
