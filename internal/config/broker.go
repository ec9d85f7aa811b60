package config

import "time"

// BrokerConfig describes the order-events queue. It is shared by the API,
// which relays the bolt outbox in-process, and by the standalone relay.
type BrokerConfig struct {
	URL        string        `env:"RABBITMQ_URL"`
	Queue      string        `env:"ORDER_QUEUE_NAME" envDefault:"order-events"`
	Durable    bool          `env:"ORDER_QUEUE_DURABLE" envDefault:"true"`
	MessageTTL time.Duration `env:"ORDER_QUEUE_MESSAGE_TTL"`
	// DeadLetterExchange receives expired or rejected order events.
	DeadLetterExchange string `env:"ORDER_QUEUE_DEAD_LETTER_EXCHANGE"`
	// PublishConfirms makes every publish wait for the broker's ack, so the
	// relay only marks an event processed once RabbitMQ has it.
	PublishConfirms bool          `env:"RABBITMQ_PUBLISH_CONFIRMS" envDefault:"true"`
	ConfirmTimeout  time.Duration `env:"RABBITMQ_CONFIRM_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether a broker URL is configured.
func (b BrokerConfig) Enabled() bool { return b.URL != "" }
