package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.OrderEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error {
	msg, err := newPublishing(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.publish(ctx, msg)
	})
	if err == nil {
		rmq.log.Debug("order event published", "event_id", evt.ID, "type", evt.Type)
	}
	return err
}

// publish sends msg to the order queue through the default exchange. With
// confirms on it returns only after the broker acked the message.
func (rmq *RabbitMQBroker) publish(ctx context.Context, msg amqp.Publishing) error {
	if !rmq.opts.PublishConfirms {
		return rmq.ch.PublishWithContext(ctx, "", rmq.opts.Queue, false, false, msg)
	}

	confirm, err := rmq.ch.PublishWithDeferredConfirmWithContext(ctx, "", rmq.opts.Queue, false, false, msg)
	if err != nil {
		return err
	}
	waitCtx := ctx
	if rmq.opts.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, rmq.opts.ConfirmTimeout)
		defer cancel()
	}
	acked, err := confirm.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("wait for confirm of %s: %w", msg.MessageId, err)
	}
	if !acked {
		return fmt.Errorf("broker nacked %s", msg.MessageId)
	}
	return nil
}

// newPublishing encodes evt as a persistent JSON message. The event id is
// the message id so consumers can drop redeliveries.
func newPublishing(evt domain.OrderEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Type:         string(evt.Type),
		Timestamp:    evt.OccurredAt,
		Body:         body,
	}, nil
}
