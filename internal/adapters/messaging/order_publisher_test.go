package messaging

import (
	"encoding/json"
	"testing"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/test/mocks"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNewPublishing(t *testing.T) {
	evt := mocks.CreateTestEvent("evt-1", domain.EventOrderDenied)
	evt.Reason = "not today"

	msg, err := newPublishing(evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.DeliveryMode != amqp.Persistent {
		t.Errorf("expected persistent delivery, got %d", msg.DeliveryMode)
	}
	if msg.ContentType != "application/json" {
		t.Errorf("expected application/json, got %q", msg.ContentType)
	}
	if msg.MessageId != "evt-1" || msg.Type != "order.denied" {
		t.Errorf("unexpected headers: id=%q type=%q", msg.MessageId, msg.Type)
	}
	if !msg.Timestamp.Equal(evt.OccurredAt) {
		t.Errorf("expected timestamp %v, got %v", evt.OccurredAt, msg.Timestamp)
	}

	var body map[string]any
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	for _, key := range []string{"id", "type", "class", "student", "order_id", "item", "price", "reason", "occurred_at"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %q in message body", key)
		}
	}
	if body["price"] != "10" {
		t.Errorf("expected price as decimal string, got %v", body["price"])
	}
}

func TestConnected_NilBroker(t *testing.T) {
	var rmq *RabbitMQBroker
	if rmq.Connected() {
		t.Error("nil broker must not report connected")
	}
}
