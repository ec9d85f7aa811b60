package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	EventOrderPlaced   OrderEventType = "order.placed"
	EventOrderApproved OrderEventType = "order.approved"
	EventOrderDenied   OrderEventType = "order.denied"
)

// OrderEvent is written to the outbox alongside the snapshot that caused it.
type OrderEvent struct {
	ID         string          `json:"id"`
	Type       OrderEventType  `json:"type"`
	Class      string          `json:"class"`
	Student    string          `json:"student"`
	OrderID    string          `json:"order_id"`
	Item       string          `json:"item"`
	Price      decimal.Decimal `json:"price"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewOrderEvent(id string, typ OrderEventType, s *Student, o *Order, at time.Time) OrderEvent {
	return OrderEvent{
		ID:         id,
		Type:       typ,
		Class:      s.Class,
		Student:    s.Username,
		OrderID:    o.ID,
		Item:       o.Item,
		Price:      o.Price,
		Reason:     o.Reason,
		OccurredAt: at,
	}
}
