package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "Pending"
	OrderApproved OrderStatus = "Approved"
	OrderDenied   OrderStatus = "Denied"
)

// NotificationDateLayout is how order dates appear in student notifications.
const NotificationDateLayout = "2006-01-02 15:04 MST"

type Order struct {
	ID       string          `json:"id"`
	Seq      int             `json:"seq"`
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Date     time.Time       `json:"date"`
	Status   OrderStatus     `json:"status"`
	Reason   string          `json:"reason"`
	Notified bool            `json:"notified"`
}

func (o *Order) Decided() bool {
	return o.Status == OrderApproved || o.Status == OrderDenied
}

// Approve moves the order to Approved and queues a fresh notification.
// With strict set, an order that was already decided is left untouched.
func (o *Order) Approve(strict bool) error {
	if strict && o.Decided() {
		return ErrOrderAlreadyDecided
	}
	o.Status = OrderApproved
	o.Reason = ""
	o.Notified = false
	return nil
}

// Deny moves the order to Denied with reason and queues a fresh notification.
func (o *Order) Deny(reason string, strict bool) error {
	if strict && o.Decided() {
		return ErrOrderAlreadyDecided
	}
	o.Status = OrderDenied
	o.Reason = reason
	o.Notified = false
	return nil
}

// Notification renders the outcome message for a decided order.
func (o *Order) Notification(loc *time.Location) string {
	date := o.Date.In(loc).Format(NotificationDateLayout)
	switch o.Status {
	case OrderApproved:
		return fmt.Sprintf("ORDER: %s (%s) APPROVED!! Go see your teacher to claim your reward", o.Item, date)
	case OrderDenied:
		return fmt.Sprintf("ORDER: %s (%s) DENIED. Reason: %s", o.Item, date, o.Reason)
	}
	return ""
}

func (o *Order) clone() *Order {
	c := *o
	return &c
}
