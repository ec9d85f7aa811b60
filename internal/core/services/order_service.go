package services

import (
	"context"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// OrderService drives the Pending -> Approved|Denied workflow.
type OrderService struct {
	store *Store
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(store *Store) *OrderService {
	return &OrderService{store: store}
}

func (s *OrderService) Approve(ctx context.Context, class, username, orderID string) (domain.OrderView, error) {
	return s.decide(ctx, "approve_order", class, username, orderID, func(o *domain.Order) (domain.OrderEventType, error) {
		return domain.EventOrderApproved, o.Approve(s.store.opts.StrictOrderTransitions)
	})
}

func (s *OrderService) Deny(ctx context.Context, class, username, orderID, reason string) (domain.OrderView, error) {
	return s.decide(ctx, "deny_order", class, username, orderID, func(o *domain.Order) (domain.OrderEventType, error) {
		return domain.EventOrderDenied, o.Deny(reason, s.store.opts.StrictOrderTransitions)
	})
}

func (s *OrderService) decide(
	ctx context.Context,
	op, class, username, orderID string,
	apply func(*domain.Order) (domain.OrderEventType, error),
) (domain.OrderView, error) {
	var view domain.OrderView
	err := s.store.mutate(ctx, op, func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		order, err := st.Order(orderID)
		if err != nil {
			return nil, err
		}
		eventType, err := apply(order)
		if err != nil {
			return nil, err
		}
		for i, o := range st.Orders {
			if o == order {
				view = domain.NewOrderView(order, i)
			}
		}
		return []domain.OrderEvent{
			domain.NewOrderEvent(s.store.opts.NewID(), eventType, st, order, now),
		}, nil
	})
	if err == nil {
		s.store.opts.Logger.Info("order decided",
			"op", op, "class", class, "student", username, "order_id", orderID, "status", view.Status)
	}
	return view, err
}

// CollectNotifications returns the outcomes the student has not seen yet
// and marks them seen. The marking is persisted before the sequence is
// returned; ranging over it a second time yields nothing.
func (s *OrderService) CollectNotifications(ctx context.Context, class, username string) (*domain.Notifications, error) {
	var messages []string
	err := s.store.mutate(ctx, "collect_notifications", func(e *domain.Economy, _ time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		messages = st.CollectNotifications(s.store.opts.Location)
		if len(messages) == 0 {
			return nil, errUnchanged
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewNotifications(messages), nil
}

// PendingOrders lists undecided orders of class, students in enrollment
// order and orders chronologically.
func (s *OrderService) PendingOrders(ctx context.Context, class string) ([]domain.PendingOrder, error) {
	pending := []domain.PendingOrder{}
	err := s.store.read("pending_orders", func(e *domain.Economy, _ time.Time) error {
		c, err := e.Class(class)
		if err != nil {
			return err
		}
		for _, st := range c.Students() {
			for i, o := range st.Orders {
				if o.Status != domain.OrderPending {
					continue
				}
				pending = append(pending, domain.PendingOrder{
					Class:   c.Name,
					Student: st.Username,
					Order:   domain.NewOrderView(o, i),
				})
			}
		}
		return nil
	})
	return pending, err
}
