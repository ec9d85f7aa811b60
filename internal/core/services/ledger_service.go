package services

import (
	"context"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/shopspring/decimal"
)

type LedgerService struct {
	store *Store
}

var _ ports.LedgerService = (*LedgerService)(nil)

func NewLedgerService(store *Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreditBalance adds amount to a student's spendable balance. A zero amount
// (which is what unparseable input becomes) succeeds without writing.
func (s *LedgerService) CreditBalance(ctx context.Context, class, username string, amount decimal.Decimal) (domain.StudentView, error) {
	var view domain.StudentView
	err := s.store.mutate(ctx, "credit_balance", func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		if err := st.Credit(amount); err != nil {
			return nil, err
		}
		view = domain.NewStudentView(st, now)
		if amount.IsZero() {
			return nil, errUnchanged
		}
		return nil, nil
	})
	if err == nil && amount.IsPositive() {
		s.store.opts.Logger.Info("balance credited", "class", class, "student", username, "amount", amount.StringFixed(2))
	}
	return view, err
}

// DepositToSavings moves amount from balance to savings and restarts the
// seven day lock window.
func (s *LedgerService) DepositToSavings(ctx context.Context, class, username string, amount decimal.Decimal) (domain.StudentView, error) {
	var view domain.StudentView
	err := s.store.mutate(ctx, "deposit_to_savings", func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		if err := st.Deposit(amount, now); err != nil {
			return nil, err
		}
		view = domain.NewStudentView(st, now)
		return nil, nil
	})
	return view, err
}

func (s *LedgerService) ProjectSavings(ctx context.Context, class, username string) (decimal.Decimal, error) {
	var projected decimal.Decimal
	err := s.store.read("project_savings", func(e *domain.Economy, _ time.Time) error {
		st, err := e.Student(class, username)
		if err != nil {
			return err
		}
		projected = domain.ProjectSavings(st.SavingsBalance)
		return nil
	})
	return projected, err
}

// Purchase buys a catalog item and opens a pending order for it.
func (s *LedgerService) Purchase(ctx context.Context, class, username, item string) (domain.OrderView, error) {
	var view domain.OrderView
	err := s.store.mutate(ctx, "purchase", func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		price, err := s.store.opts.Catalog.Price(item)
		if err != nil {
			return nil, err
		}
		order, err := st.Purchase(s.store.opts.NewID(), item, price, now)
		if err != nil {
			return nil, err
		}
		view = domain.NewOrderView(order, len(st.Orders)-1)
		return []domain.OrderEvent{
			domain.NewOrderEvent(s.store.opts.NewID(), domain.EventOrderPlaced, st, order, now),
		}, nil
	})
	return view, err
}

// Dashboard renders a student's ledger and, in the same step, collects the
// order outcomes they have not seen yet.
func (s *LedgerService) Dashboard(ctx context.Context, class, username string) (domain.Dashboard, error) {
	var dash domain.Dashboard
	err := s.store.mutate(ctx, "dashboard", func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error) {
		st, err := e.Student(class, username)
		if err != nil {
			return nil, err
		}
		messages := st.CollectNotifications(s.store.opts.Location)
		dash = domain.Dashboard{
			Student:             domain.NewStudentView(st, now),
			InterestRatePercent: domain.InterestRatePercent(),
			Notifications:       messages,
		}
		if dash.Notifications == nil {
			dash.Notifications = []string{}
		}
		if len(messages) == 0 {
			return nil, errUnchanged
		}
		return nil, nil
	})
	return dash, err
}

func (s *LedgerService) Catalog() []domain.CatalogItem {
	return s.store.opts.Catalog.Items()
}
