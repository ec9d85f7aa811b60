package domain

import (
	"iter"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Read models handed to callers. They never alias store state.

type OrderView struct {
	ID       string          `json:"id"`
	Position int             `json:"position"`
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Date     time.Time       `json:"date"`
	Status   OrderStatus     `json:"status"`
	Reason   string          `json:"reason,omitempty"`
	Notified bool            `json:"notified"`
}

type StudentView struct {
	Class            string          `json:"class"`
	Username         string          `json:"username"`
	Balance          decimal.Decimal `json:"balance"`
	SavingsBalance   decimal.Decimal `json:"savings_balance"`
	LockUntil        *time.Time      `json:"lock_until,omitempty"`
	Locked           bool            `json:"locked"`
	ProjectedSavings decimal.Decimal `json:"projected_savings"`
	Orders           []OrderView     `json:"orders"`

	// PendingNotifications counts decided orders the student has not seen.
	PendingNotifications int `json:"pending_notifications"`
}

type ClassView struct {
	Name     string `json:"name"`
	Students int    `json:"students"`
}

type PendingOrder struct {
	Class   string    `json:"class"`
	Student string    `json:"student"`
	Order   OrderView `json:"order"`
}

type LeaderboardEntry struct {
	Rank     int             `json:"rank"`
	Class    string          `json:"class"`
	Username string          `json:"username"`
	Total    decimal.Decimal `json:"total"`
}

type Dashboard struct {
	Student             StudentView     `json:"student"`
	InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
	Notifications       []string        `json:"notifications"`
}

func NewOrderView(o *Order, position int) OrderView {
	return OrderView{
		ID:       o.ID,
		Position: position,
		Item:     o.Item,
		Price:    o.Price,
		Date:     o.Date,
		Status:   o.Status,
		Reason:   o.Reason,
		Notified: o.Notified,
	}
}

func NewStudentView(s *Student, now time.Time) StudentView {
	v := StudentView{
		Class:            s.Class,
		Username:         s.Username,
		Balance:          s.Balance,
		SavingsBalance:   s.SavingsBalance,
		Locked:           s.Locked(now),
		ProjectedSavings: ProjectSavings(s.SavingsBalance),
		Orders:           make([]OrderView, len(s.Orders)),

		PendingNotifications: s.PendingNotifications(),
	}
	if s.LockUntil != nil {
		until := *s.LockUntil
		v.LockUntil = &until
	}
	for i, o := range s.Orders {
		v.Orders[i] = NewOrderView(o, i)
	}
	return v
}

// Notifications is a one-shot sequence of outcome messages. Ranging over
// All a second time yields nothing.
type Notifications struct {
	messages []string
	consumed atomic.Bool
}

func NewNotifications(messages []string) *Notifications {
	return &Notifications{messages: messages}
}

func (n *Notifications) Len() int { return len(n.messages) }

func (n *Notifications) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if n.consumed.Swap(true) {
			return
		}
		for _, m := range n.messages {
			if !yield(m) {
				return
			}
		}
	}
}
