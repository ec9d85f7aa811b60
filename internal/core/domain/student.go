package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student is a class-scoped principal holding a ledger and an order history.
type Student struct {
	Class          string
	Username       string
	Password       string
	Balance        decimal.Decimal
	SavingsBalance decimal.Decimal
	LockUntil      *time.Time
	OrderSeq       int
	Orders         []*Order
}

var _ Principal = (*Student)(nil)

func NewStudent(class, username, password string, startingBalance decimal.Decimal) *Student {
	return &Student{
		Class:    class,
		Username: username,
		Password: password,
		Balance:  startingBalance,
	}
}

func (s *Student) Identity() Identity {
	return Identity{Class: s.Class, Username: s.Username, Role: RoleStudent}
}

func (s *Student) CheckCredential(credential string) bool {
	return credentialsMatch(s.Password, credential)
}

// Total is spendable plus locked funds.
func (s *Student) Total() decimal.Decimal {
	return s.Balance.Add(s.SavingsBalance)
}

// Locked reports whether the savings lock window is still open at now.
func (s *Student) Locked(now time.Time) bool {
	return s.LockUntil != nil && now.Before(*s.LockUntil)
}

// Credit adds amount to the spendable balance. A zero amount is a no-op.
func (s *Student) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	s.Balance = s.Balance.Add(amount)
	return nil
}

// Deposit moves amount into savings and restarts the lock window at now.
func (s *Student) Deposit(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() || amount.GreaterThan(s.Balance) {
		return ErrInvalidAmount
	}
	s.Balance = s.Balance.Sub(amount)
	s.SavingsBalance = s.SavingsBalance.Add(amount)
	until := now.Add(SavingsLockPeriod)
	s.LockUntil = &until
	return nil
}

// Purchase debits price and appends a pending order with the given id.
func (s *Student) Purchase(id, item string, price decimal.Decimal, now time.Time) (*Order, error) {
	if s.Balance.LessThan(price) {
		return nil, ErrInsufficientFunds
	}
	s.Balance = s.Balance.Sub(price)
	s.OrderSeq++
	order := &Order{
		ID:     id,
		Seq:    s.OrderSeq,
		Item:   item,
		Price:  price,
		Date:   now,
		Status: OrderPending,
	}
	s.Orders = append(s.Orders, order)
	return order, nil
}

func (s *Student) Order(id string) (*Order, error) {
	for _, o := range s.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

// CollectNotifications returns one message per decided, unseen order and
// marks each of them as seen.
func (s *Student) CollectNotifications(loc *time.Location) []string {
	var messages []string
	for _, o := range s.Orders {
		if o.Notified || !o.Decided() {
			continue
		}
		messages = append(messages, o.Notification(loc))
		o.Notified = true
	}
	return messages
}

// PendingNotifications counts decided orders the student has not seen yet.
func (s *Student) PendingNotifications() int {
	n := 0
	for _, o := range s.Orders {
		if !o.Notified && o.Decided() {
			n++
		}
	}
	return n
}

func (s *Student) clone() *Student {
	c := *s
	if s.LockUntil != nil {
		until := *s.LockUntil
		c.LockUntil = &until
	}
	c.Orders = make([]*Order, len(s.Orders))
	for i, o := range s.Orders {
		c.Orders[i] = o.clone()
	}
	return &c
}
