package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of an Economy. Classes and students are
// lists so that creation and enrollment order survive a reload.
type Snapshot struct {
	Users   map[string]UserRecord `json:"users"`
	Classes []ClassRecord         `json:"classes"`
	SavedAt time.Time             `json:"saved_at"`
}

type UserRecord struct {
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type ClassRecord struct {
	Name     string          `json:"name"`
	Students []StudentRecord `json:"students"`
}

type StudentRecord struct {
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Role           Role            `json:"role"`
	Balance        decimal.Decimal `json:"balance"`
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	LockUntil      *time.Time      `json:"lock_until,omitempty"`
	OrderSeq       int             `json:"order_seq"`
	Orders         []Order         `json:"orders"`
}

// Snapshot captures the full state of e.
func (e *Economy) Snapshot(savedAt time.Time) Snapshot {
	snap := Snapshot{
		Users:   make(map[string]UserRecord, len(e.users)),
		Classes: make([]ClassRecord, 0, len(e.classes)),
		SavedAt: savedAt,
	}
	for name, u := range e.users {
		snap.Users[name] = UserRecord{Password: u.Password, Role: u.Role}
	}
	for _, c := range e.classes {
		rec := ClassRecord{Name: c.Name, Students: make([]StudentRecord, 0, len(c.students))}
		for _, s := range c.students {
			sr := StudentRecord{
				Username:       s.Username,
				Password:       s.Password,
				Role:           RoleStudent,
				Balance:        s.Balance,
				SavingsBalance: s.SavingsBalance,
				OrderSeq:       s.OrderSeq,
				Orders:         make([]Order, len(s.Orders)),
			}
			if s.LockUntil != nil {
				until := *s.LockUntil
				sr.LockUntil = &until
			}
			for i, o := range s.Orders {
				sr.Orders[i] = *o
			}
			rec.Students = append(rec.Students, sr)
		}
		snap.Classes = append(snap.Classes, rec)
	}
	return snap
}

// FromSnapshot rebuilds an Economy and validates the ledger invariants.
func FromSnapshot(snap Snapshot) (*Economy, error) {
	e := NewEconomy()

	names := make([]string, 0, len(snap.Users))
	for name := range snap.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec := snap.Users[name]
		if !rec.Role.Global() {
			return nil, fmt.Errorf("user %q: role %q is not a global role", name, rec.Role)
		}
		e.AddUser(&User{Username: name, Password: rec.Password, Role: rec.Role})
	}

	for _, cr := range snap.Classes {
		c, err := e.CreateClass(cr.Name)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", cr.Name, err)
		}
		for _, sr := range cr.Students {
			if sr.Balance.IsNegative() || sr.SavingsBalance.IsNegative() {
				return nil, fmt.Errorf("student %s/%s: %w", cr.Name, sr.Username, ErrInvalidAmount)
			}
			s := &Student{
				Username:       sr.Username,
				Password:       sr.Password,
				Balance:        sr.Balance,
				SavingsBalance: sr.SavingsBalance,
				OrderSeq:       sr.OrderSeq,
				Orders:         make([]*Order, len(sr.Orders)),
			}
			if sr.LockUntil != nil {
				until := *sr.LockUntil
				s.LockUntil = &until
			}
			for i := range sr.Orders {
				o := sr.Orders[i]
				s.Orders[i] = &o
				if o.Seq > s.OrderSeq {
					s.OrderSeq = o.Seq
				}
			}
			if !c.Enroll(s) {
				return nil, fmt.Errorf("student %s/%s: %w", cr.Name, sr.Username, ErrAlreadyExists)
			}
		}
	}
	return e, nil
}
