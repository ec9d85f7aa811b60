package mocks

import (
	"strconv"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TestAdmin and TestDeveloper are the seeded global principals used by tests.
var (
	TestAdmin     = domain.User{Username: "admin", Password: "admin-pw", Role: domain.RoleAdmin}
	TestDeveloper = domain.User{Username: "dev", Password: "dev-pw", Role: domain.RoleDeveloper}
)

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequentialIDs returns an ID generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// CreateTestEvent creates a sample order event.
func CreateTestEvent(id string, typ domain.OrderEventType) domain.OrderEvent {
	return domain.OrderEvent{
		ID:         id,
		Type:       typ,
		Class:      "5A",
		Student:    "kumarn",
		OrderID:    "order-1",
		Item:       "Candy",
		Price:      decimal.NewFromInt(10),
		OccurredAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}
