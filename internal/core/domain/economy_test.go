package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

func seededEconomy(t *testing.T) *domain.Economy {
	t.Helper()
	e := domain.Seed(
		domain.User{Username: "admin", Password: "admin-pw"},
		domain.User{Username: "dev", Password: "dev-pw"},
	)
	if _, err := e.CreateClass("5A"); err != nil {
		t.Fatalf("create class: %v", err)
	}
	roster := []domain.RosterEntry{
		{Username: "kumarn", Password: "kumarpw"},
		{Username: "kennedyn", Password: "kenpw"},
	}
	if _, err := e.EnrollRoster("5A", roster, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return e
}

func TestEconomy_CreateClass(t *testing.T) {
	e := domain.NewEconomy()

	if _, err := e.CreateClass("5A"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.CreateClass("5A"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := e.CreateClass("   "); !errors.Is(err, domain.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := e.Class("6B"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEconomy_EnrollRosterSkipsExisting(t *testing.T) {
	e := seededEconomy(t)
	st, _ := e.Student("5A", "kumarn")
	st.Balance = decimal.NewFromInt(42)

	created, err := e.EnrollRoster("5A", []domain.RosterEntry{
		{Username: "kumarn", Password: "other"},
		{Username: "tyn", Password: "typw"},
	}, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if len(created) != 1 || created[0] != "tyn" {
		t.Fatalf("expected only tyn to be created, got %v", created)
	}

	st, _ = e.Student("5A", "kumarn")
	if !st.Balance.Equal(decimal.NewFromInt(42)) || st.Password != "kumarpw" {
		t.Errorf("existing student was overwritten: %+v", st)
	}

	if _, err := e.EnrollRoster("missing", nil, decimal.Zero); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown class, got %v", err)
	}
}

func TestEconomy_Authenticate(t *testing.T) {
	e := seededEconomy(t)

	tests := []struct {
		name       string
		class      string
		username   string
		credential string
		wantRole   domain.Role
		wantErr    error
	}{
		{name: "admin", username: "admin", credential: "admin-pw", wantRole: domain.RoleAdmin},
		{name: "developer", username: "dev", credential: "dev-pw", wantRole: domain.RoleDeveloper},
		{name: "student", class: "5A", username: "kumarn", credential: "kumarpw", wantRole: domain.RoleStudent},
		{name: "wrong_password", username: "admin", credential: "nope", wantErr: domain.ErrInvalidCredential},
		{name: "student_without_class", username: "kumarn", credential: "kumarpw", wantErr: domain.ErrInvalidCredential},
		{name: "unknown_class", class: "9Z", username: "kumarn", credential: "kumarpw", wantErr: domain.ErrInvalidCredential},
		{name: "admin_inside_class", class: "5A", username: "admin", credential: "admin-pw", wantErr: domain.ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := e.Authenticate(tt.class, tt.username, tt.credential)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}
			id := p.Identity()
			if id.Role != tt.wantRole || id.Username != tt.username || id.Class != tt.class {
				t.Errorf("unexpected identity %+v", id)
			}
		})
	}
}

func TestEconomy_CloneIsDeep(t *testing.T) {
	e := seededEconomy(t)
	clone := e.Clone()

	st, _ := clone.Student("5A", "kumarn")
	st.Balance = decimal.Zero
	if _, err := st.Purchase("o1", "Candy", decimal.Zero, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := clone.CreateClass("6B"); err != nil {
		t.Fatal(err)
	}

	orig, _ := e.Student("5A", "kumarn")
	if !orig.Balance.Equal(decimal.NewFromInt(100)) || len(orig.Orders) != 0 {
		t.Errorf("mutating the clone leaked into the original: %+v", orig)
	}
	if _, err := e.Class("6B"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("class created on clone leaked into the original")
	}
}

func TestSnapshot_RoundTripKeepsOrder(t *testing.T) {
	e := seededEconomy(t)
	if _, err := e.CreateClass("4C"); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	st, _ := e.Student("5A", "kennedyn")
	if err := st.Deposit(decimal.NewFromInt(25), now); err != nil {
		t.Fatal(err)
	}
	order, _ := st.Purchase("o1", "Candy", decimal.NewFromInt(10), now)
	_ = order.Deny("later", false)

	payload, err := json.Marshal(e.Snapshot(now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := domain.FromSnapshot(snap)
	if err != nil {
		t.Fatalf("from snapshot: %v", err)
	}

	classes := restored.Classes()
	if len(classes) != 2 || classes[0].Name != "5A" || classes[1].Name != "4C" {
		t.Fatalf("class order lost: %v", classes)
	}
	students := classes[0].Students()
	if students[0].Username != "kumarn" || students[1].Username != "kennedyn" {
		t.Fatalf("enrollment order lost")
	}

	got := students[1]
	if !got.Balance.Equal(decimal.NewFromInt(65)) || !got.SavingsBalance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("ledger lost: balance=%s savings=%s", got.Balance, got.SavingsBalance)
	}
	if got.LockUntil == nil || !got.LockUntil.Equal(now.Add(domain.SavingsLockPeriod)) {
		t.Errorf("lock lost: %v", got.LockUntil)
	}
	if len(got.Orders) != 1 || got.Orders[0].Status != domain.OrderDenied || got.Orders[0].Reason != "later" {
		t.Errorf("orders lost: %+v", got.Orders)
	}
	if got.OrderSeq != 1 {
		t.Errorf("expected order seq 1, got %d", got.OrderSeq)
	}
	if _, err := restored.Authenticate("", "admin", "admin-pw"); err != nil {
		t.Errorf("admin lost: %v", err)
	}
}

func TestFromSnapshot_RejectsNegativeBalance(t *testing.T) {
	snap := domain.Snapshot{
		Classes: []domain.ClassRecord{{
			Name:     "5A",
			Students: []domain.StudentRecord{{Username: "x", Balance: decimal.NewFromInt(-1)}},
		}},
	}
	if _, err := domain.FromSnapshot(snap); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}
