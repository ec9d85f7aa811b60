package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

type DirectoryService interface {
	Authenticate(ctx context.Context, class, username, credential string) (domain.Identity, error)
	CreateClass(ctx context.Context, name string) (domain.ClassView, error)
	AddStudents(ctx context.Context, class string, roster []domain.RosterEntry) ([]string, error)
	FindStudent(ctx context.Context, class, username string) (domain.StudentView, error)
	Classes(ctx context.Context) ([]domain.ClassView, error)
}

type LedgerService interface {
	CreditBalance(ctx context.Context, class, username string, amount decimal.Decimal) (domain.StudentView, error)
	DepositToSavings(ctx context.Context, class, username string, amount decimal.Decimal) (domain.StudentView, error)
	ProjectSavings(ctx context.Context, class, username string) (decimal.Decimal, error)
	Purchase(ctx context.Context, class, username, item string) (domain.OrderView, error)
	Dashboard(ctx context.Context, class, username string) (domain.Dashboard, error)
	Catalog() []domain.CatalogItem
}

type OrderService interface {
	Approve(ctx context.Context, class, username, orderID string) (domain.OrderView, error)
	Deny(ctx context.Context, class, username, orderID, reason string) (domain.OrderView, error)
	CollectNotifications(ctx context.Context, class, username string) (*domain.Notifications, error)
	PendingOrders(ctx context.Context, class string) ([]domain.PendingOrder, error)
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

type SessionService interface {
	Login(ctx context.Context, class, username, credential string) (domain.Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}
