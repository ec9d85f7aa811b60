package ports

import (
	"context"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
)

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error
}
