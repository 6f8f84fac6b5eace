package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// Create stores an order with one line per item and decrements stock, all in one transaction.
	// When clearCart is set the member's cart lines are removed in the same transaction.
	Create(ctx context.Context, memberID int64, items []domain.OrderItem, clearCart bool) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByMember(ctx context.Context, memberID int64) ([]domain.Order, error)
}
