package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// AddItem adds quantity of productID to the member's cart, creating the cart on first use.
	AddItem(ctx context.Context, memberID, productID int64, quantity int) (*domain.CartLine, error)
	ListLines(ctx context.Context, memberID int64) ([]domain.CartLine, error)
	GetByMember(ctx context.Context, memberID int64) (*domain.Cart, error)
}
