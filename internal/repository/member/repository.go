package member

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches members together with their profiles.
type Repository interface {
	Create(ctx context.Context, m domain.Member) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
}
