package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByImage(ctx context.Context, fragment string) ([]domain.Product, error)
	CreateBatch(ctx context.Context, products []domain.Product) (int, error)
}
