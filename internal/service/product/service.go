package product

import (
	"context"
	"errors"
	"math"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// MaxPageNumber keeps the row offset inside int32 for any page size.
	MaxPageNumber  = math.MaxInt32 / MaxPageSize
	carouselMarker = "bigs"
)

// Cache is the read-through store consulted before the repository on single product reads.
// Version is read before the repository so Set can refuse a product loaded before the last
// Invalidate.
type Cache interface {
	Get(ctx context.Context, id int64) (*domain.Product, bool)
	Version(ctx context.Context, id int64) int64
	Set(ctx context.Context, p *domain.Product, version int64)
	Invalidate(ctx context.Context, ids ...int64)
}

type Service struct {
	repo  productrepo.Repository
	cache Cache
}

// New returns a product service. cache may be nil.
func New(repo productrepo.Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List normalizes paging and filter defaults and returns one catalogue page.
func (s *Service) List(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	f.PageNumber = min(max(f.PageNumber, 0), MaxPageNumber)
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Category == "" {
		f.Category = domain.CategoryAll
	}
	f.Keyword = strings.TrimSpace(f.Keyword)

	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &domain.ProductPage{
		Products:   products,
		Total:      total,
		PageNumber: f.PageNumber,
		PageSize:   f.PageSize,
		TotalPages: (total + f.PageSize - 1) / f.PageSize,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var version int64
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id); ok {
			return p, nil
		}
		version = s.cache.Version(ctx, id)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, p, version)
	}
	return p, nil
}

// Carousel returns the products whose image is marked for the front page banner.
func (s *Service) Carousel(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListByImage(ctx, carouselMarker)
}

// Forget drops cached copies of the given products, typically after their stock changed.
func (s *Service) Forget(ctx context.Context, ids ...int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}
