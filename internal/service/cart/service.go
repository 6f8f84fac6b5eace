package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo     cartrepo.Repository
	products productLookup
}

type productLookup interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productLookup) *Service {
	return &Service{repo: repo, products: products}
}

// AddItem puts quantity units of a product into the member's cart. Adding a product that is
// already in the cart increases that line's quantity.
func (s *Service) AddItem(ctx context.Context, memberID, productID int64, quantity int) (*domain.CartLine, error) {
	v := &domain.ValidationError{}
	if productID <= 0 {
		v.Add("product_id", "product required")
	}
	switch {
	case quantity < 1:
		v.Add("quantity", "quantity must be at least 1")
	case quantity > domain.MaxQuantity:
		v.Add("quantity", fmt.Sprintf("quantity must be at most %d", domain.MaxQuantity))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	line, err := s.repo.AddItem(ctx, memberID, productID, quantity)
	if err != nil {
		return nil, err
	}
	line.Product = product
	line.LineTotal = product.Price * int64(line.Quantity)
	return line, nil
}

// ListItems returns the member's cart lines with line totals and the cart total.
func (s *Service) ListItems(ctx context.Context, memberID int64) (domain.CartSummary, error) {
	lines, err := s.repo.ListLines(ctx, memberID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return domain.NewCartSummary(lines), nil
}

// Items returns the cart contents as order items, in cart order.
func (s *Service) Items(ctx context.Context, memberID int64) ([]domain.OrderItem, error) {
	lines, err := s.repo.ListLines(ctx, memberID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items, nil
}
