package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/logging"
	orderrepo "storefront/internal/repository/order"
)

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

// StockCache forgets cached product data whose stock changed.
type StockCache interface {
	Forget(ctx context.Context, ids ...int64)
}

type cartReader interface {
	Items(ctx context.Context, memberID int64) ([]domain.OrderItem, error)
}

type Service struct {
	repo      orderrepo.Repository
	cart      cartReader
	cache     StockCache
	publisher Publisher
	logger    *zap.Logger
}

// New wires the order service. cache and publisher may be nil.
func New(repo orderrepo.Repository, cart cartReader, cache StockCache, publisher Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		cart:      cart,
		cache:     cache,
		publisher: publisher,
		logger:    logging.OrNop(logger),
	}
}

// PlaceOrder creates a PENDING order with one line per item, in input order, and decrements
// stock. Nothing is stored when any item fails.
func (s *Service) PlaceOrder(ctx context.Context, memberID int64, items []domain.OrderItem) (*domain.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	return s.place(ctx, memberID, items, false)
}

// CheckoutCart places an order for everything in the member's cart and empties the cart.
func (s *Service) CheckoutCart(ctx context.Context, memberID int64) (*domain.Order, error) {
	items, err := s.cart.Items(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	return s.place(ctx, memberID, items, true)
}

func (s *Service) place(ctx context.Context, memberID int64, items []domain.OrderItem, clearCart bool) (*domain.Order, error) {
	order, err := s.repo.Create(ctx, memberID, items, clearCart)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		s.cache.Forget(ctx, ids...)
	}
	// The order is committed; a lost event is logged, not returned.
	if err := s.publisher.Publish(ctx, events.OrderPlacedKey, events.NewOrderPlaced(order)); err != nil {
		s.logger.Warn("publish order placed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}

// ListOrders returns every order for admins and only the requester's own orders otherwise,
// newest first.
func (s *Service) ListOrders(ctx context.Context, requesterID int64, role domain.Role) ([]domain.Order, error) {
	if role == domain.RoleAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByMember(ctx, requesterID)
}

func validateItems(items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyOrder
	}
	v := &domain.ValidationError{}
	totals := make(map[int64]int, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			v.Add("order_items", "product id must be positive")
		}
		switch {
		case it.Quantity < 1:
			v.Add("order_items", "quantity must be at least 1")
		case it.Quantity > domain.MaxQuantity:
			v.Add("order_items", fmt.Sprintf("quantity must be at most %d", domain.MaxQuantity))
		case it.Quantity > domain.MaxQuantity-totals[it.ProductID]:
			v.Add("order_items", fmt.Sprintf("total quantity of product %d must be at most %d", it.ProductID, domain.MaxQuantity))
		default:
			totals[it.ProductID] += it.Quantity
		}
	}
	return v.OrNil()
}

// ParseOrderItems reads repeated "<productId>:<quantity>" form values.
func ParseOrderItems(values []string) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(values))
	for _, raw := range values {
		idPart, qtyPart, ok := strings.Cut(strings.TrimSpace(raw), ":")
		if !ok {
			return nil, domain.NewValidationError("order_items", "expected <productId>:<quantity>, got "+strconv.Quote(raw))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.NewValidationError("order_items", "invalid product id "+strconv.Quote(idPart))
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
		if err != nil || qty < 1 || qty > domain.MaxQuantity {
			return nil, domain.NewValidationError("order_items", "invalid quantity "+strconv.Quote(qtyPart))
		}
		items = append(items, domain.OrderItem{ProductID: id, Quantity: qty})
	}
	return items, nil
}
