package order

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, memberID int64, items []domain.OrderItem, clearCart bool) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, it := range items {
		if it.Quantity < 1 || it.Quantity > domain.MaxQuantity {
			return nil, domain.NewValidationError("order_items", fmt.Sprintf("quantity must be between 1 and %d", domain.MaxQuantity))
		}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Decrement in ascending product id order so concurrent checkouts lock rows consistently.
	for _, d := range demand(items) {
		if d.Quantity > domain.MaxQuantity {
			return nil, fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, d.ProductID)
		}
		if err := decrementStock(ctx, tx, d.ProductID, d.Quantity); err != nil {
			r.logger.Info("order repo: stock rejected",
				zap.Int64("member_id", memberID),
				zap.Int64("product_id", d.ProductID),
				zap.Int("quantity", d.Quantity),
				zap.Error(err))
			return nil, err
		}
	}

	order := domain.Order{MemberID: memberID}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (member_id) VALUES ($1)
RETURNING id, orderdate, status
`, memberID).Scan(&order.ID, &order.OrderDate, &order.Status)
	if err != nil {
		r.logger.Error("order repo: insert order", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}

	order.Lines = make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		line := domain.OrderLine{OrderID: order.ID, ProductID: it.ProductID, Quantity: it.Quantity}
		err := tx.QueryRow(ctx, `
INSERT INTO order_products (order_id, product_id, quantity) VALUES ($1, $2, $3)
RETURNING id
`, order.ID, it.ProductID, it.Quantity).Scan(&line.ID)
		if err != nil {
			r.logger.Error("order repo: insert line", zap.Int64("order_id", order.ID), zap.Error(err))
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}

	if clearCart {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_products cp USING carts c
WHERE cp.cart_id = c.id AND c.member_id = $1
`, memberID); err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order repo: order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("member_id", memberID),
		zap.Int("lines", len(order.Lines)))
	return &order, nil
}

func decrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	var remaining int
	err := tx.QueryRow(ctx, `
UPDATE products SET stock = stock - $1
WHERE id = $2 AND stock >= $1
RETURNING stock
`, quantity, productID).Scan(&remaining)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
	}
	return fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, productID)
}

// demand sums requested quantities per product, ordered by product id. A sum past
// MaxQuantity saturates at MaxQuantity+1, which no stock level can satisfy.
func demand(items []domain.OrderItem) []domain.OrderItem {
	totals := make(map[int64]int, len(items))
	for _, it := range items {
		t := totals[it.ProductID]
		if it.Quantity > domain.MaxQuantity-t {
			t = domain.MaxQuantity + 1
		} else {
			t += it.Quantity
		}
		totals[it.ProductID] = t
	}
	out := make([]domain.OrderItem, 0, len(totals))
	for id, q := range totals {
		out = append(out, domain.OrderItem{ProductID: id, Quantity: q})
	}
	slices.SortFunc(out, func(a, b domain.OrderItem) int {
		switch {
		case a.ProductID < b.ProductID:
			return -1
		case a.ProductID > b.ProductID:
			return 1
		}
		return 0
	})
	return out
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.list(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &orders[0], nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, "")
}

func (r *postgresRepo) ListByMember(ctx context.Context, memberID int64) ([]domain.Order, error) {
	return r.list(ctx, `WHERE member_id = $1`, memberID)
}

func (r *postgresRepo) list(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	q := `SELECT id, member_id, orderdate, status FROM orders ` + where + ` ORDER BY orderdate DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("order repo: list", zap.Error(err))
		return nil, err
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		var status string
		err := row.Scan(&o.ID, &o.MemberID, &o.OrderDate, &status)
		o.Status = domain.OrderStatus(status)
		o.Lines = []domain.OrderLine{}
		return o, err
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}
	rows, err = r.pool.Query(ctx, `
SELECT id, order_id, product_id, quantity
FROM order_products
WHERE order_id = ANY($1)
ORDER BY id
`, ids)
	if err != nil {
		r.logger.Error("order repo: list lines", zap.Error(err))
		return nil, err
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.OrderLine])
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return orders, nil
}
