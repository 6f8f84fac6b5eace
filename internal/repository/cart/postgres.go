package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const (
	foreignKeyViolation    = "23503"
	numericValueOutOfRange = "22003"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) AddItem(ctx context.Context, memberID, productID int64, quantity int) (*domain.CartLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The no-op update makes RETURNING yield the existing cart id on conflict.
	var cartID int64
	err = tx.QueryRow(ctx, `
INSERT INTO carts (member_id) VALUES ($1)
ON CONFLICT (member_id) DO UPDATE SET member_id = EXCLUDED.member_id
RETURNING id
`, memberID).Scan(&cartID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("member %d: %w", memberID, domain.ErrNotFound)
		}
		r.logger.Error("cart repo: get or create cart", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}

	line := domain.CartLine{CartID: cartID, ProductID: productID}
	err = tx.QueryRow(ctx, `
INSERT INTO cart_products (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_products.quantity + EXCLUDED.quantity
RETURNING id, quantity
`, cartID, productID, quantity).Scan(&line.ID, &line.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
		}
		if pgErrorCode(err) == numericValueOutOfRange {
			return nil, domain.NewValidationError("quantity", fmt.Sprintf("cart quantity must be at most %d", domain.MaxQuantity))
		}
		r.logger.Error("cart repo: upsert line",
			zap.Int64("cart_id", cartID), zap.Int64("product_id", productID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("cart repo: item added",
		zap.Int64("member_id", memberID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", line.Quantity))
	return &line, nil
}

// ListLines returns the member's cart lines in insertion order with their products joined.
// A member without a cart has no lines.
func (r *postgresRepo) ListLines(ctx context.Context, memberID int64) ([]domain.CartLine, error) {
	const q = `
SELECT cp.id, cp.cart_id, cp.product_id, cp.quantity,
       p.id, p.name, p.price, p.category, p.stock, p.image, p.description, p.inputdate
FROM carts c
JOIN cart_products cp ON cp.cart_id = c.id
JOIN products p ON p.id = cp.product_id
WHERE c.member_id = $1
ORDER BY cp.id
`
	rows, err := r.pool.Query(ctx, q, memberID)
	if err != nil {
		r.logger.Error("cart repo: list lines", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var (
			l        domain.CartLine
			p        domain.Product
			category string
		)
		if err := rows.Scan(
			&l.ID, &l.CartID, &l.ProductID, &l.Quantity,
			&p.ID, &p.Name, &p.Price, &category, &p.Stock, &p.Image, &p.Description, &p.InputDate,
		); err != nil {
			return nil, err
		}
		p.Category = domain.Category(category)
		l.Product = &p
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) GetByMember(ctx context.Context, memberID int64) (*domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx, `SELECT id, member_id, created_at FROM carts WHERE member_id = $1`, memberID).
		Scan(&c.ID, &c.MemberID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == foreignKeyViolation
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
