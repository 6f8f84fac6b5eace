package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const productColumns = `id, name, price, category, stock, image, description, inputdate`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

// List returns one page of products matching filter, newest id first, and the total match count.
func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	where, args := filterClause(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		r.logger.Error("product repo: count", zap.Error(err))
		return nil, 0, err
	}

	args = append(args, filter.PageSize, filter.PageNumber*filter.PageSize)
	q := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))
	products, err := r.query(ctx, q, args...)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, 0, err
	}
	r.logger.Debug("product repo: list",
		zap.String("category", string(filter.Category)),
		zap.String("keyword", filter.Keyword),
		zap.Int("count", len(products)),
		zap.Int("total", total))
	return products, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product repo: get not found", zap.Int64("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// ListByImage returns products whose image name contains fragment, case-insensitively.
func (r *postgresRepo) ListByImage(ctx context.Context, fragment string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE image ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY id DESC`
	return r.query(ctx, q, escapeLike(fragment))
}

// CreateBatch bulk-inserts products in a single COPY and returns the number of rows written.
func (r *postgresRepo) CreateBatch(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.Name, p.Price, string(p.Category), p.Stock, p.Image, p.Description, p.InputDate})
	}
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"name", "price", "category", "stock", "image", "description", "inputdate"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		r.logger.Error("product repo: copy", zap.Int("rows", len(rows)), zap.Error(err))
		return 0, err
	}
	r.logger.Info("product repo: bulk created", zap.Int64("rows", n))
	return int(n), nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var category string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &category, &p.Stock, &p.Image, &p.Description, &p.InputDate); err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}

func filterClause(f domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != "" && f.Category != domain.CategoryAll {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		args = append(args, escapeLike(kw))
		n := len(args)
		name := fmt.Sprintf(`name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, n)
		desc := fmt.Sprintf(`description ILIKE '%%' || $%d || '%%' ESCAPE '\'`, n)
		switch f.SearchMode {
		case "name":
			conds = append(conds, name)
		case "description":
			conds = append(conds, desc)
		default:
			conds = append(conds, "("+name+" OR "+desc+")")
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
