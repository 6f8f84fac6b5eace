package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
)

type memberSeed struct {
	Username string
	Name     string
	Password string
	Address  string
	Role     domain.Role
}

type productSeed struct {
	Name        string
	Price       int64
	Category    domain.Category
	Stock       int
	Image       string
	Description string
}

var members = []memberSeed{
	{Username: "admin@storefront.local", Name: "관리자", Password: "Admin123!", Address: "서울시 중구", Role: domain.RoleAdmin},
	{Username: "demo@storefront.local", Name: "데모", Password: "Demo1234!", Address: "서울시 마포구", Role: domain.RoleUser},
}

var products = []productSeed{
	{Name: "아메리카노", Price: 4000, Category: domain.CategoryBeverage, Stock: 100, Image: "americano_bigs.jpg", Description: "아메리카노는 진한 풍미가 느껴져요."},
	{Name: "바닐라라떼", Price: 5000, Category: domain.CategoryBeverage, Stock: 80, Image: "vanilla_latte.jpg", Description: "바닐라라떼는 달콤하고 향이 가득해요."},
	{Name: "크로아상", Price: 3500, Category: domain.CategoryBread, Stock: 60, Image: "croissant_bigs.jpg", Description: "크로아상는 고소하고 식감이 좋아요."},
	{Name: "바게트", Price: 4000, Category: domain.CategoryBread, Stock: 50, Image: "baguette.jpg", Description: "바게트는 담백하고 맛이 나요."},
	{Name: "케이크", Price: 8000, Category: domain.CategoryCake, Stock: 30, Image: "strawberry_cake_bigs.jpg", Description: "케이크는 부드럽고 기분이 좋아져요."},
	{Name: "마카롱", Price: 2500, Category: domain.CategoryCake, Stock: 120, Image: "macaron.jpg", Description: "마카롱는 상큼하고 맛이 나요."},
}

// Apply inserts demo members and products for manual testing. Re-running it changes nothing.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range members {
		if err := ensureMember(ctx, tx, m); err != nil {
			return fmt.Errorf("ensure member %s: %w", m.Username, err)
		}
	}
	for _, p := range products {
		if err := ensureProduct(ctx, tx, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func ensureMember(ctx context.Context, tx pgx.Tx, m memberSeed) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM members WHERE username = $1`, m.Username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `
INSERT INTO members (username, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id
`, m.Username, m.Name, string(hash)).Scan(&id); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO profiles (member_id, address, role)
VALUES ($1, $2, $3)
ON CONFLICT (member_id) DO UPDATE SET role = EXCLUDED.role
`, id, m.Address, string(m.Role))
	return err
}

func ensureProduct(ctx context.Context, tx pgx.Tx, p productSeed) error {
	const q = `
INSERT INTO products (name, price, category, stock, image, description, inputdate)
SELECT $1::varchar, $2::integer, $3::varchar, $4::integer, $5::text, $6::varchar, CURRENT_DATE
WHERE NOT EXISTS (SELECT 1 FROM products WHERE image = $5::text)
`
	_, err := tx.Exec(ctx, q, p.Name, p.Price, string(p.Category), p.Stock, p.Image, p.Description)
	return err
}
