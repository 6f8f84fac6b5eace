// Package testdb opens the Postgres database used by repository integration tests.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/migrate"
)

// Pool connects to TEST_DB_DSN, applies migrations and truncates every table.
// The test is skipped when TEST_DB_DSN is unset or the database is unreachable.
func Pool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("ping db: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Reset(ctx, t, pool)
	return pool
}

// Reset empties all tables and restarts their id sequences.
func Reset(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_products, orders, cart_products, carts, products, member_tokens, profiles, members RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

// InsertMember creates a member with a profile and returns its id.
func InsertMember(ctx context.Context, t *testing.T, pool *pgxpool.Pool, username, role string) int64 {
	t.Helper()
	var id int64
	if err := pool.QueryRow(ctx, `INSERT INTO members (username, name, password_hash) VALUES ($1, $1, 'x') RETURNING id`, username).Scan(&id); err != nil {
		t.Fatalf("insert member: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO profiles (member_id, address, role) VALUES ($1, 'Seoul', $2)`, id, role); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return id
}

// InsertProduct creates a product and returns its id.
func InsertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, price int64, stock int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, price, category, stock, image, description)
VALUES ($1, $2, 'BREAD', $3, '', 'desc')
RETURNING id
`, name, price, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

// Stock reads the current stock of a product.
func Stock(ctx context.Context, t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}
