package member

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const selectMember = `
SELECT m.id, m.username, m.name, m.password_hash, m.created_at,
       p.address, p.role, p.regdate
FROM members m
JOIN profiles p ON p.member_id = m.id
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

// Create inserts the member and its profile in one transaction so a member never exists
// without a profile.
func (r *postgresRepo) Create(ctx context.Context, m domain.Member) (*domain.Member, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := m
	out.Username = strings.ToLower(strings.TrimSpace(m.Username))
	err = tx.QueryRow(ctx, `
INSERT INTO members (username, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at
`, out.Username, out.Name, out.PasswordHash).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("member repo: insert member", zap.String("username", out.Username), zap.Error(err))
		return nil, err
	}

	role := m.Profile.Role
	if role == "" {
		role = domain.RoleUser
	}
	var roleText string
	err = tx.QueryRow(ctx, `
INSERT INTO profiles (member_id, address, role)
VALUES ($1, $2, $3)
RETURNING role, regdate
`, out.ID, m.Profile.Address, string(role)).Scan(&roleText, &out.Profile.RegDate)
	if err != nil {
		r.logger.Error("member repo: insert profile", zap.Int64("member_id", out.ID), zap.Error(err))
		return nil, err
	}
	out.Profile.MemberID = out.ID
	out.Profile.Address = m.Profile.Address
	out.Profile.Role = domain.Role(roleText)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("member repo: created", zap.Int64("member_id", out.ID), zap.String("role", roleText))
	return &out, nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	return r.scanMember(r.pool.QueryRow(ctx, selectMember+`WHERE lower(m.username) = lower($1) LIMIT 1`, strings.TrimSpace(username)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.scanMember(r.pool.QueryRow(ctx, selectMember+`WHERE m.id = $1`, id))
}

func (r *postgresRepo) scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var role string
	err := row.Scan(
		&m.ID,
		&m.Username,
		&m.Name,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.Profile.Address,
		&role,
		&m.Profile.RegDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("member repo: scan", zap.Error(err))
		return nil, err
	}
	m.Profile.MemberID = m.ID
	m.Profile.Role = domain.Role(role)
	return &m, nil
}
