// Package repository persists admin accounts and refresh tokens.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// AdminAccount is a back-office operator login.
type AdminAccount struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is a stored refresh grant. Subject is an admin account UUID
// or a candidate phone number; Phone is empty for admin grants.
type RefreshToken struct {
	Subject   string
	Phone     string
	Roles     []string
	ExpiresAt time.Time
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (AdminAccount, error) {
	var account AdminAccount
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admin_accounts
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Name, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminAccount{}, ErrNotFound
	}
	if err != nil {
		return AdminAccount{}, err
	}
	return account, nil
}

func (r *Repository) CreateAdmin(ctx context.Context, email, passwordHash, name string) (AdminAccount, error) {
	var account AdminAccount
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admin_accounts (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, name, created_at, updated_at`,
		email, passwordHash, name,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Name, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return AdminAccount{}, err
	}
	return account, nil
}

func (r *Repository) CreateRefreshToken(ctx context.Context, hash, subject, phone string, roles []string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_refresh_tokens (token_hash, subject, phone, roles, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		hash, subject, phone, roles, expiresAt,
	)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, hash string) (RefreshToken, error) {
	var grant RefreshToken
	err := r.pool.QueryRow(ctx, `
		SELECT subject, phone, roles, expires_at
		FROM auth_refresh_tokens
		WHERE token_hash = $1`,
		hash,
	).Scan(&grant.Subject, &grant.Phone, &grant.Roles, &grant.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RefreshToken{}, ErrNotFound
	}
	if err != nil {
		return RefreshToken{}, err
	}
	return grant, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, hash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM auth_refresh_tokens WHERE token_hash = $1`, hash)
	return err
}

// RevokeAllForSubject drops every refresh grant held by a subject.
// Used when a candidate record is purged.
func (r *Repository) RevokeAllForSubject(ctx context.Context, subject string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM auth_refresh_tokens WHERE subject = $1`, subject)
	return err
}

// DeleteExpired clears refresh grants past their expiry.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_refresh_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
