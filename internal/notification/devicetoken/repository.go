// Package devicetoken stores Expo push tokens per candidate phone.
package devicetoken

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Register stores a token for the phone. Re-registering the same token is a
// no-op; a token moving between phones is reassigned to the latest owner.
func (r *Repository) Register(ctx context.Context, phone, token string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fc_device_tokens (phone, token, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (token) DO UPDATE SET phone = EXCLUDED.phone, updated_at = now()`,
		phone, token,
	)
	if err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

// Unregister removes a token.
func (r *Repository) Unregister(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM fc_device_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to unregister device token: %w", err)
	}
	return nil
}

// ListByPhone returns all tokens registered for a candidate.
func (r *Repository) ListByPhone(ctx context.Context, phone string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT token FROM fc_device_tokens WHERE phone = $1`, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device tokens: %w", err)
	}
	return tokens, nil
}

// DeleteForCandidate removes a candidate's tokens inside the purge
// transaction.
func (r *Repository) DeleteForCandidate(ctx context.Context, tx pgx.Tx, phone string) error {
	_, err := tx.Exec(ctx, `DELETE FROM fc_device_tokens WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete candidate device tokens: %w", err)
	}
	return nil
}
