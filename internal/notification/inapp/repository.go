// Package inapp persists the append-only notification log. Rows are
// write-once: the engine records intent here and never mutates the body.
package inapp

import (
	"context"
	"fmt"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate = "notification.inapp.repository.create"
	opList   = "notification.inapp.repository.list"

	errRepoNotConfigured = "in-app notification repository not configured"
)

// RecipientRole addresses a notification to one audience.
type RecipientRole string

const (
	RecipientAdmin     RecipientRole = "admin"
	RecipientCandidate RecipientRole = "fc"
)

type Notification struct {
	ID             uuid.UUID     `json:"id"`
	RecipientRole  RecipientRole `json:"recipientRole"`
	RecipientPhone *string       `json:"recipientPhone,omitempty"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	Category       string        `json:"category"`
	DeepLink       *string       `json:"deepLink,omitempty"`
	IsRead         bool          `json:"isRead"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type CreateParams struct {
	RecipientRole  RecipientRole
	RecipientPhone *string
	Title          string
	Body           string
	Category       string
	DeepLink       *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.Title == "" || p.Body == "" {
		return Notification{}, apperr.Validation("title and body are required").WithOp(opCreate)
	}
	if p.RecipientRole == RecipientCandidate && (p.RecipientPhone == nil || *p.RecipientPhone == "") {
		return Notification{}, apperr.Validation("candidate notifications require a phone").WithOp(opCreate)
	}

	category := p.Category
	if category == "" {
		category = "info"
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO fc_notifications
		(recipient_role, recipient_phone, title, body, category, deep_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, recipient_role, recipient_phone, title, body, category, deep_link, is_read, created_at
	`, string(p.RecipientRole), p.RecipientPhone, p.Title, p.Body, category, p.DeepLink).Scan(
		&n.ID, &n.RecipientRole, &n.RecipientPhone, &n.Title, &n.Body, &n.Category, &n.DeepLink, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return Notification{}, apperr.Internal(fmt.Sprintf("create notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

// ListForCandidate returns the candidate's notifications, newest first.
func (r *Repository) ListForCandidate(ctx context.Context, phone string, limit, offset int) ([]Notification, int, error) {
	return r.list(ctx,
		`WHERE recipient_role = 'fc' AND recipient_phone = $1`,
		[]any{phone}, limit, offset)
}

// ListForAdmins returns the admin-audience notifications, newest first.
func (r *Repository) ListForAdmins(ctx context.Context, limit, offset int) ([]Notification, int, error) {
	return r.list(ctx, `WHERE recipient_role = 'admin'`, nil, limit, offset)
}

func (r *Repository) list(ctx context.Context, where string, args []any, limit, offset int) ([]Notification, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM fc_notifications ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}

	query := `SELECT id, recipient_role, recipient_phone, title, body, category, deep_link, is_read, created_at
		FROM fc_notifications ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if scanErr := rows.Scan(&n.ID, &n.RecipientRole, &n.RecipientPhone, &n.Title, &n.Body, &n.Category, &n.DeepLink, &n.IsRead, &n.CreatedAt); scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, total, nil
}

// MarkRead flips the read flag. Body and addressing stay immutable.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured)
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE fc_notifications SET is_read = TRUE, read_at = now() WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err))
	}
	return nil
}

// DeleteForCandidate removes a candidate's notifications inside the purge
// transaction.
func (r *Repository) DeleteForCandidate(ctx context.Context, tx pgx.Tx, phone string) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM fc_notifications WHERE recipient_role = 'fc' AND recipient_phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete candidate notifications: %w", err)
	}
	return nil
}
