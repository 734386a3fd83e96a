package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Candidate represents the fc_profiles database model. Candidates are keyed
// by normalized phone number.
type Candidate struct {
	Phone               string     `db:"phone"`
	Name                string     `db:"name"`
	Affiliation         string     `db:"affiliation"`
	ResidentIDMasked    string     `db:"resident_id_masked"`
	Email               *string    `db:"email"`
	Address             *string    `db:"address"`
	Recommender         *string    `db:"recommender"`
	CareerType          *string    `db:"career_type"`
	TempID              *string    `db:"temp_id"`
	Status              string     `db:"status"`
	ConsentDate         *string    `db:"consent_date"`
	ConsentRejectReason *string    `db:"consent_reject_reason"`
	ScheduleLife        *string    `db:"appointment_schedule_life"`
	ScheduleNonlife     *string    `db:"appointment_schedule_nonlife"`
	DateLife            *string    `db:"appointment_date_life"`
	DateNonlife         *string    `db:"appointment_date_nonlife"`
	DateLifeSub         *string    `db:"appointment_date_life_sub"`
	DateNonlifeSub      *string    `db:"appointment_date_nonlife_sub"`
	RejectReasonLife    *string    `db:"reject_reason_life"`
	RejectReasonNonlife *string    `db:"reject_reason_nonlife"`
	DocsDeadline        *time.Time `db:"docs_deadline"`
	DocsDeadlineNotedAt *time.Time `db:"docs_deadline_reminded_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// StageProfile converts the database model into the pure derivation view.
func (c *Candidate) StageProfile() stage.Profile {
	return stage.Profile{
		Name:             c.Name,
		Affiliation:      c.Affiliation,
		ResidentIDMasked: c.ResidentIDMasked,
		Email:            deref(c.Email),
		Address:          deref(c.Address),
		TempID:           deref(c.TempID),
		Status:           stage.Status(c.Status),
		ScheduleLife:     deref(c.ScheduleLife),
		ScheduleNonlife:  deref(c.ScheduleNonlife),
		DateLife:         deref(c.DateLife),
		DateNonlife:      deref(c.DateNonlife),
		DateLifeSub:      deref(c.DateLifeSub),
		DateNonlifeSub:   deref(c.DateNonlifeSub),
	}
}

const candidateColumns = `phone, name, affiliation, resident_id_masked, email, address,
	recommender, career_type, temp_id, status, consent_date, consent_reject_reason,
	appointment_schedule_life, appointment_schedule_nonlife,
	appointment_date_life, appointment_date_nonlife,
	appointment_date_life_sub, appointment_date_nonlife_sub,
	reject_reason_life, reject_reason_nonlife,
	docs_deadline, docs_deadline_reminded_at, created_at, updated_at`

const candidateNotFoundMsg = "candidate not found"

// Repository provides database operations for candidates.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new candidates repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx runs fn inside a transaction, committing on nil error.
func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	err := row.Scan(
		&c.Phone, &c.Name, &c.Affiliation, &c.ResidentIDMasked, &c.Email, &c.Address,
		&c.Recommender, &c.CareerType, &c.TempID, &c.Status, &c.ConsentDate, &c.ConsentRejectReason,
		&c.ScheduleLife, &c.ScheduleNonlife,
		&c.DateLife, &c.DateNonlife,
		&c.DateLifeSub, &c.DateNonlifeSub,
		&c.RejectReasonLife, &c.RejectReasonNonlife,
		&c.DocsDeadline, &c.DocsDeadlineNotedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(candidateNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan candidate: %w", err)
	}
	return &c, nil
}

// GetByPhone retrieves a candidate by phone number.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_profiles WHERE phone = $1`, candidateColumns)
	return scanCandidate(r.pool.QueryRow(ctx, query, phone))
}

// GetByPhoneForUpdate retrieves a candidate inside tx with a row lock,
// serializing concurrent transitions for the same candidate.
func (r *Repository) GetByPhoneForUpdate(ctx context.Context, tx pgx.Tx, phone string) (*Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_profiles WHERE phone = $1 FOR UPDATE`, candidateColumns)
	return scanCandidate(tx.QueryRow(ctx, query, phone))
}

// UpsertIdentity creates the profile at identity registration, or refreshes
// the identity fields if the phone already exists. Idempotent.
func (r *Repository) UpsertIdentity(ctx context.Context, c *Candidate) error {
	query := `
		INSERT INTO fc_profiles (
			phone, name, affiliation, resident_id_masked, email, address,
			recommender, career_type, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			affiliation = EXCLUDED.affiliation,
			resident_id_masked = EXCLUDED.resident_id_masked,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			recommender = EXCLUDED.recommender,
			career_type = EXCLUDED.career_type,
			updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		c.Phone, c.Name, c.Affiliation, c.ResidentIDMasked, c.Email, c.Address,
		c.Recommender, c.CareerType, c.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}
	return nil
}

// UpdateStatus writes the cached status inside a transaction.
func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, phone string, status stage.Status) error {
	result, err := tx.Exec(ctx,
		`UPDATE fc_profiles SET status = $2, updated_at = now() WHERE phone = $1`,
		phone, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// SetTempID issues the temporary employee ID and advances a draft profile.
func (r *Repository) SetTempID(ctx context.Context, tx pgx.Tx, phone, tempID string) error {
	result, err := tx.Exec(ctx,
		`UPDATE fc_profiles SET temp_id = $2,
			status = CASE WHEN status = 'draft' THEN 'temp-id-issued' ELSE status END,
			updated_at = now()
		WHERE phone = $1`,
		phone, tempID,
	)
	if err != nil {
		return fmt.Errorf("failed to set temp id: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// UpdateProfileFields applies a guarded partial update of editable profile
// fields. Nil pointers leave the column untouched.
type ProfilePatch struct {
	Name        *string
	Affiliation *string
	Email       *string
	Address     *string
	Recommender *string
	CareerType  *string
}

func (r *Repository) UpdateProfileFields(ctx context.Context, tx pgx.Tx, phone string, patch ProfilePatch) error {
	result, err := tx.Exec(ctx, `
		UPDATE fc_profiles SET
			name = COALESCE($2, name),
			affiliation = COALESCE($3, affiliation),
			email = COALESCE($4, email),
			address = COALESCE($5, address),
			recommender = COALESCE($6, recommender),
			career_type = COALESCE($7, career_type),
			updated_at = now()
		WHERE phone = $1`,
		phone, patch.Name, patch.Affiliation, patch.Email, patch.Address,
		patch.Recommender, patch.CareerType,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// SubmitConsent records the allowance consent date, moves the candidate to
// review and clears any prior rejection.
func (r *Repository) SubmitConsent(ctx context.Context, tx pgx.Tx, phone, consentDate string) error {
	result, err := tx.Exec(ctx, `
		UPDATE fc_profiles SET
			consent_date = $2,
			consent_reject_reason = NULL,
			status = 'allowance-pending',
			updated_at = now()
		WHERE phone = $1`,
		phone, consentDate,
	)
	if err != nil {
		return fmt.Errorf("failed to submit consent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// ReviewConsent approves or rejects the submitted consent.
func (r *Repository) ReviewConsent(ctx context.Context, tx pgx.Tx, phone string, approved bool, reason *string) error {
	var result pgconn.CommandTag
	var err error
	if approved {
		result, err = tx.Exec(ctx, `
			UPDATE fc_profiles SET
				status = 'allowance-consented',
				consent_reject_reason = NULL,
				updated_at = now()
			WHERE phone = $1`, phone)
	} else {
		result, err = tx.Exec(ctx, `
			UPDATE fc_profiles SET
				status = 'temp-id-issued',
				consent_date = NULL,
				consent_reject_reason = $2,
				updated_at = now()
			WHERE phone = $1`, phone, reason)
	}
	if err != nil {
		return fmt.Errorf("failed to review consent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// SetDocsDeadline updates the document deadline. Changing the deadline
// resets the reminder marker so the next reminder fires again.
func (r *Repository) SetDocsDeadline(ctx context.Context, tx pgx.Tx, phone string, deadline *time.Time) error {
	result, err := tx.Exec(ctx, `
		UPDATE fc_profiles SET
			docs_deadline = $2,
			docs_deadline_reminded_at = CASE
				WHEN docs_deadline IS DISTINCT FROM $2 THEN NULL
				ELSE docs_deadline_reminded_at
			END,
			updated_at = now()
		WHERE phone = $1`,
		phone, deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to set docs deadline: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

// MarkDeadlineReminded records that the reminder for the current deadline
// has been sent.
func (r *Repository) MarkDeadlineReminded(ctx context.Context, phone string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE fc_profiles SET docs_deadline_reminded_at = now() WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to mark deadline reminded: %w", err)
	}
	return nil
}

// ListDeadlineCandidates returns candidates whose deadline falls within the
// window and who have not been reminded for it yet.
func (r *Repository) ListDeadlineCandidates(ctx context.Context, before time.Time) ([]Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_profiles
		WHERE docs_deadline IS NOT NULL
		AND docs_deadline <= $1
		AND docs_deadline >= now()
		AND docs_deadline_reminded_at IS NULL`, candidateColumns)

	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadline candidates: %w", err)
	}
	defer rows.Close()

	return collectCandidates(rows)
}

// List retrieves all candidates ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_profiles ORDER BY created_at DESC`, candidateColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	return collectCandidates(rows)
}

// Delete removes the profile row. Related rows (documents, notifications,
// device tokens) are removed by the purge service before this call.
func (r *Repository) Delete(ctx context.Context, tx pgx.Tx, phone string) error {
	result, err := tx.Exec(ctx, `DELETE FROM fc_profiles WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMsg)
	}
	return nil
}

func collectCandidates(rows pgx.Rows) ([]Candidate, error) {
	var items []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(
			&c.Phone, &c.Name, &c.Affiliation, &c.ResidentIDMasked, &c.Email, &c.Address,
			&c.Recommender, &c.CareerType, &c.TempID, &c.Status, &c.ConsentDate, &c.ConsentRejectReason,
			&c.ScheduleLife, &c.ScheduleNonlife,
			&c.DateLife, &c.DateNonlife,
			&c.DateLifeSub, &c.DateNonlifeSub,
			&c.RejectReasonLife, &c.RejectReasonNonlife,
			&c.DocsDeadline, &c.DocsDeadlineNotedAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return items, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
