// Package repository persists the dual-track appointment fields. The fields
// live on fc_profiles, so every write here runs inside the caller's
// candidate transaction under the row lock.
package repository

import (
	"context"
	"fmt"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for appointment tracks.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func trackColumns(track stage.Track) (dateCol, subCol, scheduleCol, rejectCol string) {
	if track == stage.TrackLife {
		return "appointment_date_life", "appointment_date_life_sub",
			"appointment_schedule_life", "reject_reason_life"
	}
	return "appointment_date_nonlife", "appointment_date_nonlife_sub",
		"appointment_schedule_nonlife", "reject_reason_nonlife"
}

// SetSchedule writes the free-text schedule for a track. A nil text clears it.
func (r *Repository) SetSchedule(ctx context.Context, tx pgx.Tx, phone string, track stage.Track, text *string) error {
	_, _, scheduleCol, _ := trackColumns(track)
	query := fmt.Sprintf(`UPDATE fc_profiles SET %s = $2, updated_at = now() WHERE phone = $1`, scheduleCol)
	if _, err := tx.Exec(ctx, query, phone, text); err != nil {
		return fmt.Errorf("failed to set appointment schedule: %w", err)
	}
	return nil
}

// SetConfirmed records the authoritative confirmed date for a track and
// clears any standing rejection.
func (r *Repository) SetConfirmed(ctx context.Context, tx pgx.Tx, phone string, track stage.Track, date string) error {
	dateCol, _, _, rejectCol := trackColumns(track)
	query := fmt.Sprintf(
		`UPDATE fc_profiles SET %s = $2, %s = NULL, updated_at = now() WHERE phone = $1`,
		dateCol, rejectCol,
	)
	if _, err := tx.Exec(ctx, query, phone, date); err != nil {
		return fmt.Errorf("failed to confirm appointment date: %w", err)
	}
	return nil
}

// SetRejected clears the confirmed date and the candidate's advisory date
// and records the rejection reason.
func (r *Repository) SetRejected(ctx context.Context, tx pgx.Tx, phone string, track stage.Track, reason *string) error {
	dateCol, subCol, _, rejectCol := trackColumns(track)
	query := fmt.Sprintf(
		`UPDATE fc_profiles SET %s = NULL, %s = NULL, %s = $2, updated_at = now() WHERE phone = $1`,
		dateCol, subCol, rejectCol,
	)
	if _, err := tx.Exec(ctx, query, phone, reason); err != nil {
		return fmt.Errorf("failed to reject appointment date: %w", err)
	}
	return nil
}

// SetAdvisoryDate records the candidate-submitted pending date. Advisory
// only: the confirmed date stays authoritative and untouched. A standing
// rejection is cleared since the candidate is re-submitting.
func (r *Repository) SetAdvisoryDate(ctx context.Context, tx pgx.Tx, phone string, track stage.Track, date string) error {
	_, subCol, _, rejectCol := trackColumns(track)
	query := fmt.Sprintf(
		`UPDATE fc_profiles SET %s = $2, %s = NULL, updated_at = now() WHERE phone = $1`,
		subCol, rejectCol,
	)
	if _, err := tx.Exec(ctx, query, phone, date); err != nil {
		return fmt.Errorf("failed to submit appointment date: %w", err)
	}
	return nil
}
