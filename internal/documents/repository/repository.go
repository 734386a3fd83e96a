// Package repository provides database access for candidate document rows.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document is one required document row for a candidate. A row exists from
// the moment an admin requests the type; StoragePath is empty until upload
// and becomes the deleted sentinel when the candidate removes the file.
type Document struct {
	ID           int64      `db:"id"`
	Phone        string     `db:"phone"`
	DocType      string     `db:"doc_type"`
	StoragePath  string     `db:"storage_path"`
	FileName     *string    `db:"file_name"`
	Status       string     `db:"status"`
	ReviewerNote *string    `db:"reviewer_note"`
	UploadedAt   *time.Time `db:"uploaded_at"`
	ReviewedAt   *time.Time `db:"reviewed_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// StageDocument converts the row into the derivation view.
func (d Document) StageDocument() stage.Document {
	return stage.Document{
		Type:        d.DocType,
		StoragePath: d.StoragePath,
		Status:      stage.DocStatus(d.Status),
	}
}

// StageDocuments converts a row set into the derivation view.
func StageDocuments(docs []Document) []stage.Document {
	out := make([]stage.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.StageDocument())
	}
	return out
}

const documentColumns = `id, phone, doc_type, storage_path, file_name, status,
	reviewer_note, uploaded_at, reviewed_at, created_at, updated_at`

// Repository provides database operations for documents.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new documents repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(
			&d.ID, &d.Phone, &d.DocType, &d.StoragePath, &d.FileName, &d.Status,
			&d.ReviewerNote, &d.UploadedAt, &d.ReviewedAt, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// ListByPhone returns all document rows for a candidate.
func (r *Repository) ListByPhone(ctx context.Context, phone string) ([]Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_documents WHERE phone = $1 ORDER BY id`, documentColumns)
	rows, err := r.pool.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListAll returns every document row, ordered by candidate. The admin
// dashboard groups them per phone to compute progress badges in one query
// instead of one per candidate.
func (r *Repository) ListAll(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_documents ORDER BY phone, id`, documentColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListByPhoneTx returns all document rows for a candidate inside tx. Used by
// the aggregation decision, which must re-read the full set under the
// candidate row lock rather than trust a count from an earlier request.
func (r *Repository) ListByPhoneTx(ctx context.Context, tx pgx.Tx, phone string) ([]Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_documents WHERE phone = $1 ORDER BY id`, documentColumns)
	rows, err := tx.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

// GetByType returns one document row.
func (r *Repository) GetByType(ctx context.Context, tx pgx.Tx, phone, docType string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM fc_documents WHERE phone = $1 AND doc_type = $2`, documentColumns)
	rows, err := tx.Query(ctx, query, phone, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperr.NotFound("document not requested for this candidate")
	}
	return &docs[0], nil
}

// InsertRequested creates an empty requested row for a type. Requesting a
// type that already has a row is a no-op.
func (r *Repository) InsertRequested(ctx context.Context, tx pgx.Tx, phone, docType string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO fc_documents (phone, doc_type, storage_path, status, created_at, updated_at)
		VALUES ($1, $2, '', 'pending', now(), now())
		ON CONFLICT (phone, doc_type) DO NOTHING`,
		phone, docType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert requested document: %w", err)
	}
	return nil
}

// DeleteUnsubmitted removes rows whose type is not in keep and that never
// carry an uploaded file. Rows with upload history stay for audit.
func (r *Repository) DeleteUnsubmitted(ctx context.Context, tx pgx.Tx, phone string, keep []string) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM fc_documents
		WHERE phone = $1
		  AND NOT (doc_type = ANY($2))
		  AND (storage_path = '' OR storage_path = $3)`,
		phone, keep, stage.DeletedSentinel,
	)
	if err != nil {
		return fmt.Errorf("failed to delete unsubmitted documents: %w", err)
	}
	return nil
}

// DeleteAll removes every document row for a candidate. Used when the
// requested set is cleared entirely and by the purge cascade.
func (r *Repository) DeleteAll(ctx context.Context, tx pgx.Tx, phone string) error {
	_, err := tx.Exec(ctx, `DELETE FROM fc_documents WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// SetUpload records an uploaded file on a requested row. Re-uploading over a
// rejected document resets its status to pending and clears the note.
func (r *Repository) SetUpload(ctx context.Context, tx pgx.Tx, phone, docType, storagePath, fileName string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE fc_documents
		SET storage_path = $3, file_name = $4, status = 'pending',
		    reviewer_note = NULL, uploaded_at = now(), reviewed_at = NULL, updated_at = now()
		WHERE phone = $1 AND doc_type = $2`,
		phone, docType, storagePath, fileName,
	)
	if err != nil {
		return fmt.Errorf("failed to record document upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("document not requested for this candidate")
	}
	return nil
}

// SetReview records a review decision on a single row.
func (r *Repository) SetReview(ctx context.Context, tx pgx.Tx, phone, docType, status string, note *string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE fc_documents
		SET status = $3, reviewer_note = $4, reviewed_at = now(), updated_at = now()
		WHERE phone = $1 AND doc_type = $2`,
		phone, docType, status, note,
	)
	if err != nil {
		return fmt.Errorf("failed to record document review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("document not requested for this candidate")
	}
	return nil
}

// MarkFileDeleted soft-removes an uploaded file: the row survives with the
// deleted sentinel so review history stays auditable.
func (r *Repository) MarkFileDeleted(ctx context.Context, tx pgx.Tx, phone, docType string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE fc_documents
		SET storage_path = $3, file_name = NULL, status = 'pending',
		    reviewer_note = NULL, uploaded_at = NULL, reviewed_at = NULL, updated_at = now()
		WHERE phone = $1 AND doc_type = $2`,
		phone, docType, stage.DeletedSentinel,
	)
	if err != nil {
		return fmt.Errorf("failed to mark document file deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("document not requested for this candidate")
	}
	return nil
}

// StoragePaths returns the object keys of all uploaded files for a
// candidate. The purge cascade removes them from object storage.
func (r *Repository) StoragePaths(ctx context.Context, phone string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT storage_path FROM fc_documents
		WHERE phone = $1 AND storage_path <> '' AND storage_path <> $2`,
		phone, stage.DeletedSentinel,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list document storage paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan storage path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage paths: %w", err)
	}
	return paths, nil
}

// IsNotFound reports whether err is the missing-document error.
func IsNotFound(err error) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound
}
