// Package service implements the document request, upload and review flows,
// including the auto-advance aggregation over the requested set.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/internal/adapters/storage"
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/transport"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/jackc/pgx/v5"
)

const (
	dateFormat      = "2006-01-02"
	defaultNoReason = "사유 없음"
)

// Notifier is the dispatcher boundary. Enqueue failures never surface here.
type Notifier interface {
	NotifyCandidate(ctx context.Context, phone, title, body, category, deepLink string)
	NotifyAdmins(ctx context.Context, title, body, category string)
}

// ObjectStore is the subset of storage operations the document flows use.
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

// Service provides business logic for candidate documents.
type Service struct {
	docs       *repository.Repository
	candidates *candrepo.Repository
	guard      *gateway.Gateway
	notifier   Notifier
	store      ObjectStore
	bucket     string
	eventBus   events.Bus
	log        *logger.Logger
}

// New creates a new documents service.
func New(
	docs *repository.Repository,
	candidates *candrepo.Repository,
	guard *gateway.Gateway,
	notifier Notifier,
	store ObjectStore,
	bucket string,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		docs:       docs,
		candidates: candidates,
		guard:      guard,
		notifier:   notifier,
		store:      store,
		bucket:     bucket,
		eventBus:   eventBus,
		log:        log,
	}
}

// List returns the requested set for a candidate. When withURLs is set,
// submitted rows carry presigned download links for review.
func (s *Service) List(ctx context.Context, phone string, withURLs bool) (*transport.ListResponse, error) {
	cand, err := s.candidates.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	resp := &transport.ListResponse{
		Status:    cand.Status,
		Deadline:  cand.DocsDeadline,
		Documents: make([]transport.DocumentResponse, 0, len(docs)),
	}
	for _, d := range docs {
		item := transport.DocumentResponse{
			Type:         d.DocType,
			FileName:     d.FileName,
			Status:       d.Status,
			StatusLabel:  docStatusLabel(stage.DocStatus(d.Status)),
			Submitted:    d.StageDocument().Submitted(),
			ReviewerNote: d.ReviewerNote,
			UploadedAt:   d.UploadedAt,
		}
		if withURLs && item.Submitted && s.store != nil {
			presigned, urlErr := s.store.GenerateDownloadURL(ctx, s.bucket, d.StoragePath)
			if urlErr != nil {
				s.log.Error("document_download_url_failed", "phone", phone, "docType", d.DocType, "error", urlErr)
			} else {
				item.DownloadURL = presigned.URL
			}
		}
		resp.Documents = append(resp.Documents, item)
	}
	return resp, nil
}

// RequestSet replaces the candidate's requested document set. Types with
// upload history are never deleted by removal from the set; an empty set
// clears the request phase entirely and reverts the candidate to the
// consent-complete state.
func (s *Service) RequestSet(ctx context.Context, actor gateway.Actor, phone string, req transport.RequestSetRequest) (stage.Status, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionRequestDocs, phone); err != nil {
		return "", err
	}

	types := normalizeTypes(req.Types)
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return "", err
	}

	var resulting stage.Status
	err = s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !stage.Status(cand.Status).AtLeast(stage.StatusAllowanceConsented) {
			return apperr.Validation("documents cannot be requested before allowance consent")
		}

		if len(types) == 0 {
			if err := s.docs.DeleteAll(ctx, tx, phone); err != nil {
				return err
			}
			if err := s.candidates.SetDocsDeadline(ctx, tx, phone, nil); err != nil {
				return err
			}
			resulting = stage.StatusAllowanceConsented
			return s.candidates.UpdateStatus(ctx, tx, phone, resulting)
		}

		if err := s.docs.DeleteUnsubmitted(ctx, tx, phone, types); err != nil {
			return err
		}
		for _, t := range types {
			if err := s.docs.InsertRequested(ctx, tx, phone, t); err != nil {
				return err
			}
		}
		if err := s.candidates.SetDocsDeadline(ctx, tx, phone, deadline); err != nil {
			return err
		}
		resulting = stage.StatusDocsRequested
		return s.candidates.UpdateStatus(ctx, tx, phone, resulting)
	})
	if err != nil {
		return "", err
	}

	if len(types) > 0 {
		s.notifier.NotifyCandidate(ctx, phone,
			"필수 서류 안내",
			fmt.Sprintf("제출이 필요한 서류 %d건이 등록되었습니다. 앱에서 확인해주세요.", len(types)),
			"document", "/docs-upload")
	}
	return resulting, nil
}

// Upload stores a file for one requested document type. The row resets to
// pending even when it was previously rejected.
func (s *Service) Upload(ctx context.Context, actor gateway.Actor, phone, docType, fileName, contentType string, file io.Reader, size int64) (*transport.UploadResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionUploadDocument, phone); err != nil {
		return nil, err
	}
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, apperr.Validation("docType is required")
	}

	folder := fmt.Sprintf("%s/%s", phone, docType)
	storagePath, err := s.store.UploadFile(ctx, s.bucket, folder, fileName, contentType, file, size)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var resulting stage.Status
	var candName string
	err = s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		candName = cand.Name

		if err := s.docs.SetUpload(ctx, tx, phone, docType, storagePath, fileName); err != nil {
			return err
		}

		docs, err := s.docs.ListByPhoneTx(ctx, tx, phone)
		if err != nil {
			return err
		}
		resulting = StatusAfterUpload(repository.StageDocuments(docs))
		return s.candidates.UpdateStatus(ctx, tx, phone, resulting)
	})
	if err != nil {
		// The object is orphaned if the row update failed; remove it so a
		// retry does not accumulate unreferenced files.
		if delErr := s.store.DeleteObject(ctx, s.bucket, storagePath); delErr != nil {
			s.log.Error("orphaned_document_object", "path", storagePath, "error", delErr)
		}
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.DocumentUploaded{
			BaseEvent: events.NewBaseEvent(),
			Phone:     phone,
			DocType:   docType,
			FileName:  fileName,
		})
	}
	if resulting == stage.StatusDocsSubmitted {
		s.notifier.NotifyAdmins(ctx,
			"서류 제출 완료",
			fmt.Sprintf("%s 님이 모든 필수 서류를 제출했습니다.", displayName(candName, phone)),
			"document")
	}

	return &transport.UploadResponse{
		Type:            docType,
		FileName:        fileName,
		ResultingStatus: string(resulting),
	}, nil
}

// Review records a single document decision and runs the aggregation over
// the full set re-read under the candidate row lock.
func (s *Service) Review(ctx context.Context, actor gateway.Actor, phone string, req transport.ReviewRequest) (*transport.ReviewResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionReviewDocument, phone); err != nil {
		return nil, err
	}

	decision := stage.DocStatus(req.Status)
	note := reviewerNote(decision, req.Reason)

	var resulting stage.Status
	var advanced bool
	err := s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !stage.Status(cand.Status).AtLeast(stage.StatusDocsRequested) {
			return apperr.Validation("candidate has no requested documents to review")
		}

		if err := s.docs.SetReview(ctx, tx, phone, req.DocType, string(decision), note); err != nil {
			return err
		}

		docs, err := s.docs.ListByPhoneTx(ctx, tx, phone)
		if err != nil {
			return err
		}

		next, changed := StatusAfterReview(stage.Status(cand.Status), decision, repository.StageDocuments(docs))
		resulting = next
		advanced = changed && next == stage.StatusDocsApproved
		if changed {
			return s.candidates.UpdateStatus(ctx, tx, phone, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case advanced:
		s.notifier.NotifyCandidate(ctx, phone,
			"서류 검토 완료",
			"모든 서류가 승인되었습니다. 위촉 계약 단계로 진행해주세요.",
			"document", "/appointment")
		if s.eventBus != nil {
			s.eventBus.Publish(ctx, events.DocumentSetApproved{
				BaseEvent: events.NewBaseEvent(),
				Phone:     phone,
			})
		}
	case decision == stage.DocRejected:
		reason := defaultNoReason
		if note != nil {
			reason = *note
		}
		s.notifier.NotifyCandidate(ctx, phone,
			"서류 반려 안내",
			fmt.Sprintf("서류가 반려되었습니다.\n사유: %s", reason),
			"document", "/docs-upload")
		if s.eventBus != nil {
			s.eventBus.Publish(ctx, events.DocumentRejected{
				BaseEvent: events.NewBaseEvent(),
				Phone:     phone,
				DocType:   req.DocType,
				Reason:    reason,
			})
		}
	}

	return &transport.ReviewResponse{
		Status:          string(decision),
		ResultingStatus: string(resulting),
		AllApproved:     advanced,
	}, nil
}

// DeleteFile soft-removes an uploaded file. The row survives with the
// deleted sentinel; the next derivation gates the candidate at the document
// step again.
func (s *Service) DeleteFile(ctx context.Context, actor gateway.Actor, phone, docType string) error {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionDeleteDocFile, phone); err != nil {
		return err
	}

	return s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone); err != nil {
			return err
		}
		doc, err := s.docs.GetByType(ctx, tx, phone, docType)
		if err != nil {
			return err
		}
		if doc.StageDocument().Submitted() {
			if err := s.store.DeleteObject(ctx, s.bucket, doc.StoragePath); err != nil {
				s.log.Error("document_object_delete_failed", "path", doc.StoragePath, "error", err)
			}
		}
		return s.docs.MarkFileDeleted(ctx, tx, phone, docType)
	})
}

// StoragePaths exposes a candidate's uploaded object keys for the purge
// cascade.
func (s *Service) StoragePaths(ctx context.Context, phone string) ([]string, error) {
	return s.docs.StoragePaths(ctx, phone)
}

// RemoveObject deletes one object from the documents bucket, best effort.
func (s *Service) RemoveObject(ctx context.Context, path string) error {
	return s.store.DeleteObject(ctx, s.bucket, path)
}

func normalizeTypes(types []string) []string {
	seen := make(map[string]struct{}, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateFormat, *raw)
	if err != nil {
		return nil, apperr.Validation("deadline must be formatted YYYY-MM-DD")
	}
	return &d, nil
}

func reviewerNote(decision stage.DocStatus, reason *string) *string {
	if decision != stage.DocRejected {
		return nil
	}
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func docStatusLabel(s stage.DocStatus) string {
	switch s {
	case stage.DocApproved:
		return "승인"
	case stage.DocRejected:
		return "반려"
	default:
		return "검토 대기"
	}
}

func displayName(name, phone string) string {
	if name != "" {
		return name
	}
	return phone
}
