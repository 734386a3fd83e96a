// Package service implements the candidate lifecycle: identity
// registration, temp ID issuance, allowance consent and the administrative
// purge cascade, plus the dashboard projections built on the derivation.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/transport"
	docrepo "github.com/jj8127/Appointment-Process-sub000/internal/documents/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/devicetoken"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
	"github.com/jj8127/Appointment-Process-sub000/platform/phone"

	"github.com/jackc/pgx/v5"
)

// Notifier is the dispatcher boundary.
type Notifier interface {
	NotifyCandidate(ctx context.Context, phone, title, body, category, deepLink string)
	NotifyAdmins(ctx context.Context, title, body, category string)
}

// ObjectRemover deletes stored document files during the purge cascade.
type ObjectRemover interface {
	DeleteObject(ctx context.Context, bucket, fileKey string) error
}

// SessionRevoker drops a candidate's refresh grants during the purge cascade.
type SessionRevoker interface {
	RevokeAllForSubject(ctx context.Context, subject string) error
}

// Service provides business logic for candidates.
type Service struct {
	repo     *repository.Repository
	docs     *docrepo.Repository
	inapp    *inapp.Repository
	tokens   *devicetoken.Repository
	guard    *gateway.Gateway
	notifier Notifier
	store    ObjectRemover
	sessions SessionRevoker
	bucket   string
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new candidates service.
func New(
	repo *repository.Repository,
	docs *docrepo.Repository,
	inappRepo *inapp.Repository,
	tokens *devicetoken.Repository,
	guard *gateway.Gateway,
	notifier Notifier,
	store ObjectRemover,
	sessions SessionRevoker,
	bucket string,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		docs:     docs,
		inapp:    inappRepo,
		tokens:   tokens,
		guard:    guard,
		notifier: notifier,
		store:    store,
		sessions: sessions,
		bucket:   bucket,
		eventBus: eventBus,
		log:      log,
	}
}

// RegisterIdentity creates or refreshes a candidate profile. Idempotent on
// phone; re-registering updates the identity fields without touching
// progress.
func (s *Service) RegisterIdentity(ctx context.Context, actor gateway.Actor, req transport.RegisterIdentityRequest) (*transport.CandidateResponse, error) {
	normalized := phone.NormalizeLocal(req.Phone)
	if normalized == "" {
		return nil, apperr.Validation("phone number is invalid")
	}
	if err := s.guard.Authorize(ctx, actor, gateway.ActionRegisterIdentity, normalized); err != nil {
		return nil, err
	}

	cand := &repository.Candidate{
		Phone:            normalized,
		Name:             strings.TrimSpace(req.Name),
		Affiliation:      strings.TrimSpace(req.Affiliation),
		ResidentIDMasked: MaskResidentID(req.ResidentID),
		Email:            req.Email,
		Address:          req.Address,
		Recommender:      req.Recommender,
		CareerType:       req.CareerType,
		Status:           string(stage.StatusDraft),
	}
	if err := s.repo.UpsertIdentity(ctx, cand); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.CandidateRegistered{
			BaseEvent: events.NewBaseEvent(),
			Phone:     normalized,
			Name:      cand.Name,
		})
	}
	return s.Get(ctx, normalized)
}

// Get returns the full detail view for one candidate.
func (s *Service) Get(ctx context.Context, phoneNumber string) (*transport.CandidateResponse, error) {
	cand, err := s.repo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	resp := project(cand, docrepo.StageDocuments(docs))
	return &resp, nil
}

// List returns the admin dashboard projection for every candidate.
func (s *Service) List(ctx context.Context) (*transport.ListResponse, error) {
	cands, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	allDocs, err := s.docs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byPhone := make(map[string][]stage.Document, len(cands))
	for _, d := range allDocs {
		byPhone[d.Phone] = append(byPhone[d.Phone], d.StageDocument())
	}

	resp := &transport.ListResponse{
		Candidates: make([]transport.CandidateResponse, 0, len(cands)),
		Total:      len(cands),
	}
	for i := range cands {
		resp.Candidates = append(resp.Candidates, project(&cands[i], byPhone[cands[i].Phone]))
	}
	return resp, nil
}

// IssueTempID assigns the temporary employee ID. A draft profile advances
// to temp-id-issued; later statuses keep their progress.
func (s *Service) IssueTempID(ctx context.Context, actor gateway.Actor, phoneNumber, tempID string) (*transport.StatusResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionIssueTempID, phoneNumber); err != nil {
		return nil, err
	}

	var resulting string
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		if err := s.repo.SetTempID(ctx, tx, phoneNumber, strings.TrimSpace(tempID)); err != nil {
			return err
		}
		cand, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber)
		if err != nil {
			return err
		}
		resulting = cand.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCandidate(ctx, phoneNumber,
		"임시사번 발급",
		fmt.Sprintf("임시사번 %s 이(가) 발급되었습니다. 수당동의를 진행해주세요.", strings.TrimSpace(tempID)),
		"identity", "/allowance")
	return &transport.StatusResponse{Phone: phoneNumber, ResultingStatus: resulting}, nil
}

// UpdateProfile applies an admin partial edit of identity fields.
func (s *Service) UpdateProfile(ctx context.Context, actor gateway.Actor, phoneNumber string, req transport.UpdateProfileRequest) (*transport.CandidateResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionUpdateProfile, phoneNumber); err != nil {
		return nil, err
	}

	patch := repository.ProfilePatch{
		Name:        req.Name,
		Affiliation: req.Affiliation,
		Email:       req.Email,
		Address:     req.Address,
		Recommender: req.Recommender,
		CareerType:  req.CareerType,
	}
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		return s.repo.UpdateProfileFields(ctx, tx, phoneNumber, patch)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, phoneNumber)
}

// UpdateStatus overrides the cached status. The override is validated
// against the known status set but not against the derivation; status is a
// cache and the next derivation corrects inconsistent drift.
func (s *Service) UpdateStatus(ctx context.Context, actor gateway.Actor, phoneNumber, status string) (*transport.StatusResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionUpdateStatus, phoneNumber); err != nil {
		return nil, err
	}

	next := stage.Status(status)
	if !next.IsValid() {
		return nil, apperr.Validation("unknown status value")
	}

	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, phoneNumber, next)
	})
	if err != nil {
		return nil, err
	}
	return &transport.StatusResponse{Phone: phoneNumber, ResultingStatus: status}, nil
}

// SubmitConsent records the candidate's allowance consent and moves the
// profile into admin review.
func (s *Service) SubmitConsent(ctx context.Context, actor gateway.Actor, phoneNumber, consentDate string) (*transport.StatusResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionSubmitConsent, phoneNumber); err != nil {
		return nil, err
	}

	var candName string
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber)
		if err != nil {
			return err
		}
		if cand.TempID == nil || *cand.TempID == "" {
			return apperr.Validation("consent requires an issued temp ID")
		}
		candName = cand.Name
		return s.repo.SubmitConsent(ctx, tx, phoneNumber, consentDate)
	})
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.ConsentSubmitted{
			BaseEvent:   events.NewBaseEvent(),
			Phone:       phoneNumber,
			Name:        candName,
			ConsentDate: consentDate,
		})
	}
	return &transport.StatusResponse{Phone: phoneNumber, ResultingStatus: string(stage.StatusAllowancePending)}, nil
}

// ReviewConsent approves or rejects the submitted consent. Rejection
// returns the candidate to temp-id-issued for a fresh submission.
func (s *Service) ReviewConsent(ctx context.Context, actor gateway.Actor, phoneNumber string, approve bool, reason *string) (*transport.StatusResponse, error) {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionReviewConsent, phoneNumber); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber)
		if err != nil {
			return err
		}
		if cand.Status != string(stage.StatusAllowancePending) {
			return apperr.Validation("no consent submission awaiting review")
		}
		return s.repo.ReviewConsent(ctx, tx, phoneNumber, approve, reason)
	})
	if err != nil {
		return nil, err
	}

	resulting := stage.StatusAllowanceConsented
	if approve {
		s.notifier.NotifyCandidate(ctx, phoneNumber,
			"수당동의 승인",
			"수당동의가 승인되었습니다. 다음 단계를 진행해주세요.",
			"consent", "/docs-upload")
	} else {
		resulting = stage.StatusTempIDIssued
		displayReason := "사유 없음"
		if reason != nil && strings.TrimSpace(*reason) != "" {
			displayReason = strings.TrimSpace(*reason)
		}
		s.notifier.NotifyCandidate(ctx, phoneNumber,
			"수당동의 반려",
			fmt.Sprintf("수당동의가 반려되었습니다.\n사유: %s", displayReason),
			"consent", "/allowance")
	}
	return &transport.StatusResponse{Phone: phoneNumber, ResultingStatus: string(resulting)}, nil
}

// SetDocsDeadline sets or clears the document deadline without touching the
// requested set.
func (s *Service) SetDocsDeadline(ctx context.Context, actor gateway.Actor, phoneNumber string, deadline *string) error {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionSetDocsDeadline, phoneNumber); err != nil {
		return err
	}
	parsed, err := parseDate(deadline)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		return s.repo.SetDocsDeadline(ctx, tx, phoneNumber, parsed)
	})
}

/// Purge removes a candidate and everything addressed to them: document
// rows, stored files, notifications and device tokens. File removal is best
// effort; the database cascade is one transaction.
func (s *Service) Purge(ctx context.Context, actor gateway.Actor, phoneNumber string) error {
	if err := s.guard.Authorize(ctx, actor, gateway.ActionPurgeCandidate, phoneNumber); err != nil {
		return err
	}

	if _, err := s.repo.GetByPhone(ctx, phoneNumber); err != nil {
		return err
	}

	paths, err := s.docs.StoragePaths(ctx, phoneNumber)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := s.store.DeleteObject(ctx, s.bucket, p); err != nil {
			s.log.Error("purge_object_delete_failed", "phone", phoneNumber, "path", p, "error", err)
		}
	}

	err = s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByPhoneForUpdate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		if err := s.docs.DeleteAll(ctx, tx, phoneNumber); err != nil {
			return err
		}
		if err := s.inapp.DeleteForCandidate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		if err := s.tokens.DeleteForCandidate(ctx, tx, phoneNumber); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, phoneNumber)
	})
	if err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.RevokeAllForSubject(ctx, phoneNumber); err != nil {
			s.log.Error("purge_session_revoke_failed", "phone", phoneNumber, "error", err)
		}
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.CandidatePurged{
			BaseEvent: events.NewBaseEvent(),
			Phone:     phoneNumber,
		})
	}
	return nil
}

// project builds the shared detail projection from the persisted row and
// its documents.
func project(cand *repository.Candidate, docs []stage.Document) transport.CandidateResponse {
	profile := cand.StageProfile()
	step := stage.Derive(profile, docs)
	adminStep := stage.AdminStep(profile, docs)

	return transport.CandidateResponse{
		Phone:               cand.Phone,
		Name:                cand.Name,
		Affiliation:         cand.Affiliation,
		ResidentIDMasked:    cand.ResidentIDMasked,
		Email:               cand.Email,
		Address:             cand.Address,
		Recommender:         cand.Recommender,
		CareerType:          cand.CareerType,
		TempID:              cand.TempID,
		Status:              cand.Status,
		StatusLabel:         stage.StatusLabel(stage.Status(cand.Status)),
		ConsentDate:         cand.ConsentDate,
		ConsentRejectReason: cand.ConsentRejectReason,
		DocsDeadline:        cand.DocsDeadline,
		Step:                int(step),
		StepLabel:           stage.StepLabel(step),
		AdminStep:           adminStep,
		AdminStepLabel:      stage.AdminStepLabel(adminStep),
		Summary:             badge(stage.SummaryStatus(profile, docs)),
		DocProgress:         badge(stage.DocProgress(docs)),
		LifeProgress:        badge(stage.AppointmentProgress(profile, stage.TrackLife)),
		NonlifeProgress:     badge(stage.AppointmentProgress(profile, stage.TrackNonlife)),
		CreatedAt:           cand.CreatedAt,
	}
}

func badge(b stage.ProgressBadge) transport.Badge {
	return transport.Badge{Key: b.Key, Label: b.Label, Color: b.Color}
}
