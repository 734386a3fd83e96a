// Package service implements the dual-track appointment reconciliation:
// schedule, confirm and reject per track, with the overall status recomputed
// after every operation.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/transport"
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/jackc/pgx/v5"
)

const defaultNoReason = "사유 없음"

// Notifier is the dispatcher boundary.
type Notifier interface {
	NotifyCandidate(ctx context.Context, phone, title, body, category, deepLink string)
	NotifyAdmins(ctx context.Context, title, body, category string)
}

// Service provides business logic for appointment tracks.
type Service struct {
	repo       *repository.Repository
	candidates *candrepo.Repository
	guard      *gateway.Gateway
	notifier   Notifier
	eventBus   events.Bus
	log        *logger.Logger
}

// New creates a new appointments service.
func New(
	repo *repository.Repository,
	candidates *candrepo.Repository,
	guard *gateway.Gateway,
	notifier Notifier,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		guard:      guard,
		notifier:   notifier,
		eventBus:   eventBus,
		log:        log,
	}
}

// State returns the dual-track view for a candidate.
func (s *Service) State(ctx context.Context, phone string) (*transport.StateResponse, error) {
	cand, err := s.candidates.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile := cand.StageProfile()
	return &transport.StateResponse{
		Status:  cand.Status,
		Life:    trackResponse(cand, profile, stage.TrackLife),
		Nonlife: trackResponse(cand, profile, stage.TrackNonlife),
	}, nil
}

// Schedule sets the free-text schedule for a track. No status effect; the
// track must not already be confirmed.
func (s *Service) Schedule(ctx context.Context, actor gateway.Actor, phone string, req transport.ScheduleRequest) (*transport.OperationResponse, error) {
	track := stage.Track(req.Track)
	if err := s.guard.Authorize(ctx, actor, gateway.ActionScheduleTrack, phone); err != nil {
		return nil, err
	}

	var resulting string
	err := s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !CanOperate(stage.Status(cand.Status)) {
			return apperr.Validation("appointment operations require approved documents")
		}
		if trackState(cand.StageProfile(), track).Confirmed != "" {
			return apperr.Conflict("track is already confirmed")
		}
		resulting = cand.Status
		return s.repo.SetSchedule(ctx, tx, phone, track, normalizeText(req.Schedule))
	})
	if err != nil {
		return nil, err
	}

	if req.Notify && req.Schedule != nil && *req.Schedule != "" {
		s.notifier.NotifyCandidate(ctx, phone,
			"위촉 일정 안내",
			fmt.Sprintf("%s 위촉 일정이 안내되었습니다: %s", TrackLabel(track), *req.Schedule),
			"appointment", "/appointment")
	}
	return &transport.OperationResponse{Track: req.Track, ResultingStatus: resulting}, nil
}

// Confirm records the authoritative date for a track and recomputes the
// overall status from both confirmed dates.
func (s *Service) Confirm(ctx context.Context, actor gateway.Actor, phone string, req transport.ConfirmRequest) (*transport.OperationResponse, error) {
	track := stage.Track(req.Track)
	if err := s.guard.Authorize(ctx, actor, gateway.ActionConfirmTrack, phone); err != nil {
		return nil, err
	}

	var resulting stage.Status
	err := s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !CanOperate(stage.Status(cand.Status)) {
			return apperr.Validation("appointment operations require approved documents")
		}
		if trackState(cand.StageProfile(), track).Schedule == "" {
			return apperr.Validation("cannot confirm a date with no schedule set")
		}

		if err := s.repo.SetConfirmed(ctx, tx, phone, track, req.Date); err != nil {
			return err
		}

		dateLife, dateNonlife := confirmedDates(cand.StageProfile(), track, req.Date)
		resulting = NextStatusAfterConfirm(dateLife, dateNonlife)
		return s.candidates.UpdateStatus(ctx, tx, phone, resulting)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCandidate(ctx, phone,
		"위촉 최종 승인",
		fmt.Sprintf("%s 위촉이 %s 일자로 확정되었습니다.", TrackLabel(track), req.Date),
		"appointment", "/appointment")
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AppointmentConfirmed{
			BaseEvent: events.NewBaseEvent(),
			Phone:     phone,
			Track:     req.Track,
			Date:      req.Date,
		})
	}
	return &transport.OperationResponse{Track: req.Track, ResultingStatus: string(resulting)}, nil
}

// Reject clears a track's dates, records the reason and drops the candidate
// back to the pre-appointment gate.
func (s *Service) Reject(ctx context.Context, actor gateway.Actor, phone string, req transport.RejectRequest) (*transport.OperationResponse, error) {
	track := stage.Track(req.Track)
	if err := s.guard.Authorize(ctx, actor, gateway.ActionRejectTrack, phone); err != nil {
		return nil, err
	}

	reason := normalizeText(req.Reason)
	err := s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !CanOperate(stage.Status(cand.Status)) {
			return apperr.Validation("appointment operations require approved documents")
		}

		if err := s.repo.SetRejected(ctx, tx, phone, track, reason); err != nil {
			return err
		}
		return s.candidates.UpdateStatus(ctx, tx, phone, NextStatusAfterReject())
	})
	if err != nil {
		return nil, err
	}

	displayReason := defaultNoReason
	if reason != nil {
		displayReason = *reason
	}
	s.notifier.NotifyCandidate(ctx, phone,
		"위촉 반려 안내",
		fmt.Sprintf("%s 위촉이 반려되었습니다.\n사유: %s", TrackLabel(track), displayReason),
		"appointment", "/appointment")
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AppointmentRejected{
			BaseEvent: events.NewBaseEvent(),
			Phone:     phone,
			Track:     req.Track,
			Reason:    displayReason,
		})
	}
	return &transport.OperationResponse{
		Track:           req.Track,
		ResultingStatus: string(NextStatusAfterReject()),
	}, nil
}

// SubmitDate records the candidate's own proposed date for a track.
// Advisory only: it never drives a status change.
func (s *Service) SubmitDate(ctx context.Context, actor gateway.Actor, phone string, req transport.SubmitDateRequest) (*transport.OperationResponse, error) {
	track := stage.Track(req.Track)
	if err := s.guard.Authorize(ctx, actor, gateway.ActionSubmitTrackDate, phone); err != nil {
		return nil, err
	}

	var resulting string
	var candName string
	err := s.candidates.WithTx(ctx, func(tx pgx.Tx) error {
		cand, err := s.candidates.GetByPhoneForUpdate(ctx, tx, phone)
		if err != nil {
			return err
		}
		if !CanOperate(stage.Status(cand.Status)) {
			return apperr.Validation("appointment operations require approved documents")
		}
		resulting = cand.Status
		candName = cand.Name
		return s.repo.SetAdvisoryDate(ctx, tx, phone, track, req.Date)
	})
	if err != nil {
		return nil, err
	}

	name := candName
	if name == "" {
		name = phone
	}
	s.notifier.NotifyAdmins(ctx,
		"위촉일 제출",
		fmt.Sprintf("%s 님이 %s 위촉 희망일(%s)을 제출했습니다.", name, TrackLabel(track), req.Date),
		"appointment")
	return &transport.OperationResponse{Track: req.Track, ResultingStatus: resulting}, nil
}

// confirmedDates returns both confirmed dates with the acting track's value
// replaced by the just-written date, so the recompute never trusts the
// pre-write snapshot for the field it changed.
func confirmedDates(p stage.Profile, acting stage.Track, date string) (life, nonlife string) {
	life, nonlife = p.DateLife, p.DateNonlife
	if acting == stage.TrackLife {
		life = date
	} else {
		nonlife = date
	}
	return life, nonlife
}

func trackResponse(cand *candrepo.Candidate, p stage.Profile, track stage.Track) transport.TrackResponse {
	st := trackState(p, track)
	badge := stage.AppointmentProgress(p, track)
	resp := transport.TrackResponse{
		Track:       string(track),
		Schedule:    st.Schedule,
		Confirmed:   st.Confirmed,
		Advisory:    st.Advisory,
		ProgressKey: badge.Key,
		Progress:    badge.Label,
	}
	if track == stage.TrackLife && cand.RejectReasonLife != nil {
		resp.RejectReason = *cand.RejectReasonLife
	}
	if track == stage.TrackNonlife && cand.RejectReasonNonlife != nil {
		resp.RejectReason = *cand.RejectReasonNonlife
	}
	return resp
}

func normalizeText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
