package scheduler

import (
	"context"
	"fmt"
	"time"

	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
)

const reminderPollInterval = time.Hour

// Notifier is the dispatcher boundary used for reminder sends.
type Notifier interface {
	NotifyCandidate(ctx context.Context, phone, title, body, category, deepLink string)
}

// DeadlineReminder notifies candidates whose document deadline is close.
// Each deadline is reminded at most once; resetting the deadline re-arms it.
type DeadlineReminder struct {
	candidates *candrepo.Repository
	notifier   Notifier
	window     time.Duration
	log        *logger.Logger
}

func NewDeadlineReminder(cfg config.SchedulerConfig, candidates *candrepo.Repository, notifier Notifier, log *logger.Logger) *DeadlineReminder {
	days := cfg.GetDocsDeadlineReminderDays()
	if days < 1 {
		days = 3
	}

	return &DeadlineReminder{
		candidates: candidates,
		notifier:   notifier,
		window:     time.Duration(days) * 24 * time.Hour,
		log:        log,
	}
}

func (r *DeadlineReminder) Run(ctx context.Context) {
	if r == nil || r.candidates == nil || r.notifier == nil {
		return
	}

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	// One sweep at startup, then hourly.
	r.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *DeadlineReminder) sweep(ctx context.Context) {
	before := time.Now().Add(r.window)
	candidates, err := r.candidates.ListDeadlineCandidates(ctx, before)
	if err != nil {
		r.log.Warn("deadline reminder sweep failed", "error", err)
		return
	}

	for _, cand := range candidates {
		if cand.DocsDeadline == nil {
			continue
		}

		body := fmt.Sprintf("서류 제출 마감일이 %s 입니다. 기한 내에 제출을 완료해주세요.", cand.DocsDeadline.Format("2006-01-02"))
		r.notifier.NotifyCandidate(ctx, cand.Phone, "서류 제출 마감 안내", body, "documents", "/docs-upload")

		if err := r.candidates.MarkDeadlineReminded(ctx, cand.Phone); err != nil {
			r.log.Warn("deadline reminder mark failed", "phone", cand.Phone, "error", err)
		}
	}
}
