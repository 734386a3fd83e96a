// Package notification is the dispatcher boundary: a durable in-app log
// plus outbox rows the worker delivers over push and email. Enqueue is
// fire-and-forget for callers; a delivery failure never rolls back the
// domain mutation that triggered it.
package notification

import (
	"context"

	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/outbox"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/google/uuid"
)

// PushPayload is the outbox payload for the push channel. Tokens are
// resolved at delivery time so late registrations still receive the send.
type PushPayload struct {
	Phone    string `json:"phone"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	DeepLink string `json:"deepLink,omitempty"`
}

// EmailPayload is the outbox payload for the email channel.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// InAppStore is the append-only notification log.
type InAppStore interface {
	Create(ctx context.Context, p inapp.CreateParams) (inapp.Notification, error)
}

// OutboxStore enqueues delivery work items.
type OutboxStore interface {
	Insert(ctx context.Context, p outbox.InsertParams) (uuid.UUID, error)
}

// Service writes the notification log and enqueues delivery.
type Service struct {
	inapp       InAppStore
	outbox      OutboxStore
	log         *logger.Logger
	pushEnabled bool
	adminEmail  string
}

// NewService creates the notification service. adminEmail may be empty, in
// which case admin notifications stay in-app only.
func NewService(inappStore InAppStore, outboxStore OutboxStore, log *logger.Logger, pushEnabled bool, adminEmail string) *Service {
	return &Service{
		inapp:       inappStore,
		outbox:      outboxStore,
		log:         log,
		pushEnabled: pushEnabled,
		adminEmail:  adminEmail,
	}
}

// NotifyCandidate records an in-app notification for the candidate and
// enqueues a push delivery. Failures are logged, never returned: the
// triggering state change is already committed and stays authoritative.
func (s *Service) NotifyCandidate(ctx context.Context, phone, title, body, category, deepLink string) {
	var link *string
	if deepLink != "" {
		link = &deepLink
	}
	_, err := s.inapp.Create(ctx, inapp.CreateParams{
		RecipientRole:  inapp.RecipientCandidate,
		RecipientPhone: &phone,
		Title:          title,
		Body:           body,
		Category:       category,
		DeepLink:       link,
	})
	if err != nil {
		s.log.NotificationFailed("inapp", phone, err)
		return
	}

	if !s.pushEnabled {
		return
	}
	_, err = s.outbox.Insert(ctx, outbox.InsertParams{
		Channel: outbox.ChannelPush,
		Payload: PushPayload{
			Phone:    phone,
			Title:    title,
			Body:     body,
			Category: category,
			DeepLink: deepLink,
		},
	})
	if err != nil {
		s.log.NotificationFailed("push", phone, err)
	}
}

// NotifyAdmins records an admin-audience notification and, when an admin
// email address is configured, enqueues an email delivery.
func (s *Service) NotifyAdmins(ctx context.Context, title, body, category string) {
	_, err := s.inapp.Create(ctx, inapp.CreateParams{
		RecipientRole: inapp.RecipientAdmin,
		Title:         title,
		Body:          body,
		Category:      category,
	})
	if err != nil {
		s.log.NotificationFailed("inapp", "admin", err)
		return
	}

	if s.adminEmail == "" {
		return
	}
	_, err = s.outbox.Insert(ctx, outbox.InsertParams{
		Channel: outbox.ChannelEmail,
		Payload: EmailPayload{
			To:      s.adminEmail,
			Subject: title,
			Body:    body,
		},
	})
	if err != nil {
		s.log.NotificationFailed("email", s.adminEmail, err)
	}
}
