package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/devicetoken"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/email"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/outbox"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/push"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
)

// PushSender posts a push message to the delivery endpoint.
type PushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

// EmailSender delivers a plain-text email.
type EmailSender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// Deliverer performs the actual channel delivery for claimed outbox records.
// Push tokens are resolved at delivery time so registrations made after the
// enqueue still receive the send.
type Deliverer struct {
	outbox *outbox.Repository
	tokens *devicetoken.Repository
	push   PushSender
	email  EmailSender
	log    *logger.Logger
}

func NewDeliverer(
	outboxRepo *outbox.Repository,
	tokens *devicetoken.Repository,
	pushSender PushSender,
	emailSender EmailSender,
	log *logger.Logger,
) *Deliverer {
	return &Deliverer{
		outbox: outboxRepo,
		tokens: tokens,
		push:   pushSender,
		email:  emailSender,
		log:    log,
	}
}

// Subscribe registers the deliverer on the bus. The worker publishes
// NotificationOutboxDue synchronously so a delivery error propagates back
// into the task result and the queue retries it.
func (d *Deliverer) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		due, ok := event.(events.NotificationOutboxDue)
		if !ok {
			return nil
		}
		return d.Deliver(ctx, due)
	}))
}

// Deliver loads the record, sends it over its channel and marks the outcome.
func (d *Deliverer) Deliver(ctx context.Context, due events.NotificationOutboxDue) error {
	if err := d.outbox.MarkProcessing(ctx, due.OutboxID); err != nil {
		return err
	}

	rec, err := d.outbox.GetByID(ctx, due.OutboxID)
	if err != nil {
		return err
	}

	switch rec.Channel {
	case outbox.ChannelPush:
		err = d.deliverPush(ctx, rec)
	case outbox.ChannelEmail:
		err = d.deliverEmail(ctx, rec)
	default:
		err = fmt.Errorf("unknown outbox channel %q", rec.Channel)
	}

	if err != nil {
		_ = d.outbox.MarkFailed(ctx, rec.ID, err.Error())
		return err
	}
	return d.outbox.MarkSucceeded(ctx, rec.ID)
}

func (d *Deliverer) deliverPush(ctx context.Context, rec outbox.Record) error {
	if d.push == nil {
		return fmt.Errorf("push delivery not configured")
	}

	var payload notification.PushPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return fmt.Errorf("decode push payload: %w", err)
	}

	tokens, err := d.tokens.ListByPhone(ctx, payload.Phone)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		// No registered device; the in-app row is still there.
		d.log.Debug("push skipped, no device tokens", "phone", payload.Phone)
		return nil
	}

	data := map[string]string{"category": payload.Category}
	if payload.DeepLink != "" {
		data["deepLink"] = payload.DeepLink
	}

	return d.push.Send(ctx, push.Message{
		To:    tokens,
		Title: payload.Title,
		Body:  payload.Body,
		Data:  data,
	})
}

func (d *Deliverer) deliverEmail(ctx context.Context, rec outbox.Record) error {
	if d.email == nil {
		return fmt.Errorf("email delivery not configured")
	}

	var payload notification.EmailPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return fmt.Errorf("decode email payload: %w", err)
	}

	return d.email.Send(ctx, payload.To, payload.Subject, payload.Body)
}

var _ PushSender = (*push.Client)(nil)
var _ EmailSender = (*email.SMTPSender)(nil)
