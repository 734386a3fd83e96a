package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/outbox"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/google/uuid"
)

type fakeInAppStore struct {
	created []inapp.CreateParams
	err     error
}

func (f *fakeInAppStore) Create(_ context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	if f.err != nil {
		return inapp.Notification{}, f.err
	}
	f.created = append(f.created, p)
	return inapp.Notification{ID: uuid.New(), Title: p.Title, Body: p.Body}, nil
}

type fakeOutboxStore struct {
	inserted []outbox.InsertParams
	err      error
}

func (f *fakeOutboxStore) Insert(_ context.Context, p outbox.InsertParams) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.inserted = append(f.inserted, p)
	return uuid.New(), nil
}

func newTestService(inappStore *fakeInAppStore, outboxStore *fakeOutboxStore, pushEnabled bool, adminEmail string) *Service {
	return NewService(inappStore, outboxStore, logger.New("development"), pushEnabled, adminEmail)
}

func TestNotifyCandidateWritesLogAndPushOutbox(t *testing.T) {
	inappStore := &fakeInAppStore{}
	outboxStore := &fakeOutboxStore{}
	svc := newTestService(inappStore, outboxStore, true, "")

	svc.NotifyCandidate(context.Background(), "01012345678", "서류 승인", "모든 서류가 승인되었습니다.", "document", "/docs")

	if len(inappStore.created) != 1 {
		t.Fatalf("expected 1 in-app notification, got %d", len(inappStore.created))
	}
	row := inappStore.created[0]
	if row.RecipientRole != inapp.RecipientCandidate {
		t.Errorf("recipient role = %q, want candidate", row.RecipientRole)
	}
	if row.RecipientPhone == nil || *row.RecipientPhone != "01012345678" {
		t.Errorf("recipient phone not set")
	}
	if row.DeepLink == nil || *row.DeepLink != "/docs" {
		t.Errorf("deep link not propagated")
	}

	if len(outboxStore.inserted) != 1 {
		t.Fatalf("expected 1 outbox row, got %d", len(outboxStore.inserted))
	}
	entry := outboxStore.inserted[0]
	if entry.Channel != outbox.ChannelPush {
		t.Errorf("channel = %q, want push", entry.Channel)
	}
	payload, ok := entry.Payload.(PushPayload)
	if !ok {
		t.Fatalf("payload type = %T, want PushPayload", entry.Payload)
	}
	if payload.Phone != "01012345678" || payload.Title != "서류 승인" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestNotifyCandidatePushDisabledSkipsOutbox(t *testing.T) {
	inappStore := &fakeInAppStore{}
	outboxStore := &fakeOutboxStore{}
	svc := newTestService(inappStore, outboxStore, false, "")

	svc.NotifyCandidate(context.Background(), "01012345678", "안내", "내용", "info", "")

	if len(inappStore.created) != 1 {
		t.Fatalf("expected in-app row even with push disabled")
	}
	if len(outboxStore.inserted) != 0 {
		t.Errorf("expected no outbox rows with push disabled, got %d", len(outboxStore.inserted))
	}
}

func TestNotifyCandidateInAppFailureSuppressesOutbox(t *testing.T) {
	inappStore := &fakeInAppStore{err: errors.New("db down")}
	outboxStore := &fakeOutboxStore{}
	svc := newTestService(inappStore, outboxStore, true, "")

	svc.NotifyCandidate(context.Background(), "01012345678", "안내", "내용", "info", "")

	if len(outboxStore.inserted) != 0 {
		t.Errorf("outbox must not be written when the log insert fails")
	}
}

func TestNotifyCandidateOutboxFailureIsSwallowed(t *testing.T) {
	inappStore := &fakeInAppStore{}
	outboxStore := &fakeOutboxStore{err: errors.New("db down")}
	svc := newTestService(inappStore, outboxStore, true, "")

	// Must not panic or surface the error to the caller.
	svc.NotifyCandidate(context.Background(), "01012345678", "안내", "내용", "info", "")

	if len(inappStore.created) != 1 {
		t.Fatalf("in-app row should still be written")
	}
}

func TestNotifyAdminsEmailOnlyWhenConfigured(t *testing.T) {
	t.Run("with admin email", func(t *testing.T) {
		inappStore := &fakeInAppStore{}
		outboxStore := &fakeOutboxStore{}
		svc := newTestService(inappStore, outboxStore, true, "ops@example.com")

		svc.NotifyAdmins(context.Background(), "수당동의 제출", "홍길동 님이 제출했습니다.", "consent")

		if len(inappStore.created) != 1 {
			t.Fatalf("expected 1 in-app notification, got %d", len(inappStore.created))
		}
		if inappStore.created[0].RecipientRole != inapp.RecipientAdmin {
			t.Errorf("recipient role = %q, want admin", inappStore.created[0].RecipientRole)
		}
		if len(outboxStore.inserted) != 1 {
			t.Fatalf("expected 1 email outbox row, got %d", len(outboxStore.inserted))
		}
		if outboxStore.inserted[0].Channel != outbox.ChannelEmail {
			t.Errorf("channel = %q, want email", outboxStore.inserted[0].Channel)
		}
		payload, ok := outboxStore.inserted[0].Payload.(EmailPayload)
		if !ok {
			t.Fatalf("payload type = %T, want EmailPayload", outboxStore.inserted[0].Payload)
		}
		if payload.To != "ops@example.com" {
			t.Errorf("email to = %q", payload.To)
		}
	})

	t.Run("without admin email", func(t *testing.T) {
		inappStore := &fakeInAppStore{}
		outboxStore := &fakeOutboxStore{}
		svc := newTestService(inappStore, outboxStore, true, "")

		svc.NotifyAdmins(context.Background(), "수당동의 제출", "홍길동 님이 제출했습니다.", "consent")

		if len(inappStore.created) != 1 {
			t.Fatalf("expected in-app row")
		}
		if len(outboxStore.inserted) != 0 {
			t.Errorf("expected no email outbox row without a configured address")
		}
	})
}
