package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/internal/gateway/ratelimit"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeConfig struct {
	origins    []string
	allowEmpty bool
	rate       int
}

func (f *fakeConfig) GetAllowedOrigins() []string { return f.origins }
func (f *fakeConfig) GetAllowEmptyOrigin() bool   { return f.allowEmpty }
func (f *fakeConfig) GetActionRatePerMinute() int { return f.rate }
func (f *fakeConfig) GetRedisURL() string         { return "" }

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

func newTestGateway(t *testing.T, cfg *fakeConfig, limiter ratelimit.Limiter) *Gateway {
	t.Helper()
	if limiter == nil {
		limiter = allowAllLimiter{}
	}
	return New(cfg, limiter, logger.New("development"))
}

func miniredisLimiter(t *testing.T, limit int) ratelimit.Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return ratelimit.NewSlidingWindow(client, limit, time.Minute, logger.New("development"))
}

func TestOriginAllowList(t *testing.T) {
	cfg := &fakeConfig{origins: []string{"https://app.example.com"}, allowEmpty: false, rate: 100}
	g := newTestGateway(t, cfg, nil)
	ctx := context.Background()

	admin := Actor{Role: RoleAdmin, Subject: "admin-1", Origin: "https://app.example.com"}
	if err := g.Authorize(ctx, admin, ActionReviewDocument, "01012345678"); err != nil {
		t.Fatalf("allow-listed origin rejected: %v", err)
	}

	admin.Origin = "https://evil.example.com"
	err := g.Authorize(ctx, admin, ActionReviewDocument, "01012345678")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("unknown origin must fail closed, got %v", err)
	}

	admin.Origin = ""
	err = g.Authorize(ctx, admin, ActionReviewDocument, "01012345678")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("empty origin must be rejected when not configured, got %v", err)
	}
}

func TestEmptyOriginAllowedWhenConfigured(t *testing.T) {
	cfg := &fakeConfig{origins: []string{"https://app.example.com"}, allowEmpty: true, rate: 100}
	g := newTestGateway(t, cfg, nil)

	fc := Actor{Role: RoleFC, Subject: "01012345678", Origin: ""}
	if err := g.Authorize(context.Background(), fc, ActionSubmitConsent, "01012345678"); err != nil {
		t.Fatalf("empty origin should pass when configured: %v", err)
	}
}

func TestSupervisorRejectedOnEveryMutatingAction(t *testing.T) {
	cfg := &fakeConfig{allowEmpty: true, rate: 100}
	g := newTestGateway(t, cfg, nil)
	ctx := context.Background()

	actions := []Action{
		ActionRegisterIdentity, ActionIssueTempID, ActionUpdateProfile, ActionUpdateStatus,
		ActionSubmitConsent, ActionReviewConsent, ActionRequestDocs, ActionSetDocsDeadline,
		ActionUploadDocument, ActionReviewDocument, ActionDeleteDocFile,
		ActionScheduleTrack, ActionConfirmTrack, ActionRejectTrack, ActionSubmitTrackDate,
		ActionPurgeCandidate, ActionRegisterPushToken,
	}
	supervisor := Actor{Role: RoleSupervisor, Subject: "sup-1"}
	for _, action := range actions {
		err := g.Authorize(ctx, supervisor, action, "01012345678")
		if !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("supervisor allowed for %s: %v", action, err)
		}
	}
}

func TestRolePolicy(t *testing.T) {
	cfg := &fakeConfig{allowEmpty: true, rate: 100}
	g := newTestGateway(t, cfg, nil)
	ctx := context.Background()

	fc := Actor{Role: RoleFC, Subject: "01012345678"}
	if err := g.Authorize(ctx, fc, ActionReviewDocument, "01012345678"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("fc must not review documents, got %v", err)
	}
	if err := g.Authorize(ctx, fc, ActionUploadDocument, "01012345678"); err != nil {
		t.Fatalf("fc should upload documents: %v", err)
	}

	admin := Actor{Role: RoleAdmin, Subject: "admin-1"}
	if err := g.Authorize(ctx, admin, ActionSubmitConsent, "01012345678"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("consent is candidate-only, got %v", err)
	}
}

func TestSlidingWindowPerActionAndCandidate(t *testing.T) {
	cfg := &fakeConfig{allowEmpty: true, rate: 3}
	g := newTestGateway(t, cfg, miniredisLimiter(t, 3))
	ctx := context.Background()
	admin := Actor{Role: RoleAdmin, Subject: "admin-1"}

	for i := 0; i < 3; i++ {
		if err := g.Authorize(ctx, admin, ActionReviewDocument, "01011111111"); err != nil {
			t.Fatalf("request %d within window rejected: %v", i+1, err)
		}
	}

	err := g.Authorize(ctx, admin, ActionReviewDocument, "01011111111")
	if !apperr.Is(err, apperr.KindTooManyRequests) {
		t.Fatalf("fourth request should exceed the window, got %v", err)
	}

	// Different candidate: independent window.
	if err := g.Authorize(ctx, admin, ActionReviewDocument, "01022222222"); err != nil {
		t.Fatalf("other candidate should not contend: %v", err)
	}

	// Different action class, same candidate: independent window.
	if err := g.Authorize(ctx, admin, ActionRequestDocs, "01011111111"); err != nil {
		t.Fatalf("other action class should not contend: %v", err)
	}
}

func TestRateCheckedBeforeRole(t *testing.T) {
	// A supervisor hammering an endpoint sees the rate error once the
	// window is exhausted, since the rate gate runs first.
	cfg := &fakeConfig{allowEmpty: true, rate: 1}
	g := newTestGateway(t, cfg, miniredisLimiter(t, 1))
	ctx := context.Background()
	supervisor := Actor{Role: RoleSupervisor, Subject: "sup-1"}

	if err := g.Authorize(ctx, supervisor, ActionReviewDocument, "01011111111"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("first request should fail the role gate, got %v", err)
	}
	if err := g.Authorize(ctx, supervisor, ActionReviewDocument, "01011111111"); !apperr.Is(err, apperr.KindTooManyRequests) {
		t.Fatalf("second request should fail the rate gate first, got %v", err)
	}
}

func TestMemoryFallbackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	limiter := ratelimit.NewSlidingWindow(client, 2, time.Minute, logger.New("development"))
	mr.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "confirm-appointment:01011111111")
		if err != nil || !allowed {
			t.Fatalf("fallback request %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}
	allowed, err := limiter.Allow(ctx, "confirm-appointment:01011111111")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if allowed {
		t.Fatal("fallback limiter should enforce the cap")
	}
}
