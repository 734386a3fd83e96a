package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int) (*SlidingWindow, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSlidingWindow(client, limit, time.Minute, nil), mr
}

func TestSlidingWindowCapsRequests(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "review-document:01012345678")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, "review-document:01012345678")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if allowed {
		t.Error("request over the limit should be denied")
	}
}

func TestSlidingWindowKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "upload-document:01011112222"); !allowed {
		t.Fatal("first key should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "upload-document:01011112222"); allowed {
		t.Fatal("first key should now be exhausted")
	}
	if allowed, _ := limiter.Allow(ctx, "upload-document:01033334444"); !allowed {
		t.Error("a different key must have its own window")
	}
}

func TestSlidingWindowFallsBackWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2)
	mr.Close()
	ctx := context.Background()

	// Degraded mode stays available and still enforces the cap in memory.
	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "confirm-track:01012345678")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed in degraded mode", i+1)
		}
	}
	if allowed, _ := limiter.Allow(ctx, "confirm-track:01012345678"); allowed {
		t.Error("degraded mode should still enforce the cap")
	}
}

func TestSlidingWindowNilClientUsesMemory(t *testing.T) {
	limiter := NewSlidingWindow(nil, 1, time.Minute, nil)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "purge-candidate:01012345678"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "purge-candidate:01012345678"); allowed {
		t.Error("second request should be denied")
	}
}
