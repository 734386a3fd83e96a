// Package ratelimit implements the sliding-window limiter the gateway uses
// to cap action volume per (action-class, candidate) key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter answers whether one more request is allowed for a key right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SlidingWindow is a Redis ZSET sliding-window limiter: each request adds a
// timestamped member, members older than the window are trimmed, and the
// remaining cardinality is compared against the cap. When Redis is
// unreachable it falls back to a per-key in-memory limiter and stays
// available rather than failing closed on infrastructure errors.
type SlidingWindow struct {
	client   *redis.Client
	limit    int
	window   time.Duration
	log      *logger.Logger
	fallback *memoryLimiter
}

// NewSlidingWindow creates the limiter. limit is the max requests per window.
func NewSlidingWindow(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *SlidingWindow {
	return &SlidingWindow{
		client:   client,
		limit:    limit,
		window:   window,
		log:      log,
		fallback: newMemoryLimiter(limit, window),
	}
}

// Allow records the request and reports whether it fits in the window.
func (s *SlidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	if s.client == nil {
		return s.fallback.Allow(key), nil
	}

	now := time.Now()
	redisKey := "ratelimit:" + key
	member := fmt.Sprintf("%d", now.UnixNano())
	cutoff := fmt.Sprintf("%d", now.Add(-s.window).UnixNano())

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.window)

	if _, err := pipe.Exec(ctx); err != nil {
		if s.log != nil {
			s.log.Warn("rate_limit_store_unavailable", "key", key, "error", err.Error())
		}
		return s.fallback.Allow(key), nil
	}

	return count.Val() <= int64(s.limit), nil
}

// memoryLimiter is the degraded-mode limiter used when Redis is down.
type memoryLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		rate:  rate.Limit(float64(limit) / window.Seconds()),
		burst: limit,
	}
}

func (m *memoryLimiter) Allow(key string) bool {
	limiter, ok := m.limiters.Load(key)
	if !ok {
		limiter, _ = m.limiters.LoadOrStore(key, rate.NewLimiter(m.rate, m.burst))
	}
	return limiter.(*rate.Limiter).Allow()
}
