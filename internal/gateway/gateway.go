// Package gateway is the transition guard every mutating action passes
// through before touching the fact store. Checks run in a fixed order:
// origin allow-list, sliding-window rate limit, role capability. Each
// check fails fast with a typed error and no side effects.
package gateway

import (
	"context"
	"strings"

	"github.com/jj8127/Appointment-Process-sub000/internal/gateway/ratelimit"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
)

// Actor is the explicit acting principal. No ambient session state: every
// call carries who is acting, from where.
type Actor struct {
	Role    Role
	Subject string // admin account ID or candidate phone
	Origin  string // request Origin header, empty for non-browser callers
}

// Gateway runs the pre-mutation checks.
type Gateway struct {
	allowedOrigins   map[string]struct{}
	allowEmptyOrigin bool
	limiter          ratelimit.Limiter
	log              *logger.Logger
}

// New creates a gateway from config and a limiter.
func New(cfg config.GatewayConfig, limiter ratelimit.Limiter, log *logger.Logger) *Gateway {
	origins := make(map[string]struct{}, len(cfg.GetAllowedOrigins()))
	for _, o := range cfg.GetAllowedOrigins() {
		origins[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}
	return &Gateway{
		allowedOrigins:   origins,
		allowEmptyOrigin: cfg.GetAllowEmptyOrigin(),
		limiter:          limiter,
		log:              log,
	}
}

// Authorize validates actor and action against the three gates, in order.
// A nil return means the mutation may proceed.
func (g *Gateway) Authorize(ctx context.Context, actor Actor, action Action, candidateID string) error {
	if err := g.checkOrigin(actor, action); err != nil {
		return err
	}
	if err := g.checkRate(ctx, actor, action, candidateID); err != nil {
		return err
	}
	if err := g.checkRole(actor, action); err != nil {
		return err
	}
	return nil
}

// checkOrigin fails closed: an origin not on the allow-list is rejected.
// Empty origins (mobile app, server-to-server) pass only when configured.
func (g *Gateway) checkOrigin(actor Actor, action Action) error {
	origin := strings.TrimRight(strings.TrimSpace(actor.Origin), "/")
	if origin == "" {
		if g.allowEmptyOrigin {
			return nil
		}
		g.logReject("origin", actor, action, "empty origin")
		return apperr.Forbidden("request origin not allowed")
	}
	if _, ok := g.allowedOrigins[origin]; !ok {
		g.logReject("origin", actor, action, origin)
		return apperr.Forbidden("request origin not allowed")
	}
	return nil
}

// checkRate applies the per-minute sliding window keyed by action and
// candidate. Limiter infrastructure errors never reject the request; the
// limiter handles degradation itself.
func (g *Gateway) checkRate(ctx context.Context, actor Actor, action Action, candidateID string) error {
	key := string(action) + ":" + candidateID
	allowed, err := g.limiter.Allow(ctx, key)
	if err != nil {
		if g.log != nil {
			g.log.Warn("rate_limit_check_failed", "key", key, "error", err.Error())
		}
		return nil
	}
	if !allowed {
		if g.log != nil {
			g.log.RateLimitExceeded(key, string(action))
		}
		return apperr.TooManyRequests("too many requests, slow down")
	}
	return nil
}

func (g *Gateway) checkRole(actor Actor, action Action) error {
	if !Allowed(actor.Role, action) {
		g.logReject("role", actor, action, string(actor.Role))
		return apperr.Forbidden("role not permitted for this action")
	}
	return nil
}

func (g *Gateway) logReject(check string, actor Actor, action Action, reason string) {
	if g.log != nil {
		g.log.GateRejected(check, actor.Subject, string(action), reason)
	}
}
