package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeConfig struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func (f fakeConfig) GetJWTAccessSecret() string        { return f.secret }
func (f fakeConfig) GetAccessTokenTTL() time.Duration  { return f.accessTTL }
func (f fakeConfig) GetRefreshTokenTTL() time.Duration { return f.refreshTTL }

func parseClaims(t *testing.T, signed, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims are not MapClaims")
	}
	return claims
}

func TestSignJWTAdminClaims(t *testing.T) {
	cfg := fakeConfig{secret: "test-secret", accessTTL: time.Hour, refreshTTL: 24 * time.Hour}
	svc := &Service{cfg: cfg}

	signed, err := svc.signJWT("9f3c2a10-0000-0000-0000-000000000000", "", []string{"admin"}, cfg.accessTTL)
	if err != nil {
		t.Fatalf("signJWT returned error: %v", err)
	}

	claims := parseClaims(t, signed, cfg.secret)
	if got := claims["sub"]; got != "9f3c2a10-0000-0000-0000-000000000000" {
		t.Errorf("sub = %v", got)
	}
	if got := claims["type"]; got != "access" {
		t.Errorf("type = %v, want access", got)
	}
	if _, present := claims["phone"]; present {
		t.Error("admin token must not carry a phone claim")
	}

	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("roles = %v, want [admin]", claims["roles"])
	}
}

func TestSignJWTCandidateCarriesPhone(t *testing.T) {
	cfg := fakeConfig{secret: "test-secret", accessTTL: time.Hour, refreshTTL: 24 * time.Hour}
	svc := &Service{cfg: cfg}

	signed, err := svc.signJWT("01012345678", "01012345678", []string{"fc"}, cfg.accessTTL)
	if err != nil {
		t.Fatalf("signJWT returned error: %v", err)
	}

	claims := parseClaims(t, signed, cfg.secret)
	if got := claims["phone"]; got != "01012345678" {
		t.Errorf("phone = %v, want 01012345678", got)
	}
	if got := claims["sub"]; got != "01012345678" {
		t.Errorf("sub = %v, want 01012345678", got)
	}
}

func TestSignJWTExpiry(t *testing.T) {
	cfg := fakeConfig{secret: "test-secret", accessTTL: time.Minute, refreshTTL: time.Hour}
	svc := &Service{cfg: cfg}

	signed, err := svc.signJWT("subject", "", []string{"admin"}, cfg.accessTTL)
	if err != nil {
		t.Fatalf("signJWT returned error: %v", err)
	}

	claims := parseClaims(t, signed, cfg.secret)
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim missing")
	}
	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining <= 0 || remaining > time.Minute+time.Second {
		t.Errorf("exp is %s away, want about one minute", remaining)
	}
}
