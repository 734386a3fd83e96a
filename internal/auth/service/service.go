// Package service issues and rotates access tokens for admins and candidates.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/internal/auth/password"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/token"
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/phone"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenType = "access"

	refreshTokenSize = 48

	roleAdmin = "admin"
	roleFC    = "fc"
)

var errInvalidCredentials = apperr.Unauthorized("invalid credentials")
var errTokenInvalid = apperr.Unauthorized("token invalid")
var errTokenExpired = apperr.Unauthorized("token expired")

// TokenPair carries a signed access token and its opaque refresh companion.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type Service struct {
	repo       *repository.Repository
	candidates *candrepo.Repository
	cfg        config.AuthServiceConfig
}

func New(repo *repository.Repository, candidates *candrepo.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, candidates: candidates, cfg: cfg}
}

// AdminSignIn verifies an admin email and password and issues a token pair.
func (s *Service) AdminSignIn(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	account, err := s.repo.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return TokenPair{}, errInvalidCredentials
	}

	if err := password.Compare(account.PasswordHash, plainPassword); err != nil {
		return TokenPair{}, errInvalidCredentials
	}

	return s.issueTokens(ctx, account.ID.String(), "", []string{roleAdmin})
}

// CandidateSignIn verifies a candidate's phone and registered name and issues
// a token pair bound to the phone number. Candidates hold no password; the
// registered name acts as the shared secret for the onboarding portal.
func (s *Service) CandidateSignIn(ctx context.Context, rawPhone, name string) (TokenPair, error) {
	normalized := phone.NormalizeLocal(rawPhone)
	if normalized == "" {
		return TokenPair{}, errInvalidCredentials
	}

	candidate, err := s.candidates.GetByPhone(ctx, normalized)
	if err != nil {
		return TokenPair{}, errInvalidCredentials
	}

	if !strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(candidate.Name)) {
		return TokenPair{}, errInvalidCredentials
	}

	return s.issueTokens(ctx, normalized, normalized, []string{roleFC})
}

// Refresh rotates a refresh token: the presented grant is revoked and a new
// pair is issued with the same subject and roles.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := token.HashSHA256(refreshToken)
	grant, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, errTokenInvalid
		}
		return TokenPair{}, err
	}

	if time.Now().After(grant.ExpiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return TokenPair{}, errTokenExpired
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return TokenPair{}, err
	}
	return s.issueTokens(ctx, grant.Subject, grant.Phone, grant.Roles)
}

// SignOut revokes the presented refresh token. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// CreateAdmin registers a new back-office account with a hashed password.
func (s *Service) CreateAdmin(ctx context.Context, email, plainPassword, name string) (repository.AdminAccount, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.AdminAccount{}, err
	}
	return s.repo.CreateAdmin(ctx, strings.TrimSpace(email), hash, strings.TrimSpace(name))
}

func (s *Service) issueTokens(ctx context.Context, subject, phoneClaim string, roles []string) (TokenPair, error) {
	ttl := s.cfg.GetAccessTokenTTL()
	accessToken, err := s.signJWT(subject, phoneClaim, roles, ttl)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenSize)
	if err != nil {
		return TokenPair{}, err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, hash, subject, phoneClaim, roles, expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(ttl.Seconds()),
	}, nil
}

func (s *Service) signJWT(subject, phoneClaim string, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"type":  accessTokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	if phoneClaim != "" {
		claims["phone"] = phoneClaim
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
