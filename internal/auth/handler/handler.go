// Package handler exposes the auth flows over HTTP.
package handler

import (
	"net/http"

	"github.com/jj8127/Appointment-Process-sub000/internal/auth/service"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/transport"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the unauthenticated auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/sign-in", h.AdminSignIn)
	rg.POST("/fc/sign-in", h.CandidateSignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/sign-out", h.SignOut)
}

// RegisterAdminRoutes registers the admin-only account management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/accounts", h.CreateAdmin)
}

// AdminSignIn handles POST /api/v1/auth/admin/sign-in
func (h *Handler) AdminSignIn(c *gin.Context) {
	var req transport.AdminSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.AdminSignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, authResponse(pair))
}

// CandidateSignIn handles POST /api/v1/auth/fc/sign-in
func (h *Handler) CandidateSignIn(c *gin.Context) {
	var req transport.CandidateSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.CandidateSignIn(c.Request.Context(), req.Phone, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, authResponse(pair))
}

// Refresh handles POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, authResponse(pair))
}

// SignOut handles POST /api/v1/auth/sign-out
func (h *Handler) SignOut(c *gin.Context) {
	var req transport.SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	err := h.svc.SignOut(c.Request.Context(), req.RefreshToken)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

// CreateAdmin handles POST /api/v1/admin/accounts
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req transport.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	account, err := h.svc.CreateAdmin(c.Request.Context(), req.Email, req.Password, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.AdminAccountResponse{
		ID:    account.ID.String(),
		Email: account.Email,
		Name:  account.Name,
	})
}

func authResponse(pair service.TokenPair) transport.AuthResponse {
	return transport.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}
