// Package handler exposes the document flows over HTTP.
package handler

import (
	"net/http"

	"github.com/jj8127/Appointment-Process-sub000/internal/documents/service"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/transport"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for documents.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new documents handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAdminRoutes registers the admin-facing document routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates/:phone/documents", h.AdminList)
	rg.PUT("/candidates/:phone/documents", h.RequestSet)
	rg.POST("/candidates/:phone/documents/review", h.Review)
}

// RegisterCandidateRoutes registers the candidate-facing document routes.
func (h *Handler) RegisterCandidateRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.MyList)
	rg.POST("/documents", h.Upload)
	rg.POST("/documents/delete", h.DeleteFile)
}

func adminActor(c *gin.Context, identity httpkit.Identity) gateway.Actor {
	return gateway.Actor{
		Role:    gateway.RoleAdmin,
		Subject: identity.Subject(),
		Origin:  c.GetHeader("Origin"),
	}
}

func candidateActor(c *gin.Context, identity httpkit.Identity) gateway.Actor {
	return gateway.Actor{
		Role:    gateway.RoleFC,
		Subject: identity.Phone(),
		Origin:  c.GetHeader("Origin"),
	}
}

// AdminList handles GET /api/v1/admin/candidates/:phone/documents
func (h *Handler) AdminList(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), c.Param("phone"), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RequestSet handles PUT /api/v1/admin/candidates/:phone/documents
func (h *Handler) RequestSet(c *gin.Context) {
	var req transport.RequestSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resulting, err := h.svc.RequestSet(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"resultingStatus": string(resulting)})
}

// Review handles POST /api/v1/admin/candidates/:phone/documents/review
func (h *Handler) Review(c *gin.Context) {
	var req transport.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Review(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MyList handles GET /api/v1/fc/documents
func (h *Handler) MyList(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.Phone(), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Upload handles POST /api/v1/fc/documents (multipart: docType + file)
func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	docType := c.PostForm("docType")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(
		c.Request.Context(),
		candidateActor(c, identity),
		identity.Phone(),
		docType,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// DeleteFile handles POST /api/v1/fc/documents/delete
func (h *Handler) DeleteFile(c *gin.Context) {
	var req transport.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.svc.DeleteFile(c.Request.Context(), candidateActor(c, identity), identity.Phone(), req.DocType)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}
