package handler

import (
	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Active GET /settings/active
func (h *SettingsHandler) Active(c *gin.Context) {
	settings, err := h.svc.Active(c.Request.Context())
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, settings)
}

// CreateVersion POST /settings/versions
func (h *SettingsHandler) CreateVersion(c *gin.Context) {
	var payload entity.Settings
	if err := c.ShouldBindJSON(&payload); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	version, err := h.svc.CreateVersion(c.Request.Context(), payload, GetUserID(c))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Created(c, version)
}

// Get GET /settings/versions/:id
func (h *SettingsHandler) Get(c *gin.Context) {
	version, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, version)
}

// List GET /settings/versions
func (h *SettingsHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	versions, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      versions,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Activate POST /settings/versions/:id/activate
func (h *SettingsHandler) Activate(c *gin.Context) {
	if err := h.svc.Activate(c.Request.Context(), c.Param("id")); err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, gin.H{"activated": true})
}
