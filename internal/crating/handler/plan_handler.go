package handler

import (
	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/service"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	svc      *service.PlanService
	draftSvc *service.DraftService
}

func NewPlanHandler(svc *service.PlanService, draftSvc *service.DraftService) *PlanHandler {
	return &PlanHandler{svc: svc, draftSvc: draftSvc}
}

// Get GET /drafts/:id/plan
func (h *PlanHandler) Get(c *gin.Context) {
	draft, err := h.draftSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft.Plan)
}

// Nest POST /drafts/:id/plan/nest
func (h *PlanHandler) Nest(c *gin.Context) {
	draft, err := h.svc.RunNesting(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}

// Engineer POST /drafts/:id/plan/engineer
func (h *PlanHandler) Engineer(c *gin.Context) {
	draft, err := h.svc.RunEngineering(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}

// Cost POST /drafts/:id/plan/cost
func (h *PlanHandler) Cost(c *gin.Context) {
	draft, err := h.svc.RunCosting(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}

// SetOverride PUT /drafts/:id/plan/overrides/:boxId
func (h *PlanHandler) SetOverride(c *gin.Context) {
	var input struct {
		Profile entity.Profile `json:"profile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	draft, err := h.svc.SetOverride(c.Request.Context(), c.Param("id"), c.Param("boxId"), input.Profile)
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}

// ClearOverride DELETE /drafts/:id/plan/overrides/:boxId
func (h *PlanHandler) ClearOverride(c *gin.Context) {
	draft, err := h.svc.ClearOverride(c.Request.Context(), c.Param("id"), c.Param("boxId"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}
