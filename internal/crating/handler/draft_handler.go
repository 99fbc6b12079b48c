package handler

import (
	"errors"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/service"
	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	svc *service.DraftService
}

func NewDraftHandler(svc *service.DraftService) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// Create POST /drafts
func (h *DraftHandler) Create(c *gin.Context) {
	var input service.CreateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := GetUserID(c)
	draft, err := h.svc.Create(c.Request.Context(), &input, userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Created(c, draft)
}

// Get GET /drafts/:id
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}

// List GET /drafts?customer_id=&page=&page_size=
func (h *DraftHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	customerID := c.Query("customer_id")

	drafts, total, err := h.svc.List(c.Request.Context(), customerID, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      drafts,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Delete DELETE /drafts/:id
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, gin.H{"deleted": true})
}

// AddItem POST /drafts/:id/items
func (h *DraftHandler) AddItem(c *gin.Context) {
	var item entity.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	draft, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), item)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			NotFound(c, err.Error())
		} else {
			BadRequest(c, err.Error())
		}
		return
	}

	Success(c, draft)
}

// RemoveItem DELETE /drafts/:id/items/:itemId
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	draft, err := h.svc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	Success(c, draft)
}
