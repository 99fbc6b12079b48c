package handler

import (
	"errors"
	"strconv"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the crating handler collection.
type Handlers struct {
	Draft    *DraftHandler
	Plan     *PlanHandler
	Settings *SettingsHandler
	Export   *ExportHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Draft:    NewDraftHandler(svc.Draft),
		Plan:     NewPlanHandler(svc.Plan, svc.Draft),
		Settings: NewSettingsHandler(svc.Settings),
		Export:   NewExportHandler(svc.Export),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps paginated collections.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope. The HTTP status is derived from the
// business code (40000 -> 400, 40900 -> 409, 50000 -> 500).
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// FailDomain maps service-layer errors onto the envelope. Stage
// precondition and stale-settings failures surface as conflicts so a
// client can distinguish them from malformed input.
func FailDomain(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, entity.ErrPreconditionNotMet),
		errors.Is(err, entity.ErrStaleSettings):
		Conflict(c, err.Error())
	case errors.Is(err, entity.ErrInvalidProfile),
		errors.Is(err, entity.ErrInvalidSettings):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID reads the authenticated user from the request context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination reads page/page_size query parameters with defaults.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
