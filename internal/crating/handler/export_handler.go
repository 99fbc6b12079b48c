package handler

import (
	"fmt"
	"net/http"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportQuote POST /drafts/:id/export
// Returns a presigned object-store URL when a store is configured,
// otherwise streams the workbook directly.
func (h *ExportHandler) ExportQuote(c *gin.Context) {
	result, err := h.svc.ExportQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailDomain(c, err)
		return
	}

	if result.URL != "" {
		Success(c, result)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, xlsxContentType, result.Data)
}
