package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/dto"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/services"
)

// ReportHandler exposes the admin dashboard aggregates.
type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary returns the dashboard counts and the task completion rate
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.Summary()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportSummaryDTO(summary))
}
