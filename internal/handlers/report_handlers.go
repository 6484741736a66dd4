package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/services"
	"revistas_backend/pkg/utils"
)

// ReportHandler serves the admin period report.
type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetPeriodReport handles GET /admin/report?periodId=.
func (h *ReportHandler) GetPeriodReport(c *gin.Context) {
	if c.Query("periodId") == "" {
		utils.RespondValidationFailed(c, "periodId é obrigatório", "missing periodId query parameter")
		return
	}
	periodID, ok := queryID(c, "periodId")
	if !ok {
		return
	}

	report, err := h.reportService.PeriodReport(c.Request.Context(), *periodID)
	if err != nil {
		respondServiceError(c, err, "GetPeriodReport: Error from reportService.PeriodReport")
		return
	}
	c.JSON(http.StatusOK, report)
}
