package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/models"
	"revistas_backend/internal/services"
)

type PeriodHandler struct {
	periodService services.PeriodService
}

func NewPeriodHandler(ps services.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: ps}
}

func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	var req services.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	period, err := h.periodService.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreatePeriod: Error from periodService.CreatePeriod")
		return
	}
	c.JSON(http.StatusCreated, period)
}

func (h *PeriodHandler) GetPeriods(c *gin.Context) {
	h.listPeriods(c, c.Query("active") == "true")
}

// GetActivePeriods lists the periods currently accepting orders.
func (h *PeriodHandler) GetActivePeriods(c *gin.Context) {
	h.listPeriods(c, true)
}

func (h *PeriodHandler) listPeriods(c *gin.Context, onlyActive bool) {
	periods, err := h.periodService.GetPeriods(c.Request.Context(), onlyActive)
	if err != nil {
		respondServiceError(c, err, "GetPeriods: Error from periodService.GetPeriods")
		return
	}
	if periods == nil {
		periods = []models.Period{}
	}
	c.JSON(http.StatusOK, periods)
}

func (h *PeriodHandler) GetPeriodByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetPeriodByID: Error from periodService.GetPeriodByID")
		return
	}
	c.JSON(http.StatusOK, period)
}

func (h *PeriodHandler) UpdatePeriod(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	period, err := h.periodService.UpdatePeriod(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdatePeriod: Error from periodService.UpdatePeriod")
		return
	}
	c.JSON(http.StatusOK, period)
}

func (h *PeriodHandler) DeletePeriod(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.periodService.DeletePeriod(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeletePeriod: Error from periodService.DeletePeriod")
		return
	}
	c.Status(http.StatusNoContent)
}
