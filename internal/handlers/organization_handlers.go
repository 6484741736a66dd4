package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/models"
	"revistas_backend/internal/services"
)

// OrganizationHandler serves areas and congregations.
type OrganizationHandler struct {
	orgService services.OrganizationService
}

func NewOrganizationHandler(os services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: os}
}

func (h *OrganizationHandler) CreateArea(c *gin.Context) {
	var req services.AreaRequest
	if !bindJSON(c, &req) {
		return
	}
	area, err := h.orgService.CreateArea(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateArea: Error from orgService.CreateArea")
		return
	}
	c.JSON(http.StatusCreated, area)
}

func (h *OrganizationHandler) GetAreas(c *gin.Context) {
	areas, err := h.orgService.GetAreas(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetAreas: Error from orgService.GetAreas")
		return
	}
	if areas == nil {
		areas = []models.Area{}
	}
	c.JSON(http.StatusOK, areas)
}

func (h *OrganizationHandler) UpdateArea(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.AreaRequest
	if !bindJSON(c, &req) {
		return
	}
	area, err := h.orgService.UpdateArea(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateArea: Error from orgService.UpdateArea")
		return
	}
	c.JSON(http.StatusOK, area)
}

func (h *OrganizationHandler) DeleteArea(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.DeleteArea(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteArea: Error from orgService.DeleteArea")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrganizationHandler) CreateCongregation(c *gin.Context) {
	var req services.CreateCongregationRequest
	if !bindJSON(c, &req) {
		return
	}
	congregation, err := h.orgService.CreateCongregation(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateCongregation: Error from orgService.CreateCongregation")
		return
	}
	c.JSON(http.StatusCreated, congregation)
}

// GetCongregations lists congregations, optionally filtered by ?areaId=.
func (h *OrganizationHandler) GetCongregations(c *gin.Context) {
	areaID, ok := queryID(c, "areaId")
	if !ok {
		return
	}
	congregations, err := h.orgService.GetCongregations(c.Request.Context(), areaID)
	if err != nil {
		respondServiceError(c, err, "GetCongregations: Error from orgService.GetCongregations")
		return
	}
	if congregations == nil {
		congregations = []models.Congregation{}
	}
	c.JSON(http.StatusOK, congregations)
}

func (h *OrganizationHandler) GetCongregationByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	congregation, err := h.orgService.GetCongregationByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetCongregationByID: Error from orgService.GetCongregationByID")
		return
	}
	c.JSON(http.StatusOK, congregation)
}

func (h *OrganizationHandler) UpdateCongregation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateCongregationRequest
	if !bindJSON(c, &req) {
		return
	}
	congregation, err := h.orgService.UpdateCongregation(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCongregation: Error from orgService.UpdateCongregation")
		return
	}
	c.JSON(http.StatusOK, congregation)
}

func (h *OrganizationHandler) DeleteCongregation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.DeleteCongregation(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteCongregation: Error from orgService.DeleteCongregation")
		return
	}
	c.Status(http.StatusNoContent)
}
