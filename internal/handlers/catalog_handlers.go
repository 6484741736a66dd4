package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/models"
	"revistas_backend/internal/services"
)

// CatalogHandler serves magazines and their variant combinations.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) CreateMagazine(c *gin.Context) {
	var req services.CreateMagazineRequest
	if !bindJSON(c, &req) {
		return
	}
	magazine, err := h.catalogService.CreateMagazine(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateMagazine: Error from catalogService.CreateMagazine")
		return
	}
	c.JSON(http.StatusCreated, magazine)
}

// GetMagazines lists magazines; ?active=true restricts to orderable ones.
func (h *CatalogHandler) GetMagazines(c *gin.Context) {
	magazines, err := h.catalogService.GetMagazines(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err, "GetMagazines: Error from catalogService.GetMagazines")
		return
	}
	if magazines == nil {
		magazines = []models.Magazine{}
	}
	c.JSON(http.StatusOK, magazines)
}

func (h *CatalogHandler) GetMagazineByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	magazine, err := h.catalogService.GetMagazineByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetMagazineByID: Error from catalogService.GetMagazineByID")
		return
	}
	c.JSON(http.StatusOK, magazine)
}

func (h *CatalogHandler) UpdateMagazine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMagazineRequest
	if !bindJSON(c, &req) {
		return
	}
	magazine, err := h.catalogService.UpdateMagazine(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateMagazine: Error from catalogService.UpdateMagazine")
		return
	}
	c.JSON(http.StatusOK, magazine)
}

func (h *CatalogHandler) DeleteMagazine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteMagazine(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteMagazine: Error from catalogService.DeleteMagazine")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Combinations under /variants/:magazineId/combinations ---

func (h *CatalogHandler) ListCombinations(c *gin.Context) {
	magazineID, ok := pathID(c, "magazineId")
	if !ok {
		return
	}
	combinations, err := h.catalogService.ListCombinations(c.Request.Context(), magazineID)
	if err != nil {
		respondServiceError(c, err, "ListCombinations: Error from catalogService.ListCombinations")
		return
	}
	if combinations == nil {
		combinations = []models.VariantCombination{}
	}
	c.JSON(http.StatusOK, combinations)
}

func (h *CatalogHandler) CreateCombination(c *gin.Context) {
	magazineID, ok := pathID(c, "magazineId")
	if !ok {
		return
	}
	var req services.CreateCombinationRequest
	if !bindJSON(c, &req) {
		return
	}
	combination, err := h.catalogService.CreateCombination(c.Request.Context(), magazineID, req)
	if err != nil {
		respondServiceError(c, err, "CreateCombination: Error from catalogService.CreateCombination")
		return
	}
	c.JSON(http.StatusCreated, combination)
}

func (h *CatalogHandler) UpdateCombination(c *gin.Context) {
	magazineID, ok := pathID(c, "magazineId")
	if !ok {
		return
	}
	combinationID, ok := pathID(c, "combinationId")
	if !ok {
		return
	}
	var req services.UpdateCombinationRequest
	if !bindJSON(c, &req) {
		return
	}
	combination, err := h.catalogService.UpdateCombination(c.Request.Context(), magazineID, combinationID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCombination: Error from catalogService.UpdateCombination")
		return
	}
	c.JSON(http.StatusOK, combination)
}

func (h *CatalogHandler) DeleteCombination(c *gin.Context) {
	magazineID, ok := pathID(c, "magazineId")
	if !ok {
		return
	}
	combinationID, ok := pathID(c, "combinationId")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCombination(c.Request.Context(), magazineID, combinationID); err != nil {
		respondServiceError(c, err, "DeleteCombination: Error from catalogService.DeleteCombination")
		return
	}
	c.Status(http.StatusNoContent)
}
