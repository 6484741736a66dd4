package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/models"
	"revistas_backend/internal/services"
	"revistas_backend/pkg/utils"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), p, req)
	if err != nil {
		respondServiceError(c, err, "CreateOrder: Error from orderService.CreateOrder")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders handles GET /orders with optional filters and pagination.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var filters models.OrderFilters
	if filters.PeriodID, ok = queryID(c, "periodId"); !ok {
		return
	}
	if filters.CongregationID, ok = queryID(c, "congregationId"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filters.Status = &s
	}
	if filters.Page, ok = positiveQueryInt(c, "page", 1); !ok {
		return
	}
	if filters.PageSize, ok = positiveQueryInt(c, "pageSize", 20); !ok {
		return
	}

	orders, total, err := h.orderService.GetOrders(c.Request.Context(), p, filters)
	if err != nil {
		respondServiceError(c, err, "GetOrders: Error from orderService.GetOrders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     orders,
		"total":    total,
		"page":     filters.Page,
		"pageSize": filters.PageSize,
	})
}

// GetOrderByID handles GET /orders/:id.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), p, id)
	if err != nil {
		respondServiceError(c, err, "GetOrderByID: Error from orderService.GetOrderByID")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PATCH /orders/:id, replacing the order lines.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderItems(c.Request.Context(), p, id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateOrder: Error from orderService.UpdateOrderItems")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), p, id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), p, id); err != nil {
		respondServiceError(c, err, "DeleteOrder: Error from orderService.DeleteOrder")
		return
	}
	c.Status(http.StatusNoContent)
}

func positiveQueryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		utils.RespondValidationFailed(c, "Parâmetro inválido: "+name, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}
