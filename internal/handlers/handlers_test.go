package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/middleware"
	"revistas_backend/internal/models"
	"revistas_backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubOrderService struct {
	create       func(authz.Principal, services.CreateOrderRequest) (*models.Order, error)
	updateItems  func(int64, services.UpdateOrderRequest) (*models.Order, error)
	updateStatus func(int64, services.UpdateOrderStatusRequest) (*models.Order, error)
	lastFilters  models.OrderFilters
}

func (s *stubOrderService) CreateOrder(_ context.Context, p authz.Principal, req services.CreateOrderRequest) (*models.Order, error) {
	return s.create(p, req)
}

func (s *stubOrderService) GetOrders(_ context.Context, _ authz.Principal, f models.OrderFilters) ([]models.Order, int, error) {
	s.lastFilters = f
	return nil, 0, nil
}

func (s *stubOrderService) GetOrderByID(_ context.Context, _ authz.Principal, id int64) (*models.Order, error) {
	return nil, fmt.Errorf("%w (id %d)", services.ErrOrderNotFound, id)
}

func (s *stubOrderService) UpdateOrderItems(_ context.Context, _ authz.Principal, id int64, req services.UpdateOrderRequest) (*models.Order, error) {
	return s.updateItems(id, req)
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, _ authz.Principal, id int64, req services.UpdateOrderStatusRequest) (*models.Order, error) {
	return s.updateStatus(id, req)
}

func (s *stubOrderService) DeleteOrder(_ context.Context, _ authz.Principal, _ int64) error {
	return errors.New("connection reset by peer")
}

type stubReportService struct{}

func (stubReportService) PeriodReport(_ context.Context, periodID int64) (*models.PeriodReport, error) {
	if periodID != 7 {
		return nil, services.ErrPeriodNotFound
	}
	return &models.PeriodReport{
		Period:     "1º Trimestre 2026",
		PeriodCode: "1T2026",
		Rows: []models.ReportRow{{
			CongregationID: 3, MagazineCode: "EBD-ADU", VariantCode: "ALU", VariantName: "Aluno",
			Quantity: 2, UnitPrice: decimal.RequireFromString("8.50"), TotalValue: decimal.RequireFromString("17.00"),
		}},
		Totals: models.ReportTotals{Quantity: 2, TotalValue: decimal.RequireFromString("17.00")},
	}, nil
}

var testUser = authz.Principal{UserID: 20, Username: "joao", Role: models.RoleUser, CongregationID: func() *int64 { v := int64(3); return &v }()}

func newEngine(orders services.OrderService) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, testUser)
		c.Next()
	})
	h := NewOrderHandler(orders)
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.GetOrders)
	r.GET("/orders/:id", h.GetOrderByID)
	r.PATCH("/orders/:id", h.UpdateOrder)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	r.DELETE("/orders/:id", h.DeleteOrder)
	r.GET("/admin/report", NewReportHandler(stubReportService{}).GetPeriodReport)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateOrder(t *testing.T) {
	stub := &stubOrderService{create: func(p authz.Principal, req services.CreateOrderRequest) (*models.Order, error) {
		if req.Items[0].Quantity <= 0 {
			return nil, services.ErrInvalidQuantity
		}
		return &models.Order{ID: 1, SubmittedByID: p.UserID, PeriodID: req.PeriodID, Status: models.OrderStatusPending, TotalValue: decimal.RequireFromString("17.00")}, nil
	}}
	r := newEngine(stub)

	w := perform(r, http.MethodPost, "/orders", `{"periodId":7,"items":[{"magazineId":1,"combinationId":11,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(20), body["submittedById"])
	assert.Equal(t, 17.0, body["totalValue"])

	w = perform(r, http.MethodPost, "/orders", `{"periodId":7,"items":[{"magazineId":1,"combinationId":11,"quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quantidade deve ser um número inteiro positivo", decodeBody(t, w)["message"])

	w = perform(r, http.MethodPost, "/orders", `{"periodId":"sete"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["message"])
}

func TestUpdateOrderErrorMapping(t *testing.T) {
	stub := &stubOrderService{updateItems: func(id int64, _ services.UpdateOrderRequest) (*models.Order, error) {
		switch id {
		case 1:
			return nil, services.ErrNotAllowed
		case 2:
			return nil, services.ErrOrderNotEditable
		case 3:
			return nil, services.ErrDuplicateCode
		}
		return nil, errors.New("pq: relation does not exist")
	}}
	r := newEngine(stub)
	body := `{"items":[{"magazineId":1,"combinationId":11,"quantity":1}]}`

	tests := []struct {
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"/orders/1", http.StatusForbidden, "Sem permissão para esta operação"},
		{"/orders/2", http.StatusBadRequest, "Pedido só pode ser alterado enquanto estiver PENDENTE"},
		{"/orders/3", http.StatusBadRequest, "Código já cadastrado"},
		{"/orders/4", http.StatusInternalServerError, "Erro interno"},
		{"/orders/abc", http.StatusBadRequest, "Identificador inválido"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := perform(r, http.MethodPatch, tt.path, body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeBody(t, w)["message"])
		})
	}
}

func TestInternalErrorBodyHidesDetails(t *testing.T) {
	w := perform(newEngine(&stubOrderService{}), http.MethodDelete, "/orders/1", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Erro interno", body["message"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestUpdateOrderStatus(t *testing.T) {
	stub := &stubOrderService{updateStatus: func(id int64, req services.UpdateOrderStatusRequest) (*models.Order, error) {
		if !req.Status.Valid() {
			return nil, services.ErrInvalidOrderStatus
		}
		return &models.Order{ID: id, Status: req.Status}, nil
	}}
	r := newEngine(stub)

	w := perform(r, http.MethodPatch, "/orders/5/status", `{"status":"APPROVED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decodeBody(t, w)["status"])

	w = perform(r, http.MethodPatch, "/orders/5/status", `{"status":"SHIPPED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status inválido", decodeBody(t, w)["message"])
}

func TestGetOrdersParsesFilters(t *testing.T) {
	stub := &stubOrderService{}
	r := newEngine(stub)

	w := perform(r, http.MethodGet, "/orders?periodId=7&status=PENDING&page=2&pageSize=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.lastFilters.PeriodID)
	assert.Equal(t, int64(7), *stub.lastFilters.PeriodID)
	assert.Equal(t, models.OrderStatusPending, *stub.lastFilters.Status)
	assert.Equal(t, 2, stub.lastFilters.Page)
	assert.Equal(t, 5, stub.lastFilters.PageSize)
	assert.Equal(t, []interface{}{}, decodeBody(t, w)["data"])

	w = perform(r, http.MethodGet, "/orders?page=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/orders/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pedido não encontrado", decodeBody(t, w)["message"])
}

func TestGetPeriodReport(t *testing.T) {
	r := newEngine(&stubOrderService{})

	w := perform(r, http.MethodGet, "/admin/report", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["message"])

	w = perform(r, http.MethodGet, "/admin/report?periodId=99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Período não encontrado", decodeBody(t, w)["message"])

	w = perform(r, http.MethodGet, "/admin/report?periodId=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "1T2026", body["periodCode"])
	rows := body["rows"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "ALU", row["variantCode"])
	assert.Equal(t, 8.5, row["unitPrice"])
	assert.Equal(t, 17.0, row["totalValue"])
	assert.Equal(t, float64(2), body["totals"].(map[string]interface{})["quantity"])
}
