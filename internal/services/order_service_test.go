package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/models"
)

var fixedNow = time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

type orderFixture struct {
	svc    OrderService
	orders *fakeOrders
	tx     *fakeTx
}

func newOrderFixture() orderFixture {
	orders := newFakeOrders()
	tx := &fakeTx{}
	periods := newFakePeriods(
		models.Period{ID: 7, Code: "1T2026", Name: "1º Trimestre 2026", Active: true},
		models.Period{ID: 8, Code: "4T2025", Name: "4º Trimestre 2025", Active: false},
	)
	congregations := fakeCongregations{3: {ID: 3, Name: "Sede"}, 9: {ID: 9, Name: "Vila Nova"}}
	svc := NewOrderService(orders, periods, congregations, NewPricingEngine(NewVariantResolver(catalogFixture())), tx)
	svc.(*orderService).now = func() time.Time { return fixedNow }
	return orderFixture{svc: svc, orders: orders, tx: tx}
}

var (
	admin    = authz.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	member   = authz.Principal{UserID: 20, Username: "joao", Role: models.RoleUser, CongregationID: int64Ptr(3)}
	neighbor = authz.Principal{UserID: 21, Username: "maria", Role: models.RoleUser, CongregationID: int64Ptr(3)}
	outsider = authz.Principal{UserID: 30, Username: "pedro", Role: models.RoleUser, CongregationID: int64Ptr(9)}
)

func pendingOrder(id int64) models.Order {
	return models.Order{ID: id, CongregationID: 3, SubmittedByID: member.UserID, PeriodID: 7, Status: models.OrderStatusPending, TotalValue: money("17.00")}
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture()

	order, err := f.svc.CreateOrder(context.Background(), member, CreateOrderRequest{
		PeriodID:     7,
		Observations: strPtr("entregar no domingo"),
		Items:        []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(3), order.CongregationID)
	assert.Equal(t, member.UserID, order.SubmittedByID)
	assert.Equal(t, "17.00", order.TotalValue.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, "17.00", order.Items[0].TotalValue.StringFixed(2))
	assert.Equal(t, "Aluno", *order.Items[0].VariantData.CombinationName)
}

func TestOrderService_CreateOrderRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal authz.Principal
		req       CreateOrderRequest
		wantErr   error
	}{
		{
			name:      "zero quantity",
			principal: member,
			req:       CreateOrderRequest{PeriodID: 7, Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 0}}},
			wantErr:   ErrInvalidQuantity,
		},
		{
			name:      "unknown period",
			principal: member,
			req:       CreateOrderRequest{PeriodID: 99, Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}},
			wantErr:   ErrPeriodNotFound,
		},
		{
			name:      "closed period",
			principal: member,
			req:       CreateOrderRequest{PeriodID: 8, Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}},
			wantErr:   ErrPeriodClosed,
		},
		{
			name:      "user without congregation",
			principal: authz.Principal{UserID: 40, Role: models.RoleUser},
			req:       CreateOrderRequest{PeriodID: 7, Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}},
			wantErr:   ErrNoCongregation,
		},
		{
			name:      "user ordering for another congregation",
			principal: member,
			req:       CreateOrderRequest{PeriodID: 7, CongregationID: int64Ptr(9), Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}},
			wantErr:   ErrNotAllowed,
		},
		{
			name:      "admin picks unknown congregation",
			principal: admin,
			req:       CreateOrderRequest{PeriodID: 7, CongregationID: int64Ptr(404), Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}},
			wantErr:   ErrCongregationMissing,
		},
		{
			name:      "inactive combination",
			principal: member,
			req:       CreateOrderRequest{PeriodID: 7, Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 12, Quantity: 1}}},
			wantErr:   ErrCombinationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			order, err := f.svc.CreateOrder(context.Background(), tt.principal, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, order)
			assert.Empty(t, f.orders.orders)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestOrderService_AdminCreatesForAnyCongregation(t *testing.T) {
	f := newOrderFixture()

	order, err := f.svc.CreateOrder(context.Background(), admin, CreateOrderRequest{
		PeriodID:       7,
		CongregationID: int64Ptr(9),
		Items:          []OrderItemRequest{{MagazineID: 3, CombinationID: 31, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), order.CongregationID)
	assert.Equal(t, admin.UserID, order.SubmittedByID)
}

func TestOrderService_UpdateOrderItemsReplacesEverything(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1), linkedItem(2, "8.50", "17.00"), linkedItem(1, "8.50", "8.50"))

	order, err := f.svc.UpdateOrderItems(context.Background(), member, 1, UpdateOrderRequest{
		Items: []OrderItemRequest{{MagazineID: 3, CombinationID: 31, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(3), order.Items[0].MagazineID)
	assert.Equal(t, "19.98", order.TotalValue.StringFixed(2))
	assert.Equal(t, fixedNow, order.UpdatedAt)
	assert.Equal(t, 1, f.tx.calls)
}

func TestOrderService_UpdateOrderItemsRequiresPending(t *testing.T) {
	for _, status := range []models.OrderStatus{models.OrderStatusApproved, models.OrderStatusDelivered, models.OrderStatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			f := newOrderFixture()
			order := pendingOrder(1)
			order.Status = status
			f.orders.seed(order, linkedItem(2, "8.50", "17.00"))

			_, err := f.svc.UpdateOrderItems(context.Background(), member, 1, UpdateOrderRequest{
				Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 5}},
			})
			require.ErrorIs(t, err, ErrOrderNotEditable)
			assert.ErrorIs(t, err, ErrInvalidState)

			items := f.orders.items[1]
			require.Len(t, items, 1)
			assert.Equal(t, 2, items[0].Quantity)
			assert.Equal(t, "17.00", f.orders.orders[1].TotalValue.StringFixed(2))
		})
	}
}

func TestOrderService_UpdateOrderItemsOwnership(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1), linkedItem(2, "8.50", "17.00"))
	req := UpdateOrderRequest{Items: []OrderItemRequest{{MagazineID: 1, CombinationID: 11, Quantity: 1}}}

	_, err := f.svc.UpdateOrderItems(context.Background(), neighbor, 1, req)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateOrderItems(context.Background(), admin, 1, req)
	assert.NoError(t, err)

	_, err = f.svc.UpdateOrderItems(context.Background(), member, 404, req)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatusStamps(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1))

	order, err := f.svc.UpdateOrderStatus(context.Background(), admin, 1, UpdateOrderStatusRequest{Status: models.OrderStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, order.Status)
	require.NotNil(t, order.ApprovedByID)
	assert.Equal(t, admin.UserID, *order.ApprovedByID)
	require.NotNil(t, order.ApprovedAt)
	assert.Equal(t, fixedNow, *order.ApprovedAt)
	assert.Nil(t, order.DeliveredAt)

	order, err = f.svc.UpdateOrderStatus(context.Background(), admin, 1, UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	require.NoError(t, err)
	require.NotNil(t, order.DeliveredAt)
	require.NotNil(t, order.ApprovedAt, "approval stamp survives later transitions")

	// Transitions are permissive: a delivered order may go back to PENDING.
	order, err = f.svc.UpdateOrderStatus(context.Background(), admin, 1, UpdateOrderStatusRequest{Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_UpdateOrderStatusRejections(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1))

	_, err := f.svc.UpdateOrderStatus(context.Background(), member, 1, UpdateOrderStatusRequest{Status: models.OrderStatusApproved})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateOrderStatus(context.Background(), admin, 1, UpdateOrderStatusRequest{Status: "SHIPPED"})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = f.svc.UpdateOrderStatus(context.Background(), admin, 404, UpdateOrderStatusRequest{Status: models.OrderStatusApproved})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.Equal(t, models.OrderStatusPending, f.orders.orders[1].Status)
}

func TestOrderService_GetOrderByIDVisibility(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1), linkedItem(2, "8.50", "17.00"))

	for _, p := range []authz.Principal{member, neighbor, admin} {
		order, err := f.svc.GetOrderByID(context.Background(), p, 1)
		require.NoError(t, err, p.Username)
		assert.Len(t, order.Items, 1)
	}

	_, err := f.svc.GetOrderByID(context.Background(), outsider, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_GetOrdersScopesNonAdmins(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1))
	other := pendingOrder(2)
	other.CongregationID = 9
	other.SubmittedByID = outsider.UserID
	f.orders.seed(other)

	orders, total, err := f.svc.GetOrders(context.Background(), member, models.OrderFilters{CongregationID: int64Ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, int64(1), orders[0].ID)

	_, total, err = f.svc.GetOrders(context.Background(), admin, models.OrderFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	bad := models.OrderStatus("LOST")
	_, _, err = f.svc.GetOrders(context.Background(), admin, models.OrderFilters{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newOrderFixture()
	f.orders.seed(pendingOrder(1), linkedItem(2, "8.50", "17.00"))
	approved := pendingOrder(2)
	approved.Status = models.OrderStatusApproved
	f.orders.seed(approved)

	assert.ErrorIs(t, f.svc.DeleteOrder(context.Background(), neighbor, 1), ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteOrder(context.Background(), member, 2), ErrOrderNotEditable)

	require.NoError(t, f.svc.DeleteOrder(context.Background(), member, 1))
	assert.NotContains(t, f.orders.orders, int64(1))
	assert.Empty(t, f.orders.items[1])
}
