package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
	"revistas_backend/pkg/utils"
)

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	PeriodID       int64              `json:"periodId" validate:"required,gt=0"`
	CongregationID *int64             `json:"congregationId" validate:"omitempty,gt=0"`
	Observations   *string            `json:"observations" validate:"omitempty,max=1000"`
	Items          []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest is the body of PATCH /orders/:id. Items replace the
// current lines entirely.
type UpdateOrderRequest struct {
	Observations *string            `json:"observations" validate:"omitempty,max=1000"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, principal authz.Principal, req CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, principal authz.Principal, filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(ctx context.Context, principal authz.Principal, orderID int64) (*models.Order, error)
	UpdateOrderItems(ctx context.Context, principal authz.Principal, orderID int64, req UpdateOrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, principal authz.Principal, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, principal authz.Principal, orderID int64) error
}

type congregationReader interface {
	GetCongregationByID(ctx context.Context, id int64) (*models.Congregation, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	periods       periodReader
	congregations congregationReader
	pricing       *PricingEngine
	tx            Transactor
	now           func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	periods periodReader,
	congregations congregationReader,
	pricing *PricingEngine,
	tx Transactor,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		periods:       periods,
		congregations: congregations,
		pricing:       pricing,
		tx:            tx,
		now:           time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, principal authz.Principal, req CreateOrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !authz.Can(principal, authz.ActionOrderCreate, authz.Resource{}) {
		return nil, ErrNotAllowed
	}

	congregationID, err := s.orderCongregation(ctx, principal, req.CongregationID)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePeriodOpen(ctx, req.PeriodID); err != nil {
		return nil, err
	}

	priced, err := s.pricing.Price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		CongregationID: congregationID,
		SubmittedByID:  principal.UserID,
		PeriodID:       req.PeriodID,
		Status:         models.OrderStatusPending,
		TotalValue:     priced.Total,
		Observations:   optionalText(req.Observations),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.tx.WithinTx(ctx, func(executor repositories.SQLExecutor) error {
		orderID, err := s.orderRepo.CreateOrder(ctx, executor, order)
		if err != nil {
			return translateRepoError(err, ErrOrderNotFound, "create order")
		}
		order.ID = orderID
		return s.insertItems(ctx, executor, orderID, priced.Items, now)
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("order created", map[string]interface{}{
		"order_id":        order.ID,
		"congregation_id": congregationID,
		"period_id":       req.PeriodID,
		"total_value":     priced.Total.StringFixed(2),
	})
	return s.loadOrder(ctx, order.ID)
}

// orderCongregation resolves the congregation an order is placed for. Admins may
// pick any existing congregation; other users always order for their own.
func (s *orderService) orderCongregation(ctx context.Context, principal authz.Principal, requested *int64) (int64, error) {
	if requested != nil && principal.IsAdmin() {
		if _, err := s.congregations.GetCongregationByID(ctx, *requested); err != nil {
			return 0, translateRepoError(err, ErrCongregationMissing, "load congregation")
		}
		return *requested, nil
	}
	if principal.CongregationID == nil {
		return 0, ErrNoCongregation
	}
	if requested != nil && *requested != *principal.CongregationID {
		return 0, ErrNotAllowed
	}
	return *principal.CongregationID, nil
}

func (s *orderService) ensurePeriodOpen(ctx context.Context, periodID int64) error {
	period, err := s.periods.GetPeriodByID(ctx, periodID)
	if err != nil {
		return translateRepoError(err, ErrPeriodNotFound, "load period")
	}
	if !period.Active {
		return ErrPeriodClosed
	}
	return nil
}

func (s *orderService) insertItems(ctx context.Context, executor repositories.SQLExecutor, orderID int64, items []models.OrderItem, now time.Time) error {
	for i := range items {
		item := items[i]
		item.OrderID = orderID
		item.CreatedAt = now
		if _, err := s.orderRepo.CreateOrderItem(ctx, executor, &item); err != nil {
			return fmt.Errorf("failed to create order item for magazine %d: %w", item.MagazineID, err)
		}
	}
	return nil
}

func (s *orderService) GetOrders(ctx context.Context, principal authz.Principal, filters models.OrderFilters) ([]models.Order, int, error) {
	if !authz.Can(principal, authz.ActionOrderList, authz.Resource{}) {
		return nil, 0, ErrNotAllowed
	}
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, *filters.Status)
	}
	if !authz.Can(principal, authz.ActionOrderListAll, authz.Resource{}) {
		if principal.CongregationID != nil {
			filters.CongregationID = principal.CongregationID
		} else {
			userID := principal.UserID
			filters.SubmittedByID = &userID
		}
	}

	orders, total, err := s.orderRepo.GetOrders(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, principal authz.Principal, orderID int64) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(principal, authz.ActionOrderView, authz.OrderResource(order)) {
		return nil, ErrNotAllowed
	}
	return order, nil
}

// UpdateOrderItems replaces every line of a PENDING order and recomputes its
// total in one transaction.
func (s *orderService) UpdateOrderItems(ctx context.Context, principal authz.Principal, orderID int64, req UpdateOrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(principal, authz.ActionOrderEdit, authz.OrderResource(order)) {
		return nil, ErrNotAllowed
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w (order %d is %s)", ErrOrderNotEditable, orderID, order.Status)
	}

	priced, err := s.pricing.Price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order.TotalValue = priced.Total
	order.UpdatedAt = now
	if req.Observations != nil {
		order.Observations = optionalText(req.Observations)
	}

	err = s.tx.WithinTx(ctx, func(executor repositories.SQLExecutor) error {
		if _, err := s.orderRepo.DeleteOrderItemsByOrderID(ctx, executor, orderID); err != nil {
			return fmt.Errorf("failed to clear items of order %d: %w", orderID, err)
		}
		if err := s.insertItems(ctx, executor, orderID, priced.Items, now); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateOrderContents(ctx, executor, order); err != nil {
			return translateRepoError(err, ErrOrderNotFound, "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("order items replaced", map[string]interface{}{
		"order_id":    orderID,
		"items":       len(priced.Items),
		"total_value": priced.Total.StringFixed(2),
	})
	return s.loadOrder(ctx, orderID)
}

// UpdateOrderStatus allows any transition between known statuses. Approval and
// delivery are stamped; earlier stamps are kept.
func (s *orderService) UpdateOrderStatus(ctx context.Context, principal authz.Principal, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !authz.Can(principal, authz.ActionOrderChangeStatus, authz.Resource{}) {
		return nil, ErrNotAllowed
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, req.Status)
	}
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return nil, err
	}

	now := s.now()
	change := repositories.StatusChange{Status: req.Status, UpdatedAt: now}
	switch req.Status {
	case models.OrderStatusApproved:
		approver := principal.UserID
		change.ApprovedByID = &approver
		change.ApprovedAt = &now
	case models.OrderStatusDelivered:
		change.DeliveredAt = &now
	}

	err := s.tx.WithinTx(ctx, func(executor repositories.SQLExecutor) error {
		return translateRepoError(s.orderRepo.UpdateOrderStatus(ctx, executor, orderID, change), ErrOrderNotFound, "update order status")
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("order status changed", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
		"user_id":  principal.UserID,
	})
	return s.loadOrder(ctx, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, principal authz.Principal, orderID int64) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !authz.Can(principal, authz.ActionOrderDelete, authz.OrderResource(order)) {
		return ErrNotAllowed
	}
	if order.Status != models.OrderStatusPending {
		return fmt.Errorf("%w (order %d is %s)", ErrOrderNotEditable, orderID, order.Status)
	}

	return s.tx.WithinTx(ctx, func(executor repositories.SQLExecutor) error {
		if _, err := s.orderRepo.DeleteOrderItemsByOrderID(ctx, executor, orderID); err != nil {
			return fmt.Errorf("failed to delete items of order %d: %w", orderID, err)
		}
		return translateRepoError(s.orderRepo.DeleteOrder(ctx, executor, orderID), ErrOrderNotFound, "delete order")
	})
}

func (s *orderService) loadOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w (id %d)", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", orderID, err)
	}
	order.Items = items
	return order, nil
}
