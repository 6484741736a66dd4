package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"revistas_backend/internal/models"

	"github.com/shopspring/decimal"
)

// StatusChange describes a status transition. Nil stamps leave the stored value untouched.
type StatusChange struct {
	Status       models.OrderStatus
	ApprovedByID *int64
	ApprovedAt   *time.Time
	DeliveredAt  *time.Time
	UpdatedAt    time.Time
}

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, int, error) // orders, total count
	UpdateOrderContents(ctx context.Context, executor SQLExecutor, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, change StatusChange) error
	DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) error

	CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

const orderColumns = `o.id, o.congregation_id, o.submitted_by_id, o.period_id, o.status, o.total_value, o.observations,
	o.approved_by_id, o.approved_at, o.delivered_at, o.created_at, o.updated_at`

func scanOrderInto(o *models.Order) []interface{} {
	return []interface{}{
		&o.ID, &o.CongregationID, &o.SubmittedByID, &o.PeriodID, &o.Status, &o.TotalValue, &o.Observations,
		&o.ApprovedByID, &o.ApprovedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (congregation_id, submitted_by_id, period_id, status, total_value, observations, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	err := executor.QueryRowContext(ctx, query,
		order.CongregationID, order.SubmittedByID, order.PeriodID, order.Status, order.TotalValue, order.Observations,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating order")
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`
	if err := r.db.QueryRowContext(ctx, query, orderID).Scan(scanOrderInto(order)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT ` + orderColumns + `,
            c.name AS congregation_name, c.area_id,
            p.code AS period_code, p.name AS period_name,
            COUNT(*) OVER() AS total_count
        FROM orders o
        JOIN congregations c ON o.congregation_id = c.id
        JOIN periods p ON o.period_id = p.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.PeriodID != nil {
		conditions = append(conditions, fmt.Sprintf("o.period_id = $%d", argCounter))
		args = append(args, *filters.PeriodID)
		argCounter++
	}
	if filters.CongregationID != nil {
		conditions = append(conditions, fmt.Sprintf("o.congregation_id = $%d", argCounter))
		args = append(args, *filters.CongregationID)
		argCounter++
	}
	if filters.SubmittedByID != nil {
		conditions = append(conditions, fmt.Sprintf("o.submitted_by_id = $%d", argCounter))
		args = append(args, *filters.SubmittedByID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC")

	limit, offset := pageOffset(filters.Page, filters.PageSize)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var congregation models.Congregation
		var period models.Period

		dest := append(scanOrderInto(&o),
			&congregation.Name, &congregation.AreaID,
			&period.Code, &period.Name,
			&totalCount,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		congregation.ID = o.CongregationID
		period.ID = o.PeriodID
		o.Congregation = &congregation
		o.Period = &period
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

// UpdateOrderContents stores the editable parts of an order: total and observations.
func (r *orderRepository) UpdateOrderContents(ctx context.Context, executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders SET total_value = $1, observations = $2, updated_at = $3 WHERE id = $4`
	order.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query, order.TotalValue, order.Observations, order.UpdatedAt, order.ID)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating order ID %d", order.ID))
	}
	return expectAffected(result, fmt.Sprintf("order update ID %d", order.ID))
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, change StatusChange) error {
	query := `UPDATE orders
	          SET status = $1,
	              approved_by_id = COALESCE($2, approved_by_id),
	              approved_at = COALESCE($3, approved_at),
	              delivered_at = COALESCE($4, delivered_at),
	              updated_at = $5
	          WHERE id = $6`
	result, err := executor.ExecContext(ctx, query,
		change.Status, change.ApprovedByID, change.ApprovedAt, change.DeliveredAt, change.UpdatedAt, orderID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating order status for ID %d", orderID))
	}
	return expectAffected(result, fmt.Sprintf("order status update ID %d", orderID))
}

func (r *orderRepository) DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting order ID %d", orderID))
	}
	return expectAffected(result, fmt.Sprintf("deleting order ID %d", orderID))
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, magazine_id, combination_id, quantity, unit_price, total_value, variant_data, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := executor.QueryRowContext(ctx, query,
		item.OrderID, item.MagazineID, item.CombinationID, item.Quantity, item.UnitPrice, item.TotalValue,
		item.VariantData, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating order item for order ID %d", item.OrderID))
	}
	return item.ID, nil
}

// itemSelect joins the magazine and, when still linked, the live combination.
const itemSelect = `
	SELECT oi.id, oi.order_id, oi.magazine_id, oi.combination_id, oi.quantity, oi.unit_price,
	       oi.total_value, oi.variant_data, oi.created_at,
	       m.code, m.name, m.class_name, m.age_range,
	       vc.id, vc.name, vc.code, vc.price, vc.active
	FROM order_items oi
	JOIN magazines m ON oi.magazine_id = m.id
	LEFT JOIN variant_combinations vc ON oi.combination_id = vc.id`

// itemScan collects the nullable join columns of one itemSelect row.
type itemScan struct {
	item        models.OrderItem
	magazine    models.Magazine
	variantData models.VariantSnapshot
	hasVariant  sql.NullString
	comboID     sql.NullInt64
	comboName   sql.NullString
	comboCode   sql.NullString
	comboPrice  decimal.NullDecimal
	comboActive sql.NullBool
}

func (s *itemScan) dest() []interface{} {
	return []interface{}{
		&s.item.ID, &s.item.OrderID, &s.item.MagazineID, &s.item.CombinationID, &s.item.Quantity, &s.item.UnitPrice,
		&s.item.TotalValue, &s.hasVariant, &s.item.CreatedAt,
		&s.magazine.Code, &s.magazine.Name, &s.magazine.ClassName, &s.magazine.AgeRange,
		&s.comboID, &s.comboName, &s.comboCode, &s.comboPrice, &s.comboActive,
	}
}

func (s *itemScan) build() (models.OrderItem, error) {
	item := s.item
	s.magazine.ID = item.MagazineID
	magazine := s.magazine
	item.Magazine = &magazine

	if s.hasVariant.Valid {
		var snap models.VariantSnapshot
		if err := snap.Scan(s.hasVariant.String); err != nil {
			return item, err
		}
		item.VariantData = &snap
	}
	if s.comboID.Valid {
		item.VariantCombination = &models.VariantCombination{
			ID:         s.comboID.Int64,
			MagazineID: item.MagazineID,
			Name:       s.comboName.String,
			Code:       s.comboCode.String,
			Price:      s.comboPrice.Decimal,
			Active:     s.comboActive.Bool,
		}
	}
	return item, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var s itemScan
		if err := rows.Scan(s.dest()...); err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		item, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("%w: decoding variant data of item %d: %v", ErrDatabaseError, s.item.ID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	result, err := executor.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}
