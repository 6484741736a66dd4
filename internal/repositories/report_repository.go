package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"revistas_backend/internal/models"
)

// ReportRepository loads the nested order graph the period report is built from.
type ReportRepository interface {
	// GetPeriodOrders returns every order of the period with congregation (+area) and
	// items (+magazine, +live combination), ordered by creation time then item id.
	GetPeriodOrders(ctx context.Context, periodID int64) ([]models.Order, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetPeriodOrders(ctx context.Context, periodID int64) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `,
		       c.name, c.area_id, a.name,
		       oi.id, oi.order_id, oi.magazine_id, oi.combination_id, oi.quantity, oi.unit_price,
		       oi.total_value, oi.variant_data, oi.created_at,
		       m.code, m.name, m.class_name, m.age_range,
		       vc.id, vc.name, vc.code, vc.price, vc.active
		FROM orders o
		JOIN congregations c ON o.congregation_id = c.id
		JOIN areas a ON c.area_id = a.id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN magazines m ON oi.magazine_id = m.id
		LEFT JOIN variant_combinations vc ON oi.combination_id = vc.id
		WHERE o.period_id = $1
		ORDER BY o.created_at, o.id, oi.id`

	rows, err := r.db.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders for period ID %d: %v", ErrDatabaseError, periodID, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int64]int{}
	for rows.Next() {
		var o models.Order
		var congregation models.Congregation
		var area models.Area
		var s itemScan

		dest := append(scanOrderInto(&o), &congregation.Name, &congregation.AreaID, &area.Name)
		dest = append(dest, s.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scanning report row: %v", ErrDatabaseError, err)
		}
		item, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("%w: decoding variant data of item %d: %v", ErrDatabaseError, s.item.ID, err)
		}

		pos, seen := index[o.ID]
		if !seen {
			area.ID = congregation.AreaID
			congregation.ID = o.CongregationID
			congregation.Area = &area
			o.Congregation = &congregation
			o.Items = []models.OrderItem{}
			orders = append(orders, o)
			pos = len(orders) - 1
			index[o.ID] = pos
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating report rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}
