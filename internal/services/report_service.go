package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
	"revistas_backend/pkg/utils"
)

const (
	noVariantKey       = "no-variant"
	defaultVariantCode = "-"
	defaultVariantName = "Sem variação"
)

type periodReader interface {
	GetPeriodByID(ctx context.Context, id int64) (*models.Period, error)
}

type combinationBatchReader interface {
	GetCombinationsByIDs(ctx context.Context, ids []int64) (map[int64]models.VariantCombination, error)
}

// ReportService builds the consolidated per-period order report.
type ReportService interface {
	PeriodReport(ctx context.Context, periodID int64) (*models.PeriodReport, error)
}

type reportService struct {
	periods      periodReader
	reports      repositories.ReportRepository
	combinations combinationBatchReader
}

func NewReportService(periods periodReader, reports repositories.ReportRepository, combinations combinationBatchReader) ReportService {
	return &reportService{periods: periods, reports: reports, combinations: combinations}
}

func (s *reportService) PeriodReport(ctx context.Context, periodID int64) (*models.PeriodReport, error) {
	period, err := s.periods.GetPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w (id %d)", ErrPeriodNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to load period %d: %w", periodID, err)
	}

	orders, err := s.reports.GetPeriodOrders(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for period %d: %w", periodID, err)
	}

	fallback, err := s.combinations.GetCombinationsByIDs(ctx, snapshotOnlyCombinationIDs(orders))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot combinations: %w", err)
	}

	rows := AggregateOrders(period, orders, fallback)
	report := &models.PeriodReport{
		Period:     period.Name,
		PeriodCode: period.Code,
		Rows:       rows,
		Totals:     models.ReportTotals{TotalValue: decimal.Zero},
	}
	for _, row := range rows {
		report.Totals.Quantity += row.Quantity
		report.Totals.TotalValue = report.Totals.TotalValue.Add(row.TotalValue)
	}
	utils.LogDebug("period report built", map[string]interface{}{
		"period_id": periodID,
		"orders":    len(orders),
		"rows":      len(rows),
	})
	return report, nil
}

// snapshotOnlyCombinationIDs collects combination ids that survive only in item
// snapshots, so they can be fetched in one query.
func snapshotOnlyCombinationIDs(orders []models.Order) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if item.CombinationID != nil || item.VariantData == nil || item.VariantData.CombinationID == nil {
				continue
			}
			id := *item.VariantData.CombinationID
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// AggregateOrders merges order items into report rows keyed by congregation,
// magazine and variant. Rows keep the order in which their key first appears;
// unit price, status and period come from the first item of each row.
func AggregateOrders(period *models.Period, orders []models.Order, fallback map[int64]models.VariantCombination) []models.ReportRow {
	rows := make(map[string]*models.ReportRow)
	keys := make([]string, 0)

	for _, order := range orders {
		for i := range order.Items {
			item := &order.Items[i]
			fb := fallbackCombination(item, fallback)
			key := fmt.Sprintf("%d-%d-%s", order.CongregationID, item.MagazineID, variantKey(item, fb))

			if row, ok := rows[key]; ok {
				row.Quantity += item.Quantity
				row.TotalValue = row.TotalValue.Add(item.TotalValue)
				continue
			}
			rows[key] = newReportRow(period, &order, item, fb)
			keys = append(keys, key)
		}
	}

	result := make([]models.ReportRow, 0, len(keys))
	for _, key := range keys {
		result = append(result, *rows[key])
	}
	return result
}

func fallbackCombination(item *models.OrderItem, fallback map[int64]models.VariantCombination) *models.VariantCombination {
	if item.CombinationID != nil || item.VariantData == nil || item.VariantData.CombinationID == nil {
		return nil
	}
	if c, ok := fallback[*item.VariantData.CombinationID]; ok {
		return &c
	}
	return nil
}

// variantKey picks the first non-empty identity in priority order and falls
// back to noVariantKey.
func variantKey(item *models.OrderItem, fb *models.VariantCombination) string {
	related := item.VariantCombination
	snapshot := item.VariantData
	switch {
	case item.CombinationID != nil:
		return utils.Int64ToStr(*item.CombinationID)
	case related != nil && related.ID != 0:
		return utils.Int64ToStr(related.ID)
	case fb != nil && fb.ID != 0:
		return utils.Int64ToStr(fb.ID)
	case related != nil && related.Code != "":
		return related.Code
	case snapshot != nil && snapshot.CombinationID != nil:
		return utils.Int64ToStr(*snapshot.CombinationID)
	case snapshot != nil && snapshot.CombinationCode != nil && *snapshot.CombinationCode != "":
		return *snapshot.CombinationCode
	}
	return noVariantKey
}

func newReportRow(period *models.Period, order *models.Order, item *models.OrderItem, fb *models.VariantCombination) *models.ReportRow {
	row := &models.ReportRow{
		CongregationID: order.CongregationID,
		Period:         period.Name,
		Status:         order.Status,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		TotalValue:     item.TotalValue,
	}
	if c := order.Congregation; c != nil {
		row.CongregationName = c.Name
		if c.Area != nil {
			row.Area = c.Area.Name
		}
	}
	if m := item.Magazine; m != nil {
		row.MagazineCode = m.Code
		row.MagazineName = m.Name
		row.ClassName = derefOr(m.ClassName, "")
		row.AgeRange = derefOr(m.AgeRange, "")
	}

	var codes, names []*string
	if c := item.VariantCombination; c != nil {
		codes = append(codes, &c.Code)
		names = append(names, &c.Name)
	}
	if fb != nil {
		codes = append(codes, &fb.Code)
		names = append(names, &fb.Name)
	}
	if s := item.VariantData; s != nil {
		codes = append(codes, s.CombinationCode)
		names = append(names, s.CombinationName)
	}
	if code, ok := utils.FirstNonEmpty(codes...); ok {
		row.VariantCode = code
	} else {
		row.VariantCode = defaultVariantCode
	}
	if name, ok := utils.FirstNonEmpty(names...); ok {
		row.VariantName = name
	} else {
		row.VariantName = defaultVariantName
	}
	return row
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
