package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

// --- catalog ---

type fakeCatalog struct {
	magazines    map[int64]models.Magazine
	combinations map[int64]models.VariantCombination
	nextID       int64
	createErr    error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		magazines:    map[int64]models.Magazine{},
		combinations: map[int64]models.VariantCombination{},
		nextID:       100,
	}
}

func (f *fakeCatalog) addMagazine(m models.Magazine) { f.magazines[m.ID] = m }

func (f *fakeCatalog) addCombination(c models.VariantCombination) { f.combinations[c.ID] = c }

func (f *fakeCatalog) CreateMagazine(_ context.Context, _ repositories.SQLExecutor, m *models.Magazine) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	f.magazines[m.ID] = *m
	return m.ID, nil
}

func (f *fakeCatalog) GetMagazineByID(_ context.Context, id int64) (*models.Magazine, error) {
	m, ok := f.magazines[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (f *fakeCatalog) ListMagazines(_ context.Context, onlyActive bool) ([]models.Magazine, error) {
	var out []models.Magazine
	for _, m := range f.magazines {
		if onlyActive && !m.Active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) UpdateMagazine(_ context.Context, _ repositories.SQLExecutor, m *models.Magazine) error {
	if _, ok := f.magazines[m.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.magazines[m.ID] = *m
	return nil
}

func (f *fakeCatalog) DeleteMagazine(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := f.magazines[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.magazines, id)
	return nil
}

func (f *fakeCatalog) CreateCombination(_ context.Context, _ repositories.SQLExecutor, c *models.VariantCombination) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, existing := range f.combinations {
		if existing.MagazineID == c.MagazineID && existing.Code == c.Code {
			return 0, fmt.Errorf("%w: create combination", repositories.ErrDuplicateKey)
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.combinations[c.ID] = *c
	return c.ID, nil
}

func (f *fakeCatalog) GetCombinationByID(_ context.Context, id int64) (*models.VariantCombination, error) {
	c, ok := f.combinations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCatalog) ListCombinations(_ context.Context, magazineID int64) ([]models.VariantCombination, error) {
	var out []models.VariantCombination
	for _, c := range f.combinations {
		if c.MagazineID == magazineID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) UpdateCombination(_ context.Context, _ repositories.SQLExecutor, c *models.VariantCombination) error {
	if _, ok := f.combinations[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.combinations[c.ID] = *c
	return nil
}

func (f *fakeCatalog) DeleteCombination(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := f.combinations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.combinations, id)
	return nil
}

func (f *fakeCatalog) GetCombinationsByIDs(_ context.Context, ids []int64) (map[int64]models.VariantCombination, error) {
	out := make(map[int64]models.VariantCombination, len(ids))
	for _, id := range ids {
		if c, ok := f.combinations[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// --- periods ---

type fakePeriods struct {
	periods map[int64]models.Period
	nextID  int64
}

func newFakePeriods(periods ...models.Period) *fakePeriods {
	f := &fakePeriods{periods: map[int64]models.Period{}, nextID: 10}
	for _, p := range periods {
		f.periods[p.ID] = p
	}
	return f
}

func (f *fakePeriods) CreatePeriod(_ context.Context, _ repositories.SQLExecutor, p *models.Period) (int64, error) {
	for _, existing := range f.periods {
		if existing.Code == p.Code {
			return 0, fmt.Errorf("%w: create period", repositories.ErrDuplicateKey)
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.periods[p.ID] = *p
	return p.ID, nil
}

func (f *fakePeriods) GetPeriodByID(_ context.Context, id int64) (*models.Period, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakePeriods) ListPeriods(_ context.Context, onlyActive bool) ([]models.Period, error) {
	var out []models.Period
	for _, p := range f.periods {
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePeriods) UpdatePeriod(_ context.Context, _ repositories.SQLExecutor, p *models.Period) error {
	if _, ok := f.periods[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.periods[p.ID] = *p
	return nil
}

func (f *fakePeriods) DeletePeriod(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := f.periods[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.periods, id)
	return nil
}

// --- congregations ---

type fakeCongregations map[int64]models.Congregation

func (f fakeCongregations) GetCongregationByID(_ context.Context, id int64) (*models.Congregation, error) {
	c, ok := f[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

// --- orders ---

type fakeOrders struct {
	orders      map[int64]models.Order
	items       map[int64][]models.OrderItem
	nextOrderID int64
	nextItemID  int64
	failItem    bool
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[int64]models.Order{}, items: map[int64][]models.OrderItem{}}
}

func (f *fakeOrders) seed(order models.Order, items ...models.OrderItem) {
	f.orders[order.ID] = order
	for _, item := range items {
		item.OrderID = order.ID
		f.nextItemID++
		item.ID = f.nextItemID
		f.items[order.ID] = append(f.items[order.ID], item)
	}
	if order.ID > f.nextOrderID {
		f.nextOrderID = order.ID
	}
}

func (f *fakeOrders) CreateOrder(_ context.Context, _ repositories.SQLExecutor, o *models.Order) (int64, error) {
	f.nextOrderID++
	o.ID = f.nextOrderID
	stored := *o
	stored.Items = nil
	f.orders[o.ID] = stored
	return o.ID, nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) GetOrders(_ context.Context, filters models.OrderFilters) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filters.CongregationID != nil && o.CongregationID != *filters.CongregationID {
			continue
		}
		if filters.SubmittedByID != nil && o.SubmittedByID != *filters.SubmittedByID {
			continue
		}
		if filters.PeriodID != nil && o.PeriodID != *filters.PeriodID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeOrders) UpdateOrderContents(_ context.Context, _ repositories.SQLExecutor, o *models.Order) error {
	stored, ok := f.orders[o.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.TotalValue = o.TotalValue
	stored.Observations = o.Observations
	stored.UpdatedAt = o.UpdatedAt
	f.orders[o.ID] = stored
	return nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, _ repositories.SQLExecutor, id int64, change repositories.StatusChange) error {
	stored, ok := f.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Status = change.Status
	if change.ApprovedByID != nil {
		stored.ApprovedByID = change.ApprovedByID
	}
	if change.ApprovedAt != nil {
		stored.ApprovedAt = change.ApprovedAt
	}
	if change.DeliveredAt != nil {
		stored.DeliveredAt = change.DeliveredAt
	}
	stored.UpdatedAt = change.UpdatedAt
	f.orders[id] = stored
	return nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) CreateOrderItem(_ context.Context, _ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	if f.failItem {
		return 0, fmt.Errorf("%w: create order item", repositories.ErrDatabaseError)
	}
	f.nextItemID++
	item.ID = f.nextItemID
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return item.ID, nil
}

func (f *fakeOrders) GetOrderItemsByOrderID(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrders) DeleteOrderItemsByOrderID(_ context.Context, _ repositories.SQLExecutor, orderID int64) (int64, error) {
	n := int64(len(f.items[orderID]))
	delete(f.items, orderID)
	return n, nil
}

// --- reports ---

type fakeReports struct {
	orders []models.Order
}

func (f *fakeReports) GetPeriodOrders(_ context.Context, periodID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PeriodID == periodID {
			out = append(out, o)
		}
	}
	return out, nil
}

// --- transactions ---

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}
