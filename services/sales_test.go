package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSales keeps one row per date, like the sales_date unique key.
type fakeSales struct {
	daily    map[string]models.DailySales
	top      map[string][]models.TopItem
	summary  store.DaySummary
	ranked   []models.TopItem
	windows  [][2]time.Time
	failWith error
}

func newFakeSales() *fakeSales {
	return &fakeSales{daily: map[string]models.DailySales{}, top: map[string][]models.TopItem{}}
}

func (f *fakeSales) GetDailySales(_ context.Context, day time.Time) (*models.DailySales, error) {
	d, ok := f.daily[day.Format("2006-01-02")]
	if !ok {
		return nil, apperrors.NotFound("daily sales", nil)
	}
	return &d, nil
}

func (f *fakeSales) UpsertDailySales(_ context.Context, d *models.DailySales) (*models.DailySales, error) {
	out := *d
	if out.Source == "" {
		out.Source = models.SalesSourceManual
	}
	f.daily[d.SalesDate.Format("2006-01-02")] = out
	return &out, nil
}

// RefreshDailySales never replaces a manual row, like the conditional upsert.
func (f *fakeSales) RefreshDailySales(ctx context.Context, d *models.DailySales) (*models.DailySales, error) {
	if existing, ok := f.daily[d.SalesDate.Format("2006-01-02")]; ok && existing.Source != models.SalesSourceRollup {
		return &existing, nil
	}
	return f.UpsertDailySales(ctx, d)
}

func (f *fakeSales) RecordTopItem(_ context.Context, t *models.TopItem) (*models.TopItem, error) {
	key := t.SalesDate.Format("2006-01-02")
	row := *t
	row.Source = models.SalesSourceManual
	f.top[key] = append(f.top[key], row)
	return &row, nil
}

func (f *fakeSales) GetTopItems(_ context.Context, day time.Time, limit int) ([]models.TopItem, error) {
	items := f.top[day.Format("2006-01-02")]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeSales) SummarizeDay(_ context.Context, start, end time.Time) (*store.DaySummary, error) {
	f.windows = append(f.windows, [2]time.Time{start, end})
	if f.failWith != nil {
		return nil, f.failWith
	}
	sum := f.summary
	return &sum, nil
}

func (f *fakeSales) TopItemsForDay(context.Context, time.Time, time.Time, int) ([]models.TopItem, error) {
	return f.ranked, nil
}

func (f *fakeSales) ReplaceTopItems(_ context.Context, day time.Time, items []models.TopItem) error {
	key := day.Format("2006-01-02")
	kept := []models.TopItem{}
	for _, t := range f.top[key] {
		if t.Source != models.SalesSourceRollup {
			kept = append(kept, t)
		}
	}
	f.top[key] = append(kept, items...)
	return nil
}

func TestUpdateDailySalesReplaces(t *testing.T) {
	st := newFakeSales()
	s := NewSalesService(st, time.UTC)
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC)

	_, err := s.UpdateDaily(ctx, &models.DailySales{SalesDate: day, TotalOrders: 5, TotalRevenue: dec("100")})
	require.NoError(t, err)
	_, err = s.UpdateDaily(ctx, &models.DailySales{SalesDate: day, TotalOrders: 2, TotalRevenue: dec("40")})
	require.NoError(t, err)

	assert.Len(t, st.daily, 1)
	got, err := s.GetDaily(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, "40", got.TotalRevenue.String())
	assert.True(t, got.SalesDate.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateDailySalesRejectsNegatives(t *testing.T) {
	s := NewSalesService(newFakeSales(), time.UTC)

	_, err := s.UpdateDaily(context.Background(), &models.DailySales{SalesDate: time.Now(), CashSales: dec("-1")})
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.UpdateDaily(context.Background(), &models.DailySales{SalesDate: time.Now(), TotalOrders: -1})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetDailySalesMissingIsNil(t *testing.T) {
	s := NewSalesService(newFakeSales(), time.UTC)

	d, err := s.GetDaily(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestRecordTopItemNeedsOneReference(t *testing.T) {
	s := NewSalesService(newFakeSales(), time.UTC)
	ctx := context.Background()

	_, err := s.RecordTopItem(ctx, &models.TopItem{SalesDate: time.Now(), Quantity: 1})
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.RecordTopItem(ctx, &models.TopItem{SalesDate: time.Now(), MenuItemID: int64p(1), ComboID: int64p(2)})
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.RecordTopItem(ctx, &models.TopItem{SalesDate: time.Now(), ComboID: int64p(2), Quantity: 3, Revenue: dec("36")})
	assert.NoError(t, err)
}

func TestRollupUsesLocalDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	st := newFakeSales()
	st.summary = store.DaySummary{TotalOrders: 3, TotalRevenue: dec("60"), CashSales: dec("30"), CardSales: dec("30")}
	st.ranked = []models.TopItem{{MenuItemID: int64p(1), Quantity: 4}}
	s := NewSalesService(st, loc)

	// 02:00 UTC on the 10th is still the 9th in UTC-5
	instant := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	daily, err := s.Rollup(context.Background(), instant)
	require.NoError(t, err)

	require.Len(t, st.windows, 1)
	start, end := st.windows[0][0], st.windows[0][1]
	assert.True(t, start.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, loc)))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, 3, daily.TotalOrders)
	assert.Len(t, st.top["2024-03-09"], 1)
}

func TestParseDay(t *testing.T) {
	s := NewSalesService(newFakeSales(), time.UTC)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC) }

	d, err := s.ParseDay("")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.Format("2006-01-02"))

	d, err = s.ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = s.ParseDay("09/03/2024")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRollupPropagatesStoreErrors(t *testing.T) {
	st := newFakeSales()
	st.failWith = apperrors.Unavailable(errors.New("connection refused"))

	_, err := NewSalesService(st, time.UTC).Rollup(context.Background(), time.Now())
	assert.True(t, apperrors.IsStoreUnavailable(err))
	assert.Empty(t, st.daily)
}

func TestRefreshKeepsCallerWrittenSales(t *testing.T) {
	st := newFakeSales()
	st.ranked = []models.TopItem{{MenuItemID: int64p(1), Quantity: 4, Source: models.SalesSourceRollup}}
	s := NewSalesService(st, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := s.UpdateDaily(ctx, &models.DailySales{SalesDate: s.Today(), TotalOrders: 42, TotalRevenue: dec("999")})
	require.NoError(t, err)
	_, err = s.RecordTopItem(ctx, &models.TopItem{SalesDate: s.Today(), MenuItemID: int64p(5), Quantity: 7, Revenue: dec("70")})
	require.NoError(t, err)

	// the job is off unless an interval is configured
	require.NoError(t, NewRollupScheduler(s, 0).Run(ctx))
	NewRollupScheduler(s, time.Minute).runOnce(ctx)

	got, err := s.GetDaily(ctx, s.Today())
	require.NoError(t, err)
	assert.Equal(t, 42, got.TotalOrders)
	assert.Equal(t, "999", got.TotalRevenue.String())
	assert.Equal(t, models.SalesSourceManual, got.Source)

	top, err := s.TopItems(ctx, s.Today(), 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(5), *top[0].MenuItemID)
}

func TestRefreshRecomputesRolledUpDays(t *testing.T) {
	st := newFakeSales()
	st.summary = store.DaySummary{TotalOrders: 3, TotalRevenue: dec("60")}
	st.ranked = []models.TopItem{{MenuItemID: int64p(1), Quantity: 4, Source: models.SalesSourceRollup}}
	s := NewSalesService(st, time.UTC)
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := s.Refresh(ctx, day)
	require.NoError(t, err)
	st.summary.TotalOrders = 4
	daily, err := s.Refresh(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, 4, daily.TotalOrders)
	assert.Len(t, st.top["2024-03-09"], 1)
}

func TestExplicitRollupOverwritesTotalsButKeepsRecordedItems(t *testing.T) {
	st := newFakeSales()
	st.summary = store.DaySummary{TotalOrders: 3, TotalRevenue: dec("60")}
	st.ranked = []models.TopItem{{MenuItemID: int64p(1), Quantity: 4, Source: models.SalesSourceRollup}}
	s := NewSalesService(st, time.UTC)
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := s.UpdateDaily(ctx, &models.DailySales{SalesDate: day, TotalOrders: 42})
	require.NoError(t, err)
	_, err = s.RecordTopItem(ctx, &models.TopItem{SalesDate: day, ComboID: int64p(2), Quantity: 1})
	require.NoError(t, err)

	daily, err := s.Rollup(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 3, daily.TotalOrders)
	assert.Equal(t, models.SalesSourceRollup, daily.Source)
	assert.Len(t, st.top["2024-03-09"], 2)
}
