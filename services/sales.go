package services

import (
	"context"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/shopspring/decimal"
)

const (
	topItemsRollupLimit = 10
	maxTopItemsLimit    = 100
)

type SalesStore interface {
	GetDailySales(ctx context.Context, day time.Time) (*models.DailySales, error)
	UpsertDailySales(ctx context.Context, d *models.DailySales) (*models.DailySales, error)
	RefreshDailySales(ctx context.Context, d *models.DailySales) (*models.DailySales, error)
	RecordTopItem(ctx context.Context, t *models.TopItem) (*models.TopItem, error)
	GetTopItems(ctx context.Context, day time.Time, limit int) ([]models.TopItem, error)
	SummarizeDay(ctx context.Context, start, end time.Time) (*store.DaySummary, error)
	TopItemsForDay(ctx context.Context, start, end time.Time, limit int) ([]models.TopItem, error)
	ReplaceTopItems(ctx context.Context, day time.Time, items []models.TopItem) error
}

// SalesService owns the per-day sales figures. Calendar days are taken in
// the configured location.
type SalesService struct {
	store SalesStore
	loc   *time.Location
	now   func() time.Time
}

func NewSalesService(s SalesStore, loc *time.Location) *SalesService {
	if loc == nil {
		loc = time.Local
	}
	return &SalesService{store: s, loc: loc, now: time.Now}
}

// ParseDay reads a YYYY-MM-DD date in the service location. An empty string
// means today.
func (s *SalesService) ParseDay(value string) (time.Time, error) {
	if value == "" {
		start, _ := models.DayBounds(s.now(), s.loc)
		return start, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, apperrors.Validation("date", "must be formatted as YYYY-MM-DD")
	}
	return day, nil
}

// GetDaily returns the stored totals for a day, or nil when none exist.
func (s *SalesService) GetDaily(ctx context.Context, day time.Time) (*models.DailySales, error) {
	start, _ := models.DayBounds(day, s.loc)
	d, err := s.store.GetDailySales(ctx, start)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return d, err
}

// UpdateDaily replaces the day's totals with d. Callers pass already summed
// figures.
func (s *SalesService) UpdateDaily(ctx context.Context, d *models.DailySales) (*models.DailySales, error) {
	if d.TotalOrders < 0 {
		return nil, apperrors.Validation("totalOrders", "must not be negative")
	}
	money := map[string]decimal.Decimal{
		"totalRevenue":        d.TotalRevenue,
		"totalTax":            d.TotalTax,
		"totalDiscount":       d.TotalDiscount,
		"cashSales":           d.CashSales,
		"cardSales":           d.CardSales,
		"loyaltyPointsIssued": d.LoyaltyPointsIssued,
	}
	for field, v := range money {
		if v.IsNegative() {
			return nil, apperrors.Validation(field, "must not be negative")
		}
	}

	row := *d
	row.SalesDate, _ = models.DayBounds(d.SalesDate, s.loc)
	row.Source = models.SalesSourceManual
	return s.store.UpsertDailySales(ctx, &row)
}

func (s *SalesService) RecordTopItem(ctx context.Context, t *models.TopItem) (*models.TopItem, error) {
	if (t.MenuItemID == nil) == (t.ComboID == nil) {
		return nil, apperrors.Validation("menuItemId", "exactly one of menuItemId or comboId is required")
	}
	if t.Quantity < 0 {
		return nil, apperrors.Validation("quantity", "must not be negative")
	}
	if t.Revenue.IsNegative() {
		return nil, apperrors.Validation("revenue", "must not be negative")
	}

	row := *t
	row.SalesDate, _ = models.DayBounds(t.SalesDate, s.loc)
	return s.store.RecordTopItem(ctx, &row)
}

func (s *SalesService) TopItems(ctx context.Context, day time.Time, limit int) ([]models.TopItem, error) {
	if limit <= 0 {
		limit = topItemsRollupLimit
	}
	if limit > maxTopItemsLimit {
		limit = maxTopItemsLimit
	}
	start, _ := models.DayBounds(day, s.loc)
	return s.store.GetTopItems(ctx, start, limit)
}

// Rollup recomputes a day's totals and top items from orders and payments
// and stores them with replace semantics, overwriting totals a caller wrote.
// Top items recorded by callers are kept.
func (s *SalesService) Rollup(ctx context.Context, day time.Time) (*models.DailySales, error) {
	return s.rollup(ctx, day, true)
}

// Refresh is Rollup for the background job: a day whose totals were written
// through UpdateDaily is left untouched.
func (s *SalesService) Refresh(ctx context.Context, day time.Time) (*models.DailySales, error) {
	return s.rollup(ctx, day, false)
}

func (s *SalesService) rollup(ctx context.Context, day time.Time, overwrite bool) (*models.DailySales, error) {
	start, end := models.DayBounds(day, s.loc)

	sum, err := s.store.SummarizeDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	row := &models.DailySales{
		SalesDate:           start,
		TotalOrders:         sum.TotalOrders,
		TotalRevenue:        sum.TotalRevenue,
		TotalTax:            sum.TotalTax,
		TotalDiscount:       sum.TotalDiscount,
		CashSales:           sum.CashSales,
		CardSales:           sum.CardSales,
		LoyaltyPointsIssued: sum.LoyaltyPointsIssued,
		Source:              models.SalesSourceRollup,
	}
	var daily *models.DailySales
	if overwrite {
		daily, err = s.store.UpsertDailySales(ctx, row)
	} else {
		daily, err = s.store.RefreshDailySales(ctx, row)
	}
	if err != nil {
		return nil, err
	}
	if daily.Source != models.SalesSourceRollup {
		return daily, nil
	}

	items, err := s.store.TopItemsForDay(ctx, start, end, topItemsRollupLimit)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceTopItems(ctx, start, items); err != nil {
		return nil, err
	}
	return daily, nil
}

// Today is the start of the current calendar day.
func (s *SalesService) Today() time.Time {
	start, _ := models.DayBounds(s.now(), s.loc)
	return start
}
