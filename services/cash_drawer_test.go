package services

import (
	"context"
	"testing"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDrawerRejectsSecondOpen(t *testing.T) {
	st := newFakeDrawers()
	s := NewDrawerService(st, &recordingPublisher{}, &recordingAlerts{})
	ctx := context.Background()

	_, err := s.Open(ctx, 7, dec("200.00"))
	require.NoError(t, err)

	_, err = s.Open(ctx, 7, dec("100.00"))
	assert.True(t, apperrors.IsConflict(err))
	assert.Len(t, st.drawers, 1)

	open, err := s.GetOpen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "200", open.OpeningBalance.String())
}

func TestOpenDrawerValidation(t *testing.T) {
	s := NewDrawerService(newFakeDrawers(), nil, nil)

	_, err := s.Open(context.Background(), 7, dec("-0.01"))
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.Open(context.Background(), 0, dec("10"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetOpenDrawerNone(t *testing.T) {
	s := NewDrawerService(newFakeDrawers(), nil, nil)

	d, err := s.GetOpen(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestCloseDrawerVariance(t *testing.T) {
	st := newFakeDrawers()
	pub := &recordingPublisher{}
	alerts := &recordingAlerts{}
	s := NewDrawerService(st, pub, alerts)
	ctx := context.Background()

	d, err := s.Open(ctx, 7, dec("200.00"))
	require.NoError(t, err)

	closed, err := s.Close(ctx, CloseDrawerInput{
		DrawerID:       d.ID,
		EmployeeID:     7,
		ClosingBalance: dec("500.00"),
		ExpectedTotal:  dec("480.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DrawerReconciled, closed.Status)
	assert.Equal(t, "20.00", closed.Variance.Decimal.StringFixed(2))
	assert.Equal(t, []string{EventCashDrawerReconciled}, pub.keys())
	assert.Len(t, alerts.variance, 1)

	_, err = s.Close(ctx, CloseDrawerInput{DrawerID: d.ID, EmployeeID: 7, ClosingBalance: dec("1"), ExpectedTotal: dec("1")})
	assert.True(t, apperrors.IsConflict(err))
}

func TestDrawerScenarioBalances(t *testing.T) {
	st := newFakeDrawers()
	alerts := &recordingAlerts{}
	drawers := NewDrawerService(st, nil, alerts)
	orders := NewOrderService(&fakeOrders{}, nil, dec("0.08"), decimal.NewFromInt(1))
	ctx := context.Background()

	d, err := drawers.Open(ctx, 7, dec("200.00"))
	require.NoError(t, err)

	o, err := orders.Create(ctx, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "27.54", o.Total.StringFixed(2))

	expected := d.OpeningBalance.Add(o.Total)
	closed, err := drawers.Close(ctx, CloseDrawerInput{
		DrawerID:       d.ID,
		EmployeeID:     7,
		ClosingBalance: dec("227.54"),
		ExpectedTotal:  expected,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", closed.Variance.Decimal.StringFixed(2))
	assert.Empty(t, alerts.variance)
}

func TestCloseDrawerOwnedByAnotherEmployee(t *testing.T) {
	st := newFakeDrawers()
	s := NewDrawerService(st, nil, nil)
	ctx := context.Background()

	d, err := s.Open(ctx, 7, dec("50"))
	require.NoError(t, err)

	in := CloseDrawerInput{DrawerID: d.ID, EmployeeID: 8, ClosingBalance: dec("50"), ExpectedTotal: dec("50")}
	_, err = s.Close(ctx, in)
	assert.True(t, apperrors.IsNotFound(err))

	in.AnyDrawer = true
	_, err = s.Close(ctx, in)
	assert.NoError(t, err)
}
