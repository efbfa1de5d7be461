package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func newOrderService(st *fakeOrders, pub *recordingPublisher) *OrderService {
	s := NewOrderService(st, pub, dec("0.08"), decimal.NewFromInt(1))
	s.now = func() time.Time { return time.UnixMilli(1710000000000) }
	return s
}

func sampleInput() CreateOrderInput {
	return CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		TableID:   int64p(4),
		Items: []OrderLineInput{
			{MenuItemID: int64p(1), Quantity: 2, Price: dec("10.00")},
			{MenuItemID: int64p(2), Quantity: 1, Price: dec("5.50")},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	st := &fakeOrders{}
	pub := &recordingPublisher{}
	s := newOrderService(st, pub)

	o, err := s.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Regexp(t, `^ORD-1710000000000-[0-9a-f]{4}$`, o.OrderNumber)
	assert.Equal(t, "25.50", o.Subtotal.StringFixed(2))
	assert.Equal(t, "2.04", o.Tax.StringFixed(2))
	assert.Equal(t, "0.00", o.Discount.StringFixed(2))
	assert.Equal(t, "27.54", o.Total.StringFixed(2))
	require.Len(t, o.Items, 2)
	assert.Equal(t, "pending", o.Items[0].Status)
	assert.Equal(t, []string{EventOrderCreated}, pub.keys())
}

func TestCreateOrderValidation(t *testing.T) {
	cases := map[string]func(in *CreateOrderInput){
		"no items":       func(in *CreateOrderInput) { in.Items = nil },
		"zero quantity":  func(in *CreateOrderInput) { in.Items[0].Quantity = 0 },
		"no reference":   func(in *CreateOrderInput) { in.Items[1].MenuItemID = nil },
		"two references": func(in *CreateOrderInput) { in.Items[1].ComboID = int64p(3) },
		"negative price": func(in *CreateOrderInput) { in.Items[0].Price = dec("-1") },
		"bad order type": func(in *CreateOrderInput) { in.OrderType = "drive_thru" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			st := &fakeOrders{}
			pub := &recordingPublisher{}
			in := sampleInput()
			mutate(&in)

			_, err := newOrderService(st, pub).Create(context.Background(), in)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
			assert.Empty(t, st.created)
			assert.Empty(t, pub.keys())
		})
	}
}

func TestCreateOrderRetriesOrderNumberConflicts(t *testing.T) {
	dup := &apperrors.ConflictError{Message: "order number already exists", Constraint: orderNumberConstraint}
	st := &fakeOrders{failCreate: []error{dup, dup}}
	s := newOrderService(st, &recordingPublisher{})

	o, err := s.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
	assert.Len(t, st.created, 1)
}

func TestCreateOrderGivesUpAfterRetries(t *testing.T) {
	dup := &apperrors.ConflictError{Message: "order number already exists", Constraint: orderNumberConstraint}
	st := &fakeOrders{failCreate: []error{dup, dup, dup, dup}}

	_, err := newOrderService(st, &recordingPublisher{}).Create(context.Background(), sampleInput())
	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, st.created)
}

func TestCreateOrderMissingCustomerIsNotRetried(t *testing.T) {
	st := &fakeOrders{failCreate: []error{apperrors.NotFound("customer", nil)}}
	in := sampleInput()
	in.CustomerID = int64p(99)

	_, err := newOrderService(st, &recordingPublisher{}).Create(context.Background(), in)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	st := &fakeOrders{}
	pub := &recordingPublisher{err: errors.New("broker down")}

	_, err := newOrderService(st, pub).Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Len(t, st.created, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	st := &fakeOrders{updated: &models.Order{ID: 9, OrderNumber: "ORD-1", Status: models.OrderCompleted}}
	pub := &recordingPublisher{}
	s := newOrderService(st, pub)

	o, err := s.UpdateStatus(context.Background(), 9, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, o.Status)
	assert.Equal(t, int64(9), st.statusUpdate.OrderID)
	assert.True(t, st.statusUpdate.LoyaltyPointsPerUnit.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, []string{EventOrderStatusChanged}, pub.keys())

	_, err = s.UpdateStatus(context.Background(), 9, "shipped")
	assert.True(t, apperrors.IsValidation(err))
}
