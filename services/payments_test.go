package services

import (
	"context"
	"testing"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	orders   map[int64]*models.Order
	payments []*models.Payment
}

func (f *fakePayments) GetOrderByID(_ context.Context, orderID int64) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, apperrors.NotFound("order", orderID)
	}
	return o, nil
}

func (f *fakePayments) CreatePayment(_ context.Context, p *models.Payment) error {
	if _, ok := f.orders[p.OrderID]; !ok {
		return apperrors.NotFound("order", p.OrderID)
	}
	p.ID = int64(len(f.payments) + 1)
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakePayments) GetPaymentsByOrder(_ context.Context, orderID int64) ([]models.Payment, error) {
	out := []models.Payment{}
	for _, p := range f.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newFakePayments() *fakePayments {
	return &fakePayments{orders: map[int64]*models.Order{9: {ID: 9, Total: dec("27.54")}}}
}

func TestRecordSplitPayment(t *testing.T) {
	st := newFakePayments()
	pub := &recordingPublisher{}
	s := NewPaymentService(st, pub)

	p, err := s.Record(context.Background(), RecordPaymentInput{
		OrderID: 9,
		Method:  models.PaymentSplit,
		Amount:  dec("27.54"),
		Splits: []SplitInput{
			{Method: models.PaymentCash, Amount: dec("20.00")},
			{Method: models.PaymentDigitalWallet, Amount: dec("7.54")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", p.Status)
	require.Len(t, p.Splits, 2)
	assert.Equal(t, "completed", p.Splits[1].Status)
	assert.Equal(t, []string{EventPaymentRecorded}, pub.keys())

	list, err := s.ListByOrder(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordPaymentValidation(t *testing.T) {
	cases := map[string]RecordPaymentInput{
		"unknown method": {Method: "cheque", Amount: dec("1")},
		"zero amount":    {Method: models.PaymentCash, Amount: dec("0")},
		"single split":   {Method: models.PaymentSplit, Amount: dec("5"), Splits: []SplitInput{{Method: "cash", Amount: dec("5")}}},
		"nested split": {Method: models.PaymentSplit, Amount: dec("5"), Splits: []SplitInput{
			{Method: "split", Amount: dec("2")}, {Method: "cash", Amount: dec("3")}}},
		"split mismatch": {Method: models.PaymentSplit, Amount: dec("5"), Splits: []SplitInput{
			{Method: "cash", Amount: dec("2")}, {Method: "card", Amount: dec("2.99")}}},
		"lines on cash": {Method: models.PaymentCash, Amount: dec("5"), Splits: []SplitInput{{Method: "cash", Amount: dec("5")}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			st := newFakePayments()
			in.OrderID = 9
			_, err := NewPaymentService(st, nil).Record(context.Background(), in)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
			assert.Empty(t, st.payments)
		})
	}
}

func TestListPaymentsForMissingOrder(t *testing.T) {
	_, err := NewPaymentService(newFakePayments(), nil).ListByOrder(context.Background(), 404)
	assert.True(t, apperrors.IsNotFound(err))
}
