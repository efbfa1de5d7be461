package services

import (
	"context"
	"sync"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/shopspring/decimal"
)

type publishedEvent struct {
	key  string
	data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, data: data})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.key
	}
	return keys
}

type recordingAlerts struct {
	variance []*models.CashDrawer
	lowStock []*models.InventoryItem
}

func (a *recordingAlerts) SendVarianceAlert(_ context.Context, d *models.CashDrawer) {
	a.variance = append(a.variance, d)
}

func (a *recordingAlerts) SendLowStockAlert(_ context.Context, item *models.InventoryItem) {
	a.lowStock = append(a.lowStock, item)
}

// fakeOrders keeps orders in memory and can fail the first inserts.
type fakeOrders struct {
	created      []*models.Order
	failCreate   []error
	statusUpdate store.UpdateOrderStatusParams
	updated      *models.Order
	updateErr    error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *models.Order) error {
	if len(f.failCreate) > 0 {
		err := f.failCreate[0]
		f.failCreate = f.failCreate[1:]
		return err
	}
	o.ID = int64(len(f.created) + 1)
	for i := range o.Items {
		o.Items[i].ID = int64(i + 1)
		o.Items[i].OrderID = o.ID
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, orderID int64) (*models.Order, error) {
	for _, o := range f.created {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, apperrors.NotFound("order", orderID)
}

func (f *fakeOrders) GetActiveOrders(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.created {
		if !o.Status.Terminal() {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, p store.UpdateOrderStatusParams) (*models.Order, error) {
	f.statusUpdate = p
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

type fakeDrawers struct {
	drawers map[int64]*models.CashDrawer
	closed  []store.CloseCashDrawerParams
	nextID  int64
}

func newFakeDrawers() *fakeDrawers {
	return &fakeDrawers{drawers: map[int64]*models.CashDrawer{}}
}

func (f *fakeDrawers) OpenCashDrawer(_ context.Context, employeeID int64, opening decimal.Decimal) (*models.CashDrawer, error) {
	f.nextID++
	d := &models.CashDrawer{ID: f.nextID, EmployeeID: employeeID, OpeningBalance: opening, Status: models.DrawerOpen}
	f.drawers[d.ID] = d
	return d, nil
}

func (f *fakeDrawers) GetOpenCashDrawer(_ context.Context, employeeID int64) (*models.CashDrawer, error) {
	for _, d := range f.drawers {
		if d.EmployeeID == employeeID && d.Status == models.DrawerOpen {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("open cash drawer", nil)
}

func (f *fakeDrawers) GetCashDrawer(_ context.Context, drawerID int64) (*models.CashDrawer, error) {
	d, ok := f.drawers[drawerID]
	if !ok {
		return nil, apperrors.NotFound("cash drawer", drawerID)
	}
	return d, nil
}

func (f *fakeDrawers) CloseCashDrawer(_ context.Context, p store.CloseCashDrawerParams) (*models.CashDrawer, error) {
	f.closed = append(f.closed, p)
	d := f.drawers[p.DrawerID]
	d.Status = models.DrawerReconciled
	d.ClosingBalance = decimal.NewNullDecimal(p.ClosingBalance)
	d.ExpectedTotal = decimal.NewNullDecimal(p.ExpectedTotal)
	d.Variance = decimal.NewNullDecimal(p.Variance)
	closedAt := time.Now()
	d.ClosedAt = &closedAt
	return d, nil
}
