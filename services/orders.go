package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"
	"diner-pos-server/utils"

	"github.com/shopspring/decimal"
)

// orderNumberRetries is how many times a colliding order number is regenerated.
const orderNumberRetries = 3

const orderNumberConstraint = "orders_order_number_key"

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetActiveOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, p store.UpdateOrderStatusParams) (*models.Order, error)
}

type OrderService struct {
	store         OrderStore
	events        Publisher
	taxRate       decimal.Decimal
	pointsPerUnit decimal.Decimal
	now           func() time.Time
}

func NewOrderService(s OrderStore, events Publisher, taxRate, pointsPerUnit decimal.Decimal) *OrderService {
	return &OrderService{
		store:         s,
		events:        events,
		taxRate:       taxRate,
		pointsPerUnit: pointsPerUnit,
		now:           time.Now,
	}
}

type OrderLineInput struct {
	MenuItemID *int64           `json:"menuItemId"`
	ComboID    *int64           `json:"comboId"`
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	Modifiers  models.Modifiers `json:"modifiers"`
	Notes      *string          `json:"notes"`
}

type CreateOrderInput struct {
	OrderType  string           `json:"orderType"`
	CustomerID *int64           `json:"customerId"`
	TableID    *int64           `json:"tableId"`
	Items      []OrderLineInput `json:"items"`
	Discount   decimal.Decimal  `json:"discount"`
	Notes      *string          `json:"notes"`
	EmployeeID *int64           `json:"-"`
}

func (in CreateOrderInput) validate() error {
	if !models.ValidOrderType(in.OrderType) {
		return apperrors.Validation("orderType", "must be one of dine_in, takeout, delivery")
	}
	if len(in.Items) == 0 {
		return apperrors.Validation("items", "order must contain at least one item")
	}
	for i, line := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.Quantity < 1 {
			return apperrors.Validation(field+".quantity", "must be at least 1")
		}
		if (line.MenuItemID == nil) == (line.ComboID == nil) {
			return apperrors.Validation(field, "exactly one of menuItemId or comboId is required")
		}
		if line.Price.IsNegative() {
			return apperrors.Validation(field+".price", "must not be negative")
		}
	}
	return nil
}

// Create validates and prices the order, then stores it with its lines. The
// order number is regenerated when it collides with an existing one.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(in.Items))
	for i, line := range in.Items {
		items[i] = models.OrderItem{
			MenuItemID: line.MenuItemID,
			ComboID:    line.ComboID,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Modifiers:  line.Modifiers,
			Notes:      line.Notes,
			Status:     "pending",
		}
	}

	totals, err := CalculateTotals(items, s.taxRate, in.Discount)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID: in.CustomerID,
		EmployeeID: in.EmployeeID,
		TableID:    in.TableID,
		OrderType:  in.OrderType,
		Status:     models.OrderPending,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Discount:   totals.Discount,
		Total:      totals.Total,
		Notes:      in.Notes,
		Items:      items,
	}

	for attempt := 0; ; attempt++ {
		order.OrderNumber = utils.GenerateOrderNumber(s.now())
		err = s.store.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if attempt < orderNumberRetries && isOrderNumberConflict(err) {
			log.Printf("order number %s already taken, retrying", order.OrderNumber)
			continue
		}
		return nil, err
	}

	publish(ctx, s.events, EventOrderCreated, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"order_type":   order.OrderType,
		"table_id":     order.TableID,
		"total":        order.Total,
		"item_count":   len(order.Items),
	})
	return order, nil
}

func isOrderNumberConflict(err error) bool {
	var conflict *apperrors.ConflictError
	return errors.As(err, &conflict) && conflict.Constraint == orderNumberConstraint
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, orderID)
}

func (s *OrderService) Active(ctx context.Context) ([]models.Order, error) {
	return s.store.GetActiveOrders(ctx)
}

// UpdateStatus moves an order along its workflow.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, apperrors.Validation("status", "unknown order status "+status)
	}

	order, err := s.store.UpdateOrderStatus(ctx, store.UpdateOrderStatusParams{
		OrderID:              orderID,
		Status:               next,
		LoyaltyPointsPerUnit: s.pointsPerUnit,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventOrderStatusChanged, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
	return order, nil
}
