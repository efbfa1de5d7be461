package services

import (
	"context"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/shopspring/decimal"
)

type InventoryStore interface {
	AdjustInventory(ctx context.Context, p store.AdjustInventoryParams) (*models.InventoryItem, error)
}

type InventoryService struct {
	store  InventoryStore
	events Publisher
	alerts ManagerAlerts
}

func NewInventoryService(s InventoryStore, events Publisher, alerts ManagerAlerts) *InventoryService {
	return &InventoryService{store: s, events: events, alerts: alerts}
}

type AdjustInput struct {
	InventoryID int64           `json:"-"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      *string         `json:"reason"`
	EmployeeID  *int64          `json:"-"`
}

// Adjust applies a stock movement and raises a low-stock alert when the item
// ends at or below its minimum level.
func (s *InventoryService) Adjust(ctx context.Context, in AdjustInput) (*models.InventoryItem, error) {
	delta, ok := models.SignedDelta(in.Type, in.Quantity)
	if !ok {
		return nil, apperrors.Validation("type", "must be one of usage, adjustment, restock, return, damage")
	}
	if delta.IsZero() {
		return nil, apperrors.Validation("quantity", "must not be zero")
	}

	item, err := s.store.AdjustInventory(ctx, store.AdjustInventoryParams{
		InventoryID: in.InventoryID,
		Type:        in.Type,
		Delta:       delta,
		Reason:      in.Reason,
		EmployeeID:  in.EmployeeID,
	})
	if err != nil {
		return nil, err
	}

	if item.IsLowStock() {
		publish(ctx, s.events, EventInventoryLowStock, map[string]interface{}{
			"inventory_id":  item.ID,
			"sku":           item.SKU,
			"quantity":      item.Quantity,
			"minimum_level": item.MinimumLevel,
		})
		if s.alerts != nil {
			s.alerts.SendLowStockAlert(ctx, item)
		}
	}
	return item, nil
}
