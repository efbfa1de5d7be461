package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"diner-pos-server/models"
)

const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoPushMessage represents a push notification message
type ExpoPushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
	Badge int                    `json:"badge,omitempty"`
}

// ExpoPushResponse represents the response from Expo push service
type ExpoPushResponse struct {
	Data []struct {
		Status string `json:"status"`
		ID     string `json:"id"`
		Error  string `json:"message,omitempty"`
	} `json:"data"`
}

// ManagerTokenSource lists the push tokens of the staff who get alerts.
type ManagerTokenSource interface {
	GetManagerPushTokens(ctx context.Context) ([]string, error)
}

// NotificationService sends Expo push alerts to managers.
type NotificationService struct {
	ExpoPushURL string
	tokens      ManagerTokenSource
	client      *http.Client
}

func NewNotificationService(pushURL string, tokens ManagerTokenSource) *NotificationService {
	if pushURL == "" {
		pushURL = DefaultExpoPushURL
	}
	return &NotificationService{
		ExpoPushURL: pushURL,
		tokens:      tokens,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// SendPushNotification sends a push notification to one device
func (ns *NotificationService) SendPushNotification(ctx context.Context, pushToken, title, body string, data map[string]interface{}) error {
	if pushToken == "" {
		return fmt.Errorf("push token is empty")
	}

	message := ExpoPushMessage{
		To:    pushToken,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
		Badge: 1,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.ExpoPushURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := ns.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push notification failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	var pushResponse ExpoPushResponse
	if err := json.Unmarshal(responseBody, &pushResponse); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, result := range pushResponse.Data {
		if result.Status == "error" {
			return fmt.Errorf("push notification failed: %s", result.Error)
		}
	}

	return nil
}

// notifyManagers fans one alert out to every manager device. Failures are
// logged per device.
func (ns *NotificationService) notifyManagers(ctx context.Context, title, body string, data map[string]interface{}) {
	if ns == nil || ns.tokens == nil {
		return
	}
	tokens, err := ns.tokens.GetManagerPushTokens(ctx)
	if err != nil {
		log.Printf("Warning: failed to load manager push tokens: %v", err)
		return
	}
	for _, token := range tokens {
		if err := ns.SendPushNotification(ctx, token, title, body, data); err != nil {
			log.Printf("Warning: push alert %q failed: %v", title, err)
		}
	}
}

// SendVarianceAlert tells managers a drawer closed with a non-zero variance.
func (ns *NotificationService) SendVarianceAlert(ctx context.Context, d *models.CashDrawer) {
	variance := d.Variance.Decimal.StringFixed(2)
	title := "Cash drawer variance"
	body := fmt.Sprintf("Drawer #%d closed with a variance of %s", d.ID, variance)
	if d.Variance.Decimal.IsNegative() {
		body = fmt.Sprintf("Drawer #%d closed short by %s", d.ID, d.Variance.Decimal.Abs().StringFixed(2))
	}

	ns.notifyManagers(ctx, title, body, map[string]interface{}{
		"type":        "cash_drawer_variance",
		"drawer_id":   d.ID,
		"employee_id": d.EmployeeID,
		"variance":    variance,
		"timestamp":   time.Now().Unix(),
	})
}

// SendLowStockAlert tells managers an item reached its minimum level.
func (ns *NotificationService) SendLowStockAlert(ctx context.Context, item *models.InventoryItem) {
	title := "Low stock"
	body := fmt.Sprintf("%s is down to %s %s (minimum %s)", item.Name,
		item.Quantity.String(), item.Unit, item.MinimumLevel.String())

	ns.notifyManagers(ctx, title, body, map[string]interface{}{
		"type":      "inventory_low_stock",
		"sku":       item.SKU,
		"quantity":  item.Quantity.String(),
		"timestamp": time.Now().Unix(),
	})
}
