package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"diner-pos-server/models"
	"diner-pos-server/utils"
)

type ReceiptStore interface {
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetPaymentsByOrder(ctx context.Context, orderID int64) ([]models.Payment, error)
	CreateReceipt(ctx context.Context, r *models.Receipt) error
}

// ReceiptUploader stores a rendered receipt and returns its URL.
type ReceiptUploader interface {
	UploadReceipt(ctx context.Context, name string, data []byte) (string, error)
}

type ReceiptService struct {
	store    ReceiptStore
	uploader ReceiptUploader // nil keeps receipts local-only
	now      func() time.Time
}

func NewReceiptService(s ReceiptStore, uploader ReceiptUploader) *ReceiptService {
	return &ReceiptService{store: s, uploader: uploader, now: time.Now}
}

type GeneratedReceipt struct {
	Receipt *models.Receipt `json:"receipt"`
	Text    string          `json:"text"`
}

// Generate renders the order's receipt, uploads it when an uploader is
// configured and records it. A failed upload still records the receipt.
func (s *ReceiptService) Generate(ctx context.Context, orderID int64) (*GeneratedReceipt, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.GetPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	receipt := &models.Receipt{
		OrderID:       order.ID,
		ReceiptNumber: utils.GenerateReceiptNumber(now),
	}
	text := RenderReceipt(receipt.ReceiptNumber, now, order, payments)

	if s.uploader != nil {
		url, err := s.uploader.UploadReceipt(ctx, receipt.ReceiptNumber, []byte(text))
		if err != nil {
			log.Printf("Warning: receipt %s upload failed: %v", receipt.ReceiptNumber, err)
		} else {
			receipt.PdfURL = &url
		}
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return nil, err
	}
	return &GeneratedReceipt{Receipt: receipt, Text: text}, nil
}

// RenderReceipt lays out a plain-text receipt.
func RenderReceipt(number string, issuedAt time.Time, order *models.Order, payments []models.Payment) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Receipt %s\n", number)
	fmt.Fprintf(&buf, "Order %s (%s)\n", order.OrderNumber, order.OrderType)
	fmt.Fprintf(&buf, "%s\n\n", issuedAt.Format("2006-01-02 15:04"))

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, it := range order.Items {
		if it.Status == "cancelled" {
			continue
		}
		label := "item"
		if it.MenuItemID != nil {
			label = fmt.Sprintf("menu item %d", *it.MenuItemID)
		} else if it.ComboID != nil {
			label = fmt.Sprintf("combo %d", *it.ComboID)
		}
		fmt.Fprintf(w, "%d x %s\t%s\t%s\t\n", it.Quantity, label, it.Price.StringFixed(2), it.LineTotal().StringFixed(2))
		for _, m := range it.Modifiers {
			fmt.Fprintf(w, "  + %s\t\t\t\n", m.Name)
		}
	}
	fmt.Fprintf(w, "\t\t\t\n")
	fmt.Fprintf(w, "Subtotal\t\t%s\t\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "Tax\t\t%s\t\n", order.Tax.StringFixed(2))
	if !order.Discount.IsZero() {
		fmt.Fprintf(w, "Discount\t\t-%s\t\n", order.Discount.StringFixed(2))
	}
	fmt.Fprintf(w, "Total\t\t%s\t\n", order.Total.StringFixed(2))

	for _, p := range payments {
		if p.Method == models.PaymentSplit {
			for _, sp := range p.Splits {
				fmt.Fprintf(w, "Paid (%s)\t\t%s\t\n", sp.Method, sp.Amount.StringFixed(2))
			}
			continue
		}
		fmt.Fprintf(w, "Paid (%s)\t\t%s\t\n", p.Method, p.Amount.StringFixed(2))
	}
	w.Flush()

	buf.WriteString("\nThank you!\n")
	return buf.String()
}
