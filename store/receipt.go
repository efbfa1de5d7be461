package store

import (
	"context"

	"diner-pos-server/models"
)

func (s *Store) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.QueryRowContext(ctx, `
		INSERT INTO receipts (order_id, receipt_number, pdf_url)
		VALUES ($1, $2, $3)
		RETURNING id, email_sent, created_at`,
		r.OrderID, r.ReceiptNumber, r.PdfURL,
	).Scan(&r.ID, &r.EmailSent, &r.CreatedAt)
	if err != nil {
		return fail("create receipt", err)
	}
	return nil
}
