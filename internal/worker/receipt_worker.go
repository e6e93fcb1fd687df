package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF receipt, emails
// it when the customer left an address, and flips the sale's notified flag.
// Everything here is best-effort — the sale is already committed.

import (
	"context"
	"encoding/json"
	"fmt"

	"dailymart/internal/infra"
	"dailymart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string `json:"sale_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type ReceiptWorker struct {
	sales       repository.SaleRepository
	mailer      *infra.Mailer
	storeName   string
	storagePath string
}

func NewReceiptWorker(sales repository.SaleRepository, mailer *infra.Mailer, storeName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, mailer: mailer, storeName: storeName, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storeName, w.storagePath)
	if err != nil {
		log.Warn().Err(err).Str("bill_number", sale.BillNumber).Msg("receipt_worker: PDF generation failed")
		pdfPath = ""
	}

	if payload.CustomerEmail != "" {
		subject := fmt.Sprintf("%s — Receipt %s", w.storeName, sale.BillNumber)
		body := fmt.Sprintf("Thank you for shopping with us.\nBill: %s\nTotal: %s",
			sale.BillNumber, sale.FinalAmount.StringFixed(2))
		if err := w.mailer.SendReceipt(payload.CustomerEmail, subject, body, pdfPath); err != nil {
			log.Error().Err(err).Str("to", payload.CustomerEmail).Msg("receipt_worker: failed to send email")
			return
		}
		log.Info().Str("to", payload.CustomerEmail).Str("bill_number", sale.BillNumber).
			Msg("receipt_worker: receipt sent")
	}

	if err := w.sales.MarkNotified(ctx, saleID); err != nil {
		log.Warn().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: failed to mark notified")
	}
}
