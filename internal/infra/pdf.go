package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"dailymart/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a thermal-receipt style PDF for a completed sale.
// storagePath is created if needed; returns the path of the written file.
func GenerateReceiptPDF(sale *model.Sale, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.BillNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sale Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Bill info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, sale.BillNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.SaleDate.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Amount", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := item.ProductName
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 5, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, sale.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	if !sale.DiscountAmount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Discount:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-"+sale.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, sale.FinalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Paid by:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, sale.PaymentMethod, "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you, visit again!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
