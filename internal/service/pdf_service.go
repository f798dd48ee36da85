package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/jung-kurt/gofpdf"
)

// PDFService renders invoices and period reports to PDF. Layout is a
// plain A4 document: company block, invoice meta, item table, totals.
type PDFService interface {
	GenerateInvoicePDF(ctx context.Context, invoice *model.Invoice) (string, error)
	WritePeriodReportPDF(report *PeriodReport, w io.Writer) error
	RegenerateAll(ctx context.Context) ([]string, error)
}

type pdfService struct {
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.SettingsRepository
}

func NewPDFService(invoiceRepo repository.InvoiceRepository, settingsRepo repository.SettingsRepository) PDFService {
	return &pdfService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
	}
}

// GenerateInvoicePDF writes invoice_<no>.pdf into the configured output
// directory and returns the path.
func (s *pdfService) GenerateInvoicePDF(ctx context.Context, invoice *model.Invoice) (string, error) {
	dir, err := s.settingsRepo.GetOrDefault(ctx, model.KeyDefaultPDFDir, model.DefaultPDFDir)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf directory setting: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create pdf directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	renderInvoicePage(pdf, invoice)

	path := filepath.Join(dir, fmt.Sprintf("invoice_%s.pdf", invoice.InvoiceNo))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

// WritePeriodReportPDF renders a summary page followed by one page per
// invoice, as a single document.
func (s *pdfService) WritePeriodReportPDF(report *PeriodReport, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	// Summary cover page.
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Invoice Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", report.Summary.PeriodStart, report.Summary.PeriodEnd), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	summaryRows := [][2]string{
		{"Total Sales", report.Summary.TotalSales},
		{"Sales Tax Collected", report.Summary.TotalSalesTax},
		{"Advance Tax Collected", report.Summary.TotalAdvanceTax},
		{"Grand Total", report.Summary.GrandTotal},
		{"Total Quantity (pcs)", fmt.Sprintf("%d", report.Summary.TotalQuantity)},
		{"Number of Invoices", fmt.Sprintf("%d", report.Summary.InvoiceCount)},
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Total", "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, r := range summaryRows {
		pdf.CellFormat(80, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, r[1], "1", 1, "R", false, 0, "")
	}

	for i := range report.Invoices {
		renderInvoicePage(pdf, &report.Invoices[i])
	}

	return pdf.Output(w)
}

// RegenerateAll rebuilds every invoice PDF from stored rows, useful
// after a layout change, and updates the stored paths.
func (s *pdfService) RegenerateAll(ctx context.Context) ([]string, error) {
	invoices, err := s.invoiceRepo.ListByDateRange(ctx, "0001-01-01", "9999-12-31")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	paths := make([]string, 0, len(invoices))
	for i := range invoices {
		full, err := s.invoiceRepo.FindByID(ctx, invoices[i].ID)
		if err != nil {
			return paths, err
		}
		path, err := s.GenerateInvoicePDF(ctx, full)
		if err != nil {
			return paths, err
		}
		if err := s.invoiceRepo.UpdatePDFPath(ctx, full.ID, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// renderInvoicePage appends one invoice as a fresh page.
func renderInvoicePage(pdf *gofpdf.Fpdf, invoice *model.Invoice) {
	pdf.AddPage()

	if invoice.Company != nil && invoice.Company.Name != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 9, invoice.Company.Name, "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		if invoice.Company.Address != "" {
			pdf.CellFormat(0, 5, invoice.Company.Address, "", 1, "C", false, 0, "")
		}
		if invoice.Company.NTN != "" || invoice.Company.STRN != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("NTN: %s   STRN: %s", invoice.Company.NTN, invoice.Company.STRN), "", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Invoice %s", invoice.InvoiceNo), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Date: "+invoice.Date, "", 1, "L", false, 0, "")
	if invoice.Customer != nil {
		pdf.CellFormat(0, 6, "Billed To: "+invoice.Customer.Name, "", 1, "L", false, 0, "")
		if invoice.Customer.Address != "" {
			pdf.CellFormat(0, 6, invoice.Customer.Address, "", 1, "L", false, 0, "")
		}
		if invoice.Customer.NTN != "" || invoice.Customer.STRN != "" {
			pdf.CellFormat(0, 6, fmt.Sprintf("NTN: %s   STRN: %s", invoice.Customer.NTN, invoice.Customer.STRN), "", 1, "L", false, 0, "")
		}
	}
	if invoice.ShippedTo != "" {
		pdf.CellFormat(0, 6, "Shipped To: "+invoice.ShippedTo, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Item table.
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Value", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Sales Tax", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, item := range invoice.Items {
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", item.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, item.Value.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, item.SalesTaxAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, item.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block, right aligned.
	totals := [][2]string{
		{"Subtotal", invoice.Subtotal.StringFixed(2)},
		{"Sales Tax", invoice.SalesTax.StringFixed(2)},
		{"Advance Tax", invoice.AdvanceTax.StringFixed(2)},
		{"Grand Total", invoice.TotalAmount.StringFixed(2)},
	}
	for i, r := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		pdf.CellFormat(130, 7, "", "", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, r[1], "", 1, "R", false, 0, "")
	}

	if invoice.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+invoice.Notes, "", "L", false)
	}
}
