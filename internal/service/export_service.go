package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService handles bulk CSV import/export of catalog data and the
// spreadsheet rendering of period reports. Imports bypass the pricing
// calculator entirely; they only touch customer and product rows.
type ExportService interface {
	ExportCustomersCSV(ctx context.Context, w io.Writer) error
	ExportProductsCSV(ctx context.Context, w io.Writer) error
	ImportCustomersCSV(ctx context.Context, r io.Reader) (int, error)
	ImportProductsCSV(ctx context.Context, r io.Reader) (int, error)
	WriteReportCSV(report *PeriodReport, w io.Writer) error
	WriteReportXLSX(report *PeriodReport, w io.Writer) error
}

type exportService struct {
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
}

func NewExportService(customerRepo repository.CustomerRepository, productRepo repository.ProductRepository) ExportService {
	return &exportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

var customerCSVHeader = []string{"name", "address", "ntn", "strn", "contact", "email"}
var productCSVHeader = []string{"name", "description", "sku", "barcode", "unit_price", "tax_rate", "active"}

func (s *exportService) ExportCustomersCSV(ctx context.Context, w io.Writer) error {
	customers, err := s.customerRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch customers: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(customerCSVHeader); err != nil {
		return err
	}
	for _, c := range customers {
		if err := cw.Write([]string{c.Name, c.Address, c.NTN, c.STRN, c.Contact, c.Email}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) ExportProductsCSV(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.All(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(productCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		active := "1"
		if !p.Active {
			active = "0"
		}
		row := []string{p.Name, p.Description, p.SKU, p.Barcode, p.UnitPrice.StringFixed(2), p.TaxRate.StringFixed(2), active}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCustomersCSV upserts customers keyed by name: existing rows are
// updated, unknown names inserted. Returns the number of rows applied.
func (s *exportService) ImportCustomersCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := readCSVRecords(r, customerCSVHeader)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			continue
		}

		existing, err := s.customerRepo.FindByName(ctx, name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("failed to look up customer %q: %w", name, err)
		}

		if existing != nil {
			existing.Address = row["address"]
			existing.NTN = row["ntn"]
			existing.STRN = row["strn"]
			existing.Contact = row["contact"]
			existing.Email = row["email"]
			if err := s.customerRepo.Update(ctx, existing); err != nil {
				return count, fmt.Errorf("failed to update customer %q: %w", name, err)
			}
		} else {
			customer := &model.Customer{
				Name:    name,
				Address: row["address"],
				NTN:     row["ntn"],
				STRN:    row["strn"],
				Contact: row["contact"],
				Email:   row["email"],
			}
			if err := s.customerRepo.Create(ctx, customer); err != nil {
				return count, fmt.Errorf("failed to insert customer %q: %w", name, err)
			}
		}
		count++
	}
	return count, nil
}

func (s *exportService) ImportProductsCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := readCSVRecords(r, productCSVHeader)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			continue
		}

		unitPrice, err := decimal.NewFromString(row["unit_price"])
		if err != nil {
			return count, fmt.Errorf("product %q: invalid unit_price %q", name, row["unit_price"])
		}
		taxRate := decimal.RequireFromString("18.00")
		if row["tax_rate"] != "" {
			taxRate, err = decimal.NewFromString(row["tax_rate"])
			if err != nil {
				return count, fmt.Errorf("product %q: invalid tax_rate %q", name, row["tax_rate"])
			}
		}

		existing, err := s.productRepo.FindByName(ctx, name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("failed to look up product %q: %w", name, err)
		}

		if existing != nil {
			existing.Description = row["description"]
			existing.SKU = row["sku"]
			existing.Barcode = row["barcode"]
			existing.UnitPrice = unitPrice.Round(2)
			existing.TaxRate = taxRate.Round(2)
			if err := s.productRepo.Update(ctx, existing); err != nil {
				return count, fmt.Errorf("failed to update product %q: %w", name, err)
			}
		} else {
			product := &model.Product{
				Name:        name,
				Description: row["description"],
				SKU:         row["sku"],
				Barcode:     row["barcode"],
				UnitPrice:   unitPrice.Round(2),
				TaxRate:     taxRate.Round(2),
				Active:      row["active"] != "0",
			}
			if err := s.productRepo.Create(ctx, product); err != nil {
				return count, fmt.Errorf("failed to insert product %q: %w", name, err)
			}
		}
		count++
	}
	return count, nil
}

// readCSVRecords maps each data row to the header columns. The file's
// own header row decides column order; knownColumns just documents the
// expected set.
func readCSVRecords(r io.Reader, knownColumns []string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteReportCSV renders a period report the way the reports screen
// exports it: detail rows then the totals block.
func (s *exportService) WriteReportCSV(report *PeriodReport, w io.Writer) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"INVOICE REPORT"})
	_ = cw.Write([]string{fmt.Sprintf("Period: %s to %s", report.Summary.PeriodStart, report.Summary.PeriodEnd)})
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Invoice No", "Date", "Customer", "Subtotal", "Sales Tax", "Advance Tax", "Total"})
	for _, inv := range report.Invoices {
		customer := ""
		if inv.Customer != nil {
			customer = inv.Customer.Name
		}
		_ = cw.Write([]string{
			inv.InvoiceNo,
			inv.Date,
			customer,
			inv.Subtotal.StringFixed(2),
			inv.SalesTax.StringFixed(2),
			inv.AdvanceTax.StringFixed(2),
			inv.TotalAmount.StringFixed(2),
		})
	}
	_ = cw.Write(nil)
	_ = cw.Write([]string{"TOTAL SALES", report.Summary.TotalSales})
	_ = cw.Write([]string{"TOTAL SALES TAX", report.Summary.TotalSalesTax})
	_ = cw.Write([]string{"TOTAL ADVANCE TAX", report.Summary.TotalAdvanceTax})
	_ = cw.Write([]string{"GRAND TOTAL", report.Summary.GrandTotal})
	_ = cw.Write([]string{"TOTAL QUANTITY (pcs)", fmt.Sprintf("%d", report.Summary.TotalQuantity)})
	_ = cw.Write([]string{"NUMBER OF INVOICES", fmt.Sprintf("%d", report.Summary.InvoiceCount)})

	cw.Flush()
	return cw.Error()
}

// WriteReportXLSX renders the same report as a single-sheet workbook.
func (s *exportService) WriteReportXLSX(report *PeriodReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoice Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	row := 1
	setRow := func(values ...interface{}) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	setRow("INVOICE REPORT")
	setRow(fmt.Sprintf("Period: %s to %s", report.Summary.PeriodStart, report.Summary.PeriodEnd))
	row++
	setRow("Invoice No", "Date", "Customer", "Subtotal", "Sales Tax", "Advance Tax", "Total")
	for _, inv := range report.Invoices {
		customer := ""
		if inv.Customer != nil {
			customer = inv.Customer.Name
		}
		setRow(inv.InvoiceNo, inv.Date, customer,
			inv.Subtotal.StringFixed(2), inv.SalesTax.StringFixed(2),
			inv.AdvanceTax.StringFixed(2), inv.TotalAmount.StringFixed(2))
	}
	row++
	setRow("TOTAL SALES", report.Summary.TotalSales)
	setRow("TOTAL SALES TAX", report.Summary.TotalSalesTax)
	setRow("TOTAL ADVANCE TAX", report.Summary.TotalAdvanceTax)
	setRow("GRAND TOTAL", report.Summary.GrandTotal)
	setRow("TOTAL QUANTITY (pcs)", report.Summary.TotalQuantity)
	setRow("NUMBER OF INVOICES", report.Summary.InvoiceCount)

	return f.Write(w)
}
