package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"invoicedesk/internal/repository"

	"gorm.io/gorm"
)

func newExportService(db *gorm.DB) ExportService {
	return NewExportService(
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestImportCustomersCSV(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newExportService(db)
	customerRepo := repository.NewCustomerRepository(db)

	seedCustomer(t, db, "Acme Traders")

	input := strings.NewReader(
		"name,address,ntn,strn,contact,email\n" +
			"Acme Traders,New Address,111,222,0300-1234567,acme@example.com\n" +
			"Beta Stores,Market Road,,,,\n" +
			",skipped blank name,,,,\n")

	count, err := svc.ImportCustomersCSV(ctx, input)
	if err != nil {
		t.Fatalf("ImportCustomersCSV() error = %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2 (blank names skipped)", count)
	}

	total, err := customerRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 2 {
		t.Errorf("customer count = %d, want 2 (existing name updated, not duplicated)", total)
	}

	acme, err := customerRepo.FindByName(ctx, "Acme Traders")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if acme.Address != "New Address" || acme.Email != "acme@example.com" {
		t.Errorf("existing customer was not updated: %+v", acme)
	}
}

func TestImportProductsCSV(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newExportService(db)

	input := strings.NewReader(
		"name,description,sku,barcode,unit_price,tax_rate,active\n" +
			"Steel Pipe,Seamless,SP-01,,100.00,18,1\n" +
			"Old Stock,,OS-01,,10.00,,0\n")

	count, err := svc.ImportProductsCSV(ctx, input)
	if err != nil {
		t.Fatalf("ImportProductsCSV() error = %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2", count)
	}

	productRepo := repository.NewProductRepository(db)
	pipe, err := productRepo.FindByName(ctx, "Steel Pipe")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if pipe.SKU != "SP-01" || !pipe.Active {
		t.Errorf("unexpected product: %+v", pipe)
	}
	old, err := productRepo.FindByName(ctx, "Old Stock")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if old.Active {
		t.Error("active=0 rows should import as inactive")
	}
	if old.TaxRate.StringFixed(2) != "18.00" {
		t.Errorf("TaxRate = %s, want default 18.00", old.TaxRate)
	}
}

func TestImportProductsCSVBadPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newExportService(db)

	input := strings.NewReader(
		"name,description,sku,barcode,unit_price,tax_rate,active\n" +
			"Broken,,,,ten rupees,,1\n")

	if _, err := svc.ImportProductsCSV(context.Background(), input); err == nil {
		t.Error("ImportProductsCSV() with non-numeric price should fail")
	}
}

func TestExportCustomersCSVRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newExportService(db)

	seedCustomer(t, db, "Acme Traders")
	seedCustomer(t, db, "Beta Stores")

	var buf bytes.Buffer
	if err := svc.ExportCustomersCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCustomersCSV() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "name,address,ntn,strn,contact,email") {
		t.Errorf("missing header row: %q", out)
	}
	if !strings.Contains(out, "Acme Traders") || !strings.Contains(out, "Beta Stores") {
		t.Errorf("missing customer rows: %q", out)
	}
}

func TestWriteReportCSV(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)

	report, err := newReportService(db).PeriodReport(context.Background(), ReportRange{Start: "2026-07-01", End: "2026-07-31"})
	if err != nil {
		t.Fatalf("PeriodReport() error = %v", err)
	}

	var buf bytes.Buffer
	if err := newExportService(db).WriteReportCSV(report, &buf); err != nil {
		t.Fatalf("WriteReportCSV() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"INVOICE REPORT",
		"Period: 2026-07-01 to 2026-07-31",
		"INV-1,2026-07-10,Acme Traders,1000.00,180.00,5.00,1185.00",
		"GRAND TOTAL,1516.50",
		"NUMBER OF INVOICES,2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report CSV missing %q\n%s", want, out)
		}
	}
}
