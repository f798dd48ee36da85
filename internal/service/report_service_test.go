package service

import (
	"context"
	"testing"

	"invoicedesk/internal/repository"

	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) ReportService {
	return NewReportService(
		repository.NewInvoiceRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		repository.NewReportRepository(db),
	)
}

// seedReportData creates two customers and three invoices across two
// months:
//
//	2026-07-10  Acme  10 x Steel Pipe  (total 1185.00)
//	2026-07-20  Beta   2 x Steel Sheet (total  331.50)
//	2026-08-05  Acme   1 x Steel Pipe  (total  118.50)
func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	svc := newInvoiceService(db)

	acme := seedCustomer(t, db, "Acme Traders")
	beta := seedCustomer(t, db, "Beta Stores")
	pipe := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")
	sheet := seedProduct(t, db, "Steel Sheet", "150.00", "10.00")

	fixtures := []struct {
		customerID uint
		productID  uint
		qty        int
		date       string
	}{
		{acme.ID, pipe.ID, 10, "2026-07-10"},
		{beta.ID, sheet.ID, 2, "2026-07-20"},
		{acme.ID, pipe.ID, 1, "2026-08-05"},
	}
	for _, f := range fixtures {
		pid := f.productID
		_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
			CustomerID: f.customerID,
			Date:       f.date,
			Items:      []LineInput{{ProductID: &pid, Qty: f.qty}},
		})
		if err != nil {
			t.Fatalf("failed to seed invoice on %s: %v", f.date, err)
		}
	}
}

func TestPeriodReport(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)

	report, err := svc.PeriodReport(context.Background(), ReportRange{Start: "2026-07-01", End: "2026-07-31"})
	if err != nil {
		t.Fatalf("PeriodReport() error = %v", err)
	}

	if report.Summary.InvoiceCount != 2 {
		t.Errorf("InvoiceCount = %d, want 2", report.Summary.InvoiceCount)
	}
	if report.Summary.TotalQuantity != 12 {
		t.Errorf("TotalQuantity = %d, want 12", report.Summary.TotalQuantity)
	}
	if report.Summary.TotalSales != "1300.00" {
		t.Errorf("TotalSales = %q, want 1300.00", report.Summary.TotalSales)
	}
	if report.Summary.TotalSalesTax != "210.00" {
		t.Errorf("TotalSalesTax = %q, want 210.00", report.Summary.TotalSalesTax)
	}
	if report.Summary.TotalAdvanceTax != "6.50" {
		t.Errorf("TotalAdvanceTax = %q, want 6.50", report.Summary.TotalAdvanceTax)
	}
	if report.Summary.GrandTotal != "1516.50" {
		t.Errorf("GrandTotal = %q, want 1516.50", report.Summary.GrandTotal)
	}
	if len(report.Invoices) != 2 {
		t.Errorf("len(Invoices) = %d, want 2", len(report.Invoices))
	}
}

func TestPeriodReportEdgeRanges(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)

	tests := []struct {
		name string
		r    ReportRange
	}{
		{"inverted range", ReportRange{Start: "2026-07-31", End: "2026-07-01"}},
		{"malformed dates", ReportRange{Start: "07/01/2026", End: "07/31/2026"}},
		{"no invoices in range", ReportRange{Start: "2020-01-01", End: "2020-12-31"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.PeriodReport(context.Background(), tt.r)
			if err != nil {
				t.Fatalf("PeriodReport() error = %v", err)
			}
			if report.Summary.InvoiceCount != 0 || report.Summary.GrandTotal != "0.00" {
				t.Errorf("want empty report, got %+v", report.Summary)
			}
			if len(report.Invoices) != 0 {
				t.Errorf("len(Invoices) = %d, want 0", len(report.Invoices))
			}
		})
	}
}

func TestTopProductsAndCustomers(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)
	ctx := context.Background()
	r := ReportRange{Start: "2026-07-01", End: "2026-08-31"}

	products, err := svc.TopProducts(ctx, r, 5)
	if err != nil {
		t.Fatalf("TopProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len(TopProducts) = %d, want 2", len(products))
	}
	if products[0].ProductName != "Steel Pipe" {
		t.Errorf("top product = %q, want Steel Pipe", products[0].ProductName)
	}
	if products[0].TotalQty != 11 {
		t.Errorf("top product qty = %d, want 11", products[0].TotalQty)
	}

	customers, err := svc.TopCustomers(ctx, r, 5)
	if err != nil {
		t.Fatalf("TopCustomers() error = %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("len(TopCustomers) = %d, want 2", len(customers))
	}
	if customers[0].CustomerName != "Acme Traders" {
		t.Errorf("top customer = %q, want Acme Traders", customers[0].CustomerName)
	}
	if customers[0].InvoiceCount != 2 {
		t.Errorf("top customer invoice count = %d, want 2", customers[0].InvoiceCount)
	}
}

func TestSalesSeriesMonthly(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)

	points, err := svc.SalesSeries(context.Background(), ReportRange{Start: "2026-07-01", End: "2026-08-31"}, "monthly")
	if err != nil {
		t.Fatalf("SalesSeries() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2 monthly buckets", len(points))
	}
	if points[0].Period != "2026-07" || points[1].Period != "2026-08" {
		t.Errorf("periods = %q, %q; want 2026-07, 2026-08", points[0].Period, points[1].Period)
	}
	if points[0].InvoiceCount != 2 || points[1].InvoiceCount != 1 {
		t.Errorf("invoice counts = %d, %d; want 2, 1", points[0].InvoiceCount, points[1].InvoiceCount)
	}
}

func TestSalesSeriesDaily(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)

	points, err := svc.SalesSeries(context.Background(), ReportRange{Start: "2026-07-01", End: "2026-07-31"}, "daily")
	if err != nil {
		t.Fatalf("SalesSeries() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2 daily buckets", len(points))
	}
	if points[0].Period != "2026-07-10" {
		t.Errorf("first period = %q, want 2026-07-10", points[0].Period)
	}
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := newReportService(db)

	snapshot, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if snapshot.InvoiceCount != 3 {
		t.Errorf("InvoiceCount = %d, want 3", snapshot.InvoiceCount)
	}
	if snapshot.CustomerCount != 2 {
		t.Errorf("CustomerCount = %d, want 2", snapshot.CustomerCount)
	}
	if snapshot.ProductCount != 2 {
		t.Errorf("ProductCount = %d, want 2", snapshot.ProductCount)
	}
	if snapshot.TotalRevenue != "1635.00" {
		t.Errorf("TotalRevenue = %q, want 1635.00", snapshot.TotalRevenue)
	}
	if len(snapshot.RecentInvoices) != 3 {
		t.Errorf("len(RecentInvoices) = %d, want 3", len(snapshot.RecentInvoices))
	}
}
