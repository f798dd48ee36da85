package service

import (
	"context"
	"fmt"
	"time"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ReportRange struct {
	Start string // YYYY-MM-DD inclusive
	End   string // YYYY-MM-DD inclusive
}

// PeriodReport bundles the range summary with its invoice detail rows,
// the shape both the reports screen and the exporters consume.
type PeriodReport struct {
	Summary  model.PeriodSummary `json:"summary"`
	Invoices []model.Invoice     `json:"invoices"`
}

// --- Interface ---

type ReportService interface {
	PeriodReport(ctx context.Context, r ReportRange) (*PeriodReport, error)
	TopProducts(ctx context.Context, r ReportRange, limit int) ([]model.ProductBreakdown, error)
	TopCustomers(ctx context.Context, r ReportRange, limit int) ([]model.CustomerBreakdown, error)
	SalesSeries(ctx context.Context, r ReportRange, bucket string) ([]model.SeriesPoint, error)
	Dashboard(ctx context.Context) (*model.DashboardSnapshot, error)
}

type reportService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	reportRepo   repository.ReportRepository
}

func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	reportRepo repository.ReportRepository,
) ReportService {
	return &reportService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		reportRepo:   reportRepo,
	}
}

// --- Implementation ---

// validRange reports whether the bounds parse and are ordered. Inverted
// or malformed bounds are not an error: reports come back empty.
func validRange(r ReportRange) bool {
	start, err := time.Parse(model.DateLayout, r.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse(model.DateLayout, r.End)
	if err != nil {
		return false
	}
	return !start.After(end)
}

// PeriodReport fetches the invoices in range and folds their stored
// header totals in decimal arithmetic. The dataset is human-scale, so
// there is no caching; every call recomputes.
func (s *reportService) PeriodReport(ctx context.Context, r ReportRange) (*PeriodReport, error) {
	empty := &PeriodReport{
		Summary: model.PeriodSummary{
			PeriodStart:     r.Start,
			PeriodEnd:       r.End,
			TotalSales:      "0.00",
			TotalSalesTax:   "0.00",
			TotalAdvanceTax: "0.00",
			GrandTotal:      "0.00",
		},
		Invoices: []model.Invoice{},
	}
	if !validRange(r) {
		return empty, nil
	}

	invoices, err := s.invoiceRepo.ListByDateRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices for report: %w", err)
	}
	if len(invoices) == 0 {
		return empty, nil
	}

	ids := make([]uint, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	quantities, err := s.reportRepo.ItemQuantities(ctx, ids)
	if err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	totalSalesTax := decimal.Zero
	totalAdvanceTax := decimal.Zero
	grandTotal := decimal.Zero
	totalQty := 0

	for _, inv := range invoices {
		totalSales = totalSales.Add(inv.Subtotal)
		totalSalesTax = totalSalesTax.Add(inv.SalesTax)
		totalAdvanceTax = totalAdvanceTax.Add(inv.AdvanceTax)
		grandTotal = grandTotal.Add(inv.TotalAmount)
		totalQty += quantities[inv.ID]
	}

	return &PeriodReport{
		Summary: model.PeriodSummary{
			PeriodStart:     r.Start,
			PeriodEnd:       r.End,
			TotalSales:      totalSales.StringFixed(2),
			TotalSalesTax:   totalSalesTax.StringFixed(2),
			TotalAdvanceTax: totalAdvanceTax.StringFixed(2),
			GrandTotal:      grandTotal.StringFixed(2),
			TotalQuantity:   totalQty,
			InvoiceCount:    len(invoices),
		},
		Invoices: invoices,
	}, nil
}

func (s *reportService) TopProducts(ctx context.Context, r ReportRange, limit int) ([]model.ProductBreakdown, error) {
	if !validRange(r) {
		return []model.ProductBreakdown{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	return s.reportRepo.ProductBreakdown(ctx, r.Start, r.End, limit)
}

func (s *reportService) TopCustomers(ctx context.Context, r ReportRange, limit int) ([]model.CustomerBreakdown, error) {
	if !validRange(r) {
		return []model.CustomerBreakdown{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	return s.reportRepo.CustomerBreakdown(ctx, r.Start, r.End, limit)
}

// SalesSeries returns chart buckets. bucket is "daily" or "monthly";
// anything else falls back to monthly.
func (s *reportService) SalesSeries(ctx context.Context, r ReportRange, bucket string) ([]model.SeriesPoint, error) {
	if !validRange(r) {
		return []model.SeriesPoint{}, nil
	}

	format := "%Y-%m"
	if bucket == "daily" {
		format = "%Y-%m-%d"
	}
	return s.reportRepo.SalesSeries(ctx, r.Start, r.End, format)
}

func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardSnapshot, error) {
	invoiceCount, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	recent, err := s.invoiceRepo.Recent(ctx, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent invoices: %w", err)
	}

	// Lifetime revenue: fold stored totals, same as the range report.
	all, err := s.invoiceRepo.ListByDateRange(ctx, "0001-01-01", "9999-12-31")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	revenue := decimal.Zero
	for _, inv := range all {
		revenue = revenue.Add(inv.TotalAmount)
	}

	return &model.DashboardSnapshot{
		TotalRevenue:   revenue.StringFixed(2),
		InvoiceCount:   invoiceCount,
		CustomerCount:  customerCount,
		ProductCount:   productCount,
		RecentInvoices: recent,
	}, nil
}
