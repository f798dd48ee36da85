package repository

import (
	"context"
	"fmt"

	"invoicedesk/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	ProductBreakdown(ctx context.Context, start, end string, limit int) ([]model.ProductBreakdown, error)
	CustomerBreakdown(ctx context.Context, start, end string, limit int) ([]model.CustomerBreakdown, error)
	SalesSeries(ctx context.Context, start, end, bucketFormat string) ([]model.SeriesPoint, error)
	ItemQuantities(ctx context.Context, invoiceIDs []uint) (map[uint]int, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// ProductBreakdown groups line items by product over the date range,
// ordered by revenue. Free-text lines (no product reference) are skipped.
func (r *reportRepository) ProductBreakdown(ctx context.Context, start, end string, limit int) ([]model.ProductBreakdown, error) {
	var rows []model.ProductBreakdown
	err := GetDB(ctx, r.db).Table("invoice_items").
		Select("products.id AS product_id, products.name AS product_name, products.sku AS product_sku, SUM(invoice_items.qty) AS total_qty, SUM(invoice_items.total_amount) AS total_revenue").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoices.date BETWEEN ? AND ?", start, end).
		Group("products.id, products.name, products.sku").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query product breakdown: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) CustomerBreakdown(ctx context.Context, start, end string, limit int) ([]model.CustomerBreakdown, error) {
	var rows []model.CustomerBreakdown
	err := GetDB(ctx, r.db).Table("invoices").
		Select("customers.id AS customer_id, customers.name AS customer_name, COUNT(invoices.id) AS invoice_count, SUM(invoices.total_amount) AS total_spent").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.date BETWEEN ? AND ?", start, end).
		Group("customers.id, customers.name").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query customer breakdown: %w", err)
	}
	return rows, nil
}

// SalesSeries buckets invoice totals by issue date for charting.
// bucketFormat is an SQLite strftime layout: '%Y-%m-%d' for daily
// buckets, '%Y-%m' for monthly.
func (r *reportRepository) SalesSeries(ctx context.Context, start, end, bucketFormat string) ([]model.SeriesPoint, error) {
	query := `
		SELECT strftime(?, i.date) AS period,
		       COALESCE(SUM(i.total_amount), 0) AS total_sales,
		       COUNT(i.id) AS invoice_count
		  FROM invoices i
		 WHERE i.date BETWEEN ? AND ?
		 GROUP BY period
		 ORDER BY period
	`

	var points []model.SeriesPoint
	if err := GetDB(ctx, r.db).Raw(query, bucketFormat, start, end).Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales series: %w", err)
	}
	return points, nil
}

// ItemQuantities sums line-item piece counts per invoice.
func (r *reportRepository) ItemQuantities(ctx context.Context, invoiceIDs []uint) (map[uint]int, error) {
	if len(invoiceIDs) == 0 {
		return map[uint]int{}, nil
	}

	var rows []struct {
		InvoiceID uint
		QtySum    int
	}
	err := GetDB(ctx, r.db).Table("invoice_items").
		Select("invoice_id, COALESCE(SUM(qty), 0) AS qty_sum").
		Where("invoice_id IN ?", invoiceIDs).
		Group("invoice_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query item quantities: %w", err)
	}

	quantities := make(map[uint]int, len(rows))
	for _, row := range rows {
		quantities[row.InvoiceID] = row.QtySum
	}
	return quantities, nil
}
