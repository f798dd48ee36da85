package model

// PeriodSummary aggregates invoice totals over a date range.
type PeriodSummary struct {
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	TotalSales      string `json:"total_sales"`
	TotalSalesTax   string `json:"total_sales_tax"`
	TotalAdvanceTax string `json:"total_advance_tax"`
	GrandTotal      string `json:"grand_total"`
	TotalQuantity   int    `json:"total_quantity"`
	InvoiceCount    int    `json:"invoice_count"`
}

// ProductBreakdown ranks a product by accumulated quantity and revenue
// within a date range.
type ProductBreakdown struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductSKU   string  `json:"product_sku"`
	TotalQty     int     `json:"total_qty"`
	TotalRevenue float64 `json:"total_revenue"`
}

// CustomerBreakdown ranks a customer by spend within a date range.
type CustomerBreakdown struct {
	CustomerID   uint    `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	InvoiceCount int     `json:"invoice_count"`
	TotalSpent   float64 `json:"total_spent"`
}

// SeriesPoint is one time bucket of a charting series.
type SeriesPoint struct {
	Period       string  `json:"period"` // YYYY-MM-DD for daily, YYYY-MM for monthly
	TotalSales   float64 `json:"total_sales"`
	InvoiceCount int     `json:"invoice_count"`
}

// DashboardSnapshot backs the landing screen KPI cards.
type DashboardSnapshot struct {
	TotalRevenue   string    `json:"total_revenue"`
	InvoiceCount   int64     `json:"invoice_count"`
	CustomerCount  int64     `json:"customer_count"`
	ProductCount   int64     `json:"product_count"`
	RecentInvoices []Invoice `json:"recent_invoices"`
}
