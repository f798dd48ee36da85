package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical issue-date format stored on invoices.
const DateLayout = "2006-01-02"

// Invoice is a finalized sales document. Header totals are derived from
// the line items at save time and the row is immutable afterwards: the
// only write paths are the transactional create and delete.
type Invoice struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	InvoiceNo  string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_no"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	CompanyID  *uint           `gorm:"index" json:"company_id"`
	Company    *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Date       string          `gorm:"type:date;not null;index" json:"date"` // YYYY-MM-DD
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	SalesTax   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sales_tax"`
	AdvanceTax decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"advance_tax"`
	// TotalAmount == Subtotal + SalesTax + AdvanceTax == sum of item totals.
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes       string          `gorm:"type:text" json:"notes"`
	ShippedTo   string          `gorm:"type:text" json:"shipped_to"`
	PDFPath     string          `gorm:"type:text;column:pdf_path" json:"pdf_path"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceItem is one priced line on an invoice. ProductID is nullable so
// free-text lines (description only) are allowed. UnitPrice is captured
// at sale time rather than linked to the live catalog, and every derived
// amount is stored so PDFs and reports never recompute.
type InvoiceItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	InvoiceID        uint            `gorm:"not null;index" json:"invoice_id"`
	ProductID        *uint           `gorm:"index" json:"product_id"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Description      string          `gorm:"type:text" json:"description"`
	Qty              int             `gorm:"not null" json:"qty"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Value            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"` // Qty * UnitPrice
	SalesTaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sales_tax_amount"`
	AdvanceTaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"advance_tax_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
}
