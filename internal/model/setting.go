package model

// Setting keys consumed by the services. Values are stored as strings and
// parsed at the point of use.
const (
	KeyInvoicePrefix     = "invoice_prefix"
	KeyNextInvoiceNumber = "next_invoice_number"
	KeyAdvanceTaxRate    = "advance_tax_rate"
	KeyDefaultPDFDir     = "default_pdf_dir"
	KeyAutoOpenPDF       = "auto_open_pdf"
	KeyAppPasswordHash   = "app_password_hash"
)

// Default values seeded on first run.
const (
	DefaultInvoicePrefix  = "INV-"
	DefaultNextNumber     = "1"
	DefaultAdvanceTaxRate = "0.5"
	DefaultPDFDir         = "invoices"
	DefaultAutoOpenPDF    = "0"
)

// Setting is a generic key-value preference row.
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}
