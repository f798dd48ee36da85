package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Deleting a product is a soft delete via the
// Active flag so historical invoice lines keep resolving.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	SKU         string          `gorm:"type:varchar(100)" json:"sku"`
	Barcode     string          `gorm:"type:varchar(100)" json:"barcode"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18.00" json:"tax_rate"` // percent
	Active      bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CustomerProductPrice overrides a product's catalog unit price for one
// customer. At most one row per (customer, product) pair; rows cascade
// away with either parent.
type CustomerProductPrice struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"not null;uniqueIndex:idx_customer_product;constraint:OnDelete:CASCADE" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID  uint            `gorm:"not null;uniqueIndex:idx_customer_product" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
