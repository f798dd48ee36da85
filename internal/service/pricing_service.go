package service

import (
	"context"
	"errors"
	"fmt"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// round2 quantizes to 2 decimal places, half up. All currency math in
// this package goes through decimals; binary floats never carry money.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineInput describes one requested invoice line before pricing.
// Either ProductID or Description must be set. For free-text lines
// (no ProductID) the caller supplies UnitPrice and optionally TaxRate;
// catalog lines take both from the product unless a customer override
// replaces the unit price.
type LineInput struct {
	ProductID   *uint            `json:"product_id"`
	Description string           `json:"description"`
	Qty         int              `json:"qty" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// PricingService turns (product, quantity, customer) into a fully
// priced invoice line, and folds priced lines into invoice totals.
type PricingService interface {
	PriceLine(ctx context.Context, customerID uint, input LineInput) (model.InvoiceItem, error)
	AdvanceTaxRate(ctx context.Context) (decimal.Decimal, error)
}

type pricingService struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

func NewPricingService(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository) PricingService {
	return &pricingService{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
	}
}

// AdvanceTaxRate reads the global advance tax percentage from settings.
// A single rate applies to every line; it is not a per-product field.
func (s *pricingService) AdvanceTaxRate(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.settingsRepo.GetOrDefault(ctx, model.KeyAdvanceTaxRate, model.DefaultAdvanceTaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read advance tax rate: %w", err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid advance_tax_rate setting %q: %w", raw, err)
	}
	return rate, nil
}

func (s *pricingService) PriceLine(ctx context.Context, customerID uint, input LineInput) (model.InvoiceItem, error) {
	if input.Qty < 1 {
		return model.InvoiceItem{}, ErrInvalidQuantity
	}

	unitPrice := decimal.Zero
	taxRate := decimal.RequireFromString("18.00")
	description := input.Description

	if input.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *input.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A missing product is tolerable only for pure free-text lines.
			if input.Description == "" {
				return model.InvoiceItem{}, ErrProductNotFound
			}
			input.ProductID = nil
		} else if err != nil {
			return model.InvoiceItem{}, fmt.Errorf("failed to load product: %w", err)
		} else {
			unitPrice = product.UnitPrice
			taxRate = product.TaxRate
			if description == "" {
				description = product.Name
			}
			// Customer override wins over the catalog price unconditionally.
			if customerID != 0 {
				override, err := s.productRepo.FindOverridePrice(ctx, customerID, product.ID)
				if err != nil {
					return model.InvoiceItem{}, fmt.Errorf("failed to load price override: %w", err)
				}
				if override != nil {
					unitPrice = *override
				}
			}
		}
	} else if input.Description == "" {
		return model.InvoiceItem{}, ErrProductNotFound
	}

	// Per-request values fill the gaps for free-text lines.
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	advanceRate, err := s.AdvanceTaxRate(ctx)
	if err != nil {
		return model.InvoiceItem{}, err
	}

	return ComputeLine(input.ProductID, description, input.Qty, unitPrice, taxRate, advanceRate), nil
}

// ComputeLine prices a single line. Pure; all callers feed it decimals.
//
//	value       = round2(qty * unitPrice)
//	salesTax    = round2(value * taxRate / 100)
//	advanceTax  = round2(value * advanceRate / 100)
//	total       = value + salesTax + advanceTax
func ComputeLine(productID *uint, description string, qty int, unitPrice, taxRate, advanceRate decimal.Decimal) model.InvoiceItem {
	unitPrice = round2(unitPrice)
	value := round2(decimal.NewFromInt(int64(qty)).Mul(unitPrice))
	salesTax := round2(value.Mul(taxRate).Div(oneHundred))
	advanceTax := round2(value.Mul(advanceRate).Div(oneHundred))

	return model.InvoiceItem{
		ProductID:        productID,
		Description:      description,
		Qty:              qty,
		UnitPrice:        unitPrice,
		Value:            value,
		SalesTaxAmount:   salesTax,
		AdvanceTaxAmount: advanceTax,
		TotalAmount:      value.Add(salesTax).Add(advanceTax),
	}
}

// InvoiceTotals is the fold of per-line amounts into header fields.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal
	SalesTax   decimal.Decimal
	AdvanceTax decimal.Decimal
	GrandTotal decimal.Decimal
	TotalQty   int
}

// SummarizeItems sums priced lines into invoice-level totals. Pure, no
// I/O. An empty slice yields all-zero totals; rejecting empty invoices
// is the save path's job.
func SummarizeItems(items []model.InvoiceItem) InvoiceTotals {
	totals := InvoiceTotals{
		Subtotal:   decimal.Zero,
		SalesTax:   decimal.Zero,
		AdvanceTax: decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.Value)
		totals.SalesTax = totals.SalesTax.Add(item.SalesTaxAmount)
		totals.AdvanceTax = totals.AdvanceTax.Add(item.AdvanceTaxAmount)
		totals.GrandTotal = totals.GrandTotal.Add(item.TotalAmount)
		totals.TotalQty += item.Qty
	}
	return totals
}
