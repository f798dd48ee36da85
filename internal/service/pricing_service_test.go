package service

import (
	"context"
	"errors"
	"testing"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
)

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name        string
		qty         int
		unitPrice   string
		taxRate     string
		advanceRate string
		wantValue   string
		wantSales   string
		wantAdvance string
		wantTotal   string
	}{
		{
			name: "round unit prices",
			qty:  2, unitPrice: "150", taxRate: "10", advanceRate: "0.5",
			wantValue: "300", wantSales: "30", wantAdvance: "1.5", wantTotal: "331.5",
		},
		{
			name: "default rates",
			qty:  10, unitPrice: "100", taxRate: "18", advanceRate: "0.5",
			wantValue: "1000", wantSales: "180", wantAdvance: "5", wantTotal: "1185",
		},
		{
			name: "fractional amounts round half up",
			qty:  3, unitPrice: "19.99", taxRate: "17", advanceRate: "0.5",
			wantValue: "59.97", wantSales: "10.19", wantAdvance: "0.3", wantTotal: "70.46",
		},
		{
			name: "zero advance rate",
			qty:  1, unitPrice: "50", taxRate: "18", advanceRate: "0",
			wantValue: "50", wantSales: "9", wantAdvance: "0", wantTotal: "59",
		},
		{
			name: "zero price line",
			qty:  5, unitPrice: "0", taxRate: "18", advanceRate: "0.5",
			wantValue: "0", wantSales: "0", wantAdvance: "0", wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ComputeLine(nil, "line", tt.qty,
				decimal.RequireFromString(tt.unitPrice),
				decimal.RequireFromString(tt.taxRate),
				decimal.RequireFromString(tt.advanceRate),
			)

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"Value", item.Value, tt.wantValue},
				{"SalesTaxAmount", item.SalesTaxAmount, tt.wantSales},
				{"AdvanceTaxAmount", item.AdvanceTaxAmount, tt.wantAdvance},
				{"TotalAmount", item.TotalAmount, tt.wantTotal},
			}
			for _, c := range checks {
				if !c.got.Equal(decimal.RequireFromString(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestSummarizeItems(t *testing.T) {
	items := []model.InvoiceItem{
		ComputeLine(nil, "a", 2, decimal.RequireFromString("150"), decimal.RequireFromString("10"), decimal.RequireFromString("0.5")),
		ComputeLine(nil, "b", 10, decimal.RequireFromString("100"), decimal.RequireFromString("18"), decimal.RequireFromString("0.5")),
	}

	totals := SummarizeItems(items)

	if !totals.Subtotal.Equal(decimal.RequireFromString("1300")) {
		t.Errorf("Subtotal = %s, want 1300", totals.Subtotal)
	}
	if !totals.SalesTax.Equal(decimal.RequireFromString("210")) {
		t.Errorf("SalesTax = %s, want 210", totals.SalesTax)
	}
	if !totals.AdvanceTax.Equal(decimal.RequireFromString("6.5")) {
		t.Errorf("AdvanceTax = %s, want 6.5", totals.AdvanceTax)
	}
	if !totals.GrandTotal.Equal(decimal.RequireFromString("1516.5")) {
		t.Errorf("GrandTotal = %s, want 1516.5", totals.GrandTotal)
	}
	if totals.TotalQty != 12 {
		t.Errorf("TotalQty = %d, want 12", totals.TotalQty)
	}
}

func TestSummarizeItemsEmpty(t *testing.T) {
	totals := SummarizeItems(nil)
	if !totals.GrandTotal.IsZero() || !totals.Subtotal.IsZero() || totals.TotalQty != 0 {
		t.Errorf("empty fold should be all zero, got %+v", totals)
	}
}

func TestPriceLine(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	settingsRepo := repository.NewSettingsRepository(db)
	productRepo := repository.NewProductRepository(db)
	pricing := NewPricingService(productRepo, settingsRepo)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	t.Run("catalog product", func(t *testing.T) {
		item, err := pricing.PriceLine(ctx, customer.ID, LineInput{ProductID: &product.ID, Qty: 10})
		if err != nil {
			t.Fatalf("PriceLine() error = %v", err)
		}
		if item.Description != "Steel Pipe" {
			t.Errorf("Description = %q, want product name", item.Description)
		}
		if !item.TotalAmount.Equal(decimal.RequireFromString("1185")) {
			t.Errorf("TotalAmount = %s, want 1185", item.TotalAmount)
		}
	})

	t.Run("customer override price wins", func(t *testing.T) {
		err := productRepo.UpsertOverride(ctx, &model.CustomerProductPrice{
			CustomerID: customer.ID,
			ProductID:  product.ID,
			Price:      decimal.RequireFromString("90.00"),
		})
		if err != nil {
			t.Fatalf("UpsertOverride() error = %v", err)
		}

		item, err := pricing.PriceLine(ctx, customer.ID, LineInput{ProductID: &product.ID, Qty: 1})
		if err != nil {
			t.Fatalf("PriceLine() error = %v", err)
		}
		if !item.UnitPrice.Equal(decimal.RequireFromString("90")) {
			t.Errorf("UnitPrice = %s, want override 90", item.UnitPrice)
		}
	})

	t.Run("other customers keep catalog price", func(t *testing.T) {
		other := seedCustomer(t, db, "Beta Stores")
		item, err := pricing.PriceLine(ctx, other.ID, LineInput{ProductID: &product.ID, Qty: 1})
		if err != nil {
			t.Fatalf("PriceLine() error = %v", err)
		}
		if !item.UnitPrice.Equal(decimal.RequireFromString("100")) {
			t.Errorf("UnitPrice = %s, want catalog 100", item.UnitPrice)
		}
	})

	t.Run("free-text line", func(t *testing.T) {
		item, err := pricing.PriceLine(ctx, customer.ID, LineInput{
			Description: "Delivery charges",
			Qty:         1,
			UnitPrice:   decPtr("500.00"),
			TaxRate:     decPtr("0"),
		})
		if err != nil {
			t.Fatalf("PriceLine() error = %v", err)
		}
		if !item.SalesTaxAmount.IsZero() {
			t.Errorf("SalesTaxAmount = %s, want 0", item.SalesTaxAmount)
		}
		if !item.TotalAmount.Equal(decimal.RequireFromString("502.5")) {
			t.Errorf("TotalAmount = %s, want 502.5 (advance tax still applies)", item.TotalAmount)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := pricing.PriceLine(ctx, customer.ID, LineInput{ProductID: &product.ID, Qty: 0})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("error = %v, want ErrInvalidQuantity", err)
		}
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		_, err := pricing.PriceLine(ctx, customer.ID, LineInput{ProductID: &product.ID, Qty: -3})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("error = %v, want ErrInvalidQuantity", err)
		}
	})

	t.Run("unknown product without description", func(t *testing.T) {
		_, err := pricing.PriceLine(ctx, customer.ID, LineInput{ProductID: uintPtr(9999), Qty: 1})
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("unknown product falls back to free text", func(t *testing.T) {
		item, err := pricing.PriceLine(ctx, customer.ID, LineInput{
			ProductID:   uintPtr(9999),
			Description: "Discontinued item",
			Qty:         2,
			UnitPrice:   decPtr("10.00"),
			TaxRate:     decPtr("18"),
		})
		if err != nil {
			t.Fatalf("PriceLine() error = %v", err)
		}
		if item.ProductID != nil {
			t.Errorf("ProductID = %v, want nil product reference", *item.ProductID)
		}
		if !item.Value.Equal(decimal.RequireFromString("20")) {
			t.Errorf("Value = %s, want 20", item.Value)
		}
	})
}
