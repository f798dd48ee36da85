package service

import (
	"context"
	"path/filepath"
	"testing"

	"invoicedesk/internal/database"
	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway database under t.TempDir, migrated and
// seeded with the default settings rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{Name: name}
	if err := repository.NewCustomerRepository(db).Create(context.Background(), customer); err != nil {
		t.Fatalf("failed to seed customer %q: %v", name, err)
	}
	return customer
}

func seedProduct(t *testing.T, db *gorm.DB, name, unitPrice, taxRate string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:      name,
		UnitPrice: decimal.RequireFromString(unitPrice),
		TaxRate:   decimal.RequireFromString(taxRate),
		Active:    true,
	}
	if err := repository.NewProductRepository(db).Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product %q: %v", name, err)
	}
	return product
}

// newInvoiceService wires the real repositories against a test database.
// The websocket hub is left nil; broadcasting is not under test here.
func newInvoiceService(db *gorm.DB) InvoiceService {
	settingsRepo := repository.NewSettingsRepository(db)
	productRepo := repository.NewProductRepository(db)
	pricing := NewPricingService(productRepo, settingsRepo)
	return NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewCompanyRepository(db),
		settingsRepo,
		pricing,
		repository.NewTxManager(db),
		nil,
	)
}

func uintPtr(v uint) *uint { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
