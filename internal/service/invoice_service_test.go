package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateInvoiceTotals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	pipe := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")
	sheet := seedProduct(t, db, "Steel Sheet", "150.00", "10.00")

	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Date:       "2026-08-15",
		Items: []LineInput{
			{ProductID: &pipe.ID, Qty: 10},
			{ProductID: &sheet.ID, Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}

	if invoice.InvoiceNo != "INV-1" {
		t.Errorf("InvoiceNo = %q, want INV-1", invoice.InvoiceNo)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(invoice.Items))
	}
	// 10x100@18% = 1000 + 180 + 5; 2x150@10% = 300 + 30 + 1.50
	if !invoice.Subtotal.Equal(decimal.RequireFromString("1300")) {
		t.Errorf("Subtotal = %s, want 1300", invoice.Subtotal)
	}
	if !invoice.SalesTax.Equal(decimal.RequireFromString("210")) {
		t.Errorf("SalesTax = %s, want 210", invoice.SalesTax)
	}
	if !invoice.AdvanceTax.Equal(decimal.RequireFromString("6.5")) {
		t.Errorf("AdvanceTax = %s, want 6.5", invoice.AdvanceTax)
	}
	if !invoice.TotalAmount.Equal(decimal.RequireFromString("1516.5")) {
		t.Errorf("TotalAmount = %s, want 1516.5", invoice.TotalAmount)
	}
}

func TestSequentialNumbering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	for i := 1; i <= 3; i++ {
		invoice, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
		})
		if err != nil {
			t.Fatalf("invoice %d: CreateInvoice() error = %v", i, err)
		}
		if want := "INV-" + strconv.Itoa(i); invoice.InvoiceNo != want {
			t.Errorf("invoice %d: InvoiceNo = %q, want %q", i, invoice.InvoiceNo, want)
		}
	}
}

func TestFailedCreateDoesNotConsumeNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	// Validation failure: bad quantity on the second line.
	_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []LineInput{
			{ProductID: &product.ID, Qty: 1},
			{ProductID: &product.ID, Qty: 0},
		},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("error = %v, want ErrInvalidQuantity", err)
	}

	// Validation failure: unknown customer.
	_, err = svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: 9999,
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("error = %v, want ErrConstraintViolation", err)
	}

	count, err := repository.NewInvoiceRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("invoice count = %d after failed saves, want 0", count)
	}

	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if invoice.InvoiceNo != "INV-1" {
		t.Errorf("InvoiceNo = %q, want INV-1 (failed saves must not burn numbers)", invoice.InvoiceNo)
	}
}

func TestEmptyInvoiceRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	customer := seedCustomer(t, db, "Acme Traders")

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{CustomerID: customer.ID})
	if !errors.Is(err, ErrEmptyInvoice) {
		t.Fatalf("error = %v, want ErrEmptyInvoice", err)
	}
}

func TestManualInvoiceNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	manual, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		InvoiceNo:  "CUSTOM-77",
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if manual.InvoiceNo != "CUSTOM-77" {
		t.Errorf("InvoiceNo = %q, want CUSTOM-77", manual.InvoiceNo)
	}

	// Manual numbers must leave the counter alone.
	next, err := svc.PeekNextNumber(ctx)
	if err != nil {
		t.Fatalf("PeekNextNumber() error = %v", err)
	}
	if next != "INV-1" {
		t.Errorf("PeekNextNumber() = %q, want INV-1", next)
	}

	// Reusing the number is a conflict.
	_, err = svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		InvoiceNo:  "CUSTOM-77",
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if !errors.Is(err, ErrDuplicateInvoiceNumber) {
		t.Fatalf("error = %v, want ErrDuplicateInvoiceNumber", err)
	}
}

func TestGetInvoiceByNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	created, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}

	invoice, err := svc.GetInvoiceByNo(ctx, "INV-1")
	if err != nil {
		t.Fatalf("GetInvoiceByNo() error = %v", err)
	}
	if invoice.ID != created.ID {
		t.Errorf("ID = %d, want %d", invoice.ID, created.ID)
	}
	if invoice.Customer == nil || invoice.Customer.Name != "Acme Traders" {
		t.Error("expected customer preloaded on lookup by number")
	}
	if len(invoice.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(invoice.Items))
	}

	if _, err := svc.GetInvoiceByNo(ctx, "INV-999"); err == nil {
		t.Error("GetInvoiceByNo() with unknown number should fail")
	}
}

func TestNumberingRecoversFromStaleCounter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)
	settingsRepo := repository.NewSettingsRepository(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
		}); err != nil {
			t.Fatalf("CreateInvoice() error = %v", err)
		}
	}

	// Wind the counter back, as a restored backup would.
	if err := settingsRepo.Set(ctx, model.KeyNextInvoiceNumber, "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []LineInput{{ProductID: &product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if invoice.InvoiceNo != "INV-3" {
		t.Errorf("InvoiceNo = %q, want INV-3 after counter resync", invoice.InvoiceNo)
	}

	next, err := settingsRepo.GetInt(ctx, model.KeyNextInvoiceNumber, 0)
	if err != nil {
		t.Fatalf("GetInt() error = %v", err)
	}
	if next != 4 {
		t.Errorf("counter = %d after resync, want 4", next)
	}
}

func TestPeekNextNumberDoesNotIncrement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	for i := 0; i < 3; i++ {
		next, err := svc.PeekNextNumber(ctx)
		if err != nil {
			t.Fatalf("PeekNextNumber() error = %v", err)
		}
		if next != "INV-1" {
			t.Fatalf("PeekNextNumber() = %q on call %d, want INV-1", next, i+1)
		}
	}
}

func TestDeleteInvoiceRemovesItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newInvoiceService(db)

	customer := seedCustomer(t, db, "Acme Traders")
	product := seedProduct(t, db, "Steel Pipe", "100.00", "18.00")

	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []LineInput{{ProductID: &product.ID, Qty: 2}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}

	if err := svc.DeleteInvoice(ctx, invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice() error = %v", err)
	}

	var itemCount int64
	if err := db.Model(&model.InvoiceItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 0 {
		t.Errorf("item count = %d after delete, want 0 (cascade)", itemCount)
	}

	if _, err := svc.GetInvoice(ctx, invoice.ID); err == nil {
		t.Error("GetInvoice() after delete should fail")
	}
}
