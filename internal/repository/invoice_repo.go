package repository

import (
	"context"
	"fmt"

	"invoicedesk/internal/model"

	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Invoice, error)
	FindByNo(ctx context.Context, invoiceNo string) (*model.Invoice, error)
	ExistsByNo(ctx context.Context, invoiceNo string) (bool, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Invoice, int64, error)
	ListByDateRange(ctx context.Context, start, end string) ([]model.Invoice, error)
	Recent(ctx context.Context, limit int) ([]model.Invoice, error)
	Count(ctx context.Context) (int64, error)
	NextSequenceAfter(ctx context.Context, prefix string) (int, error)
	UpdatePDFPath(ctx context.Context, id uint, pdfPath string) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts the header and its line items in one statement batch.
// Items ride along via the association.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

// Delete removes the invoice row; line items cascade.
func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Invoice{}, id).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Company").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNo(ctx context.Context, invoiceNo string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		Where("invoice_no = ?", invoiceNo).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ExistsByNo(ctx context.Context, invoiceNo string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_no = ?", invoiceNo).
		Count(&count).Error
	return count > 0, err
}

// List searches by invoice number or customer name, newest first.
func (r *invoiceRepository) List(ctx context.Context, search string, page, limit int) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Invoice{})
	if search != "" {
		q := "%" + search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
			Where("invoices.invoice_no LIKE ? OR customers.name LIKE ?", q, q)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Preload("Customer").
		Order("invoices.date DESC, invoices.id DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) ListByDateRange(ctx context.Context, start, end string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC, invoice_no ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Recent(ctx context.Context, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).Count(&count).Error
	return count, err
}

// NextSequenceAfter scans existing invoice numbers under a prefix and
// returns the highest numeric suffix plus one. Used to resync the
// counter after a stale-settings collision (e.g. a manual restore).
func (r *invoiceRepository) NextSequenceAfter(ctx context.Context, prefix string) (int, error) {
	var result struct {
		MaxSeq int
	}
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTR(invoice_no, %d) AS INTEGER)), 0) AS max_seq", len(prefix)+1)).
		Where("invoice_no LIKE ?", prefix+"%").
		Scan(&result).Error
	if err != nil {
		return 0, err
	}
	return result.MaxSeq + 1, nil
}

func (r *invoiceRepository) UpdatePDFPath(ctx context.Context, id uint, pdfPath string) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("pdf_path", pdfPath).Error
}
