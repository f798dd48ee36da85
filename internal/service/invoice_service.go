package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"
	"invoicedesk/internal/ws"

	"gorm.io/gorm"
)

// numberingAttempts bounds the auto-number retry loop. A collision means
// the persisted counter went stale (e.g. the settings row was edited or
// a backup restored); one resync is normally enough.
const numberingAttempts = 3

// --- DTOs ---

type CreateInvoiceRequest struct {
	CustomerID uint        `json:"customer_id" binding:"required"`
	InvoiceNo  string      `json:"invoice_no"` // optional manual number; leaves the counter untouched
	Date       string      `json:"date"`       // YYYY-MM-DD, defaults to today
	Notes      string      `json:"notes"`
	ShippedTo  string      `json:"shipped_to"`
	Items      []LineInput `json:"items" binding:"required"`
}

type InvoiceFilter struct {
	Search string // partial match on invoice number or customer name
	Page   int
	Limit  int
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id uint) (*model.Invoice, error)
	GetInvoiceByNo(ctx context.Context, invoiceNo string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	DeleteInvoice(ctx context.Context, id uint) error
	PeekNextNumber(ctx context.Context) (string, error)
	AttachPDF(ctx context.Context, id uint, pdfPath string) error
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	settingsRepo repository.SettingsRepository
	pricing      PricingService
	txManager    repository.TxManager
	hub          *ws.Hub
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	settingsRepo repository.SettingsRepository,
	pricing PricingService,
	txManager repository.TxManager,
	hub *ws.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
		pricing:      pricing,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Implementation ---

// CreateInvoice prices the requested lines, folds them into header
// totals, stamps the next invoice number and persists everything in one
// transaction. A failed insert rolls the numbering counter back with it.
func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*model.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyInvoice
	}

	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", req.CustomerID, ErrConstraintViolation)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", req.Date, err)
	}

	items := make([]model.InvoiceItem, 0, len(req.Items))
	for i, input := range req.Items {
		item, err := s.pricing.PriceLine(ctx, req.CustomerID, input)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	totals := SummarizeItems(items)

	var companyID *uint
	if company, err := s.companyRepo.Get(ctx); err == nil {
		companyID = &company.ID
	}

	invoice := &model.Invoice{
		CustomerID:  req.CustomerID,
		CompanyID:   companyID,
		Date:        date,
		Subtotal:    totals.Subtotal,
		SalesTax:    totals.SalesTax,
		AdvanceTax:  totals.AdvanceTax,
		TotalAmount: totals.GrandTotal,
		Notes:       req.Notes,
		ShippedTo:   req.ShippedTo,
		Items:       items,
	}

	if req.InvoiceNo != "" {
		if err := s.saveWithManualNumber(ctx, invoice, req.InvoiceNo); err != nil {
			return nil, err
		}
	} else {
		if err := s.saveWithGeneratedNumber(ctx, invoice); err != nil {
			return nil, err
		}
	}

	s.broadcast("invoice.created", invoice)

	return s.invoiceRepo.FindByID(ctx, invoice.ID)
}

// saveWithManualNumber persists an invoice under a caller-chosen number.
// The sequence counter is not consumed.
func (s *invoiceService) saveWithManualNumber(ctx context.Context, invoice *model.Invoice, invoiceNo string) error {
	invoice.InvoiceNo = invoiceNo
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		taken, err := s.invoiceRepo.ExistsByNo(txCtx, invoiceNo)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateInvoiceNumber
		}
		return s.invoiceRepo.Create(txCtx, invoice)
	})
	if errors.Is(err, ErrDuplicateInvoiceNumber) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%q: %w", invoiceNo, ErrDuplicateInvoiceNumber)
	}
	if err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// saveWithGeneratedNumber reserves the next sequential number and
// inserts the invoice in the same transaction. On a unique-index
// collision the counter is resynced from the highest persisted suffix
// and the save retried.
func (s *invoiceService) saveWithGeneratedNumber(ctx context.Context, invoice *model.Invoice) error {
	resync := false
	for attempt := 0; attempt < numberingAttempts; attempt++ {
		err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			prefix, err := s.settingsRepo.GetOrDefault(txCtx, model.KeyInvoicePrefix, model.DefaultInvoicePrefix)
			if err != nil {
				return err
			}

			var next int
			if resync {
				next, err = s.invoiceRepo.NextSequenceAfter(txCtx, prefix)
			} else {
				next, err = s.settingsRepo.GetInt(txCtx, model.KeyNextInvoiceNumber, 1)
			}
			if err != nil {
				return err
			}

			invoice.InvoiceNo = prefix + strconv.Itoa(next)
			if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
				return err
			}

			return s.settingsRepo.Set(txCtx, model.KeyNextInvoiceNumber, strconv.Itoa(next+1))
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The rolled-back create may have stamped IDs onto the
			// in-memory records; clear them before the next attempt.
			invoice.ID = 0
			for i := range invoice.Items {
				invoice.Items[i].ID = 0
				invoice.Items[i].InvoiceID = 0
			}
			resync = true
			continue
		}
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return ErrDuplicateInvoiceNumber
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uint) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	return invoice, nil
}

// GetInvoiceByNo resolves an invoice by its printed number, e.g. for a
// scanned-barcode lookup.
func (s *invoiceService) GetInvoiceByNo(ctx context.Context, invoiceNo string) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByNo(ctx, invoiceNo)
	if err != nil {
		return nil, fmt.Errorf("invoice %q not found: %w", invoiceNo, err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter.Search, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, total, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id uint) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.broadcast("invoice.deleted", invoice)
	return nil
}

// PeekNextNumber previews the number the next save would use without
// consuming it.
func (s *invoiceService) PeekNextNumber(ctx context.Context) (string, error) {
	prefix, err := s.settingsRepo.GetOrDefault(ctx, model.KeyInvoicePrefix, model.DefaultInvoicePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to read invoice prefix: %w", err)
	}
	next, err := s.settingsRepo.GetInt(ctx, model.KeyNextInvoiceNumber, 1)
	if err != nil {
		return "", fmt.Errorf("failed to read invoice counter: %w", err)
	}
	return prefix + strconv.Itoa(next), nil
}

func (s *invoiceService) AttachPDF(ctx context.Context, id uint, pdfPath string) error {
	if err := s.invoiceRepo.UpdatePDFPath(ctx, id, pdfPath); err != nil {
		return fmt.Errorf("failed to store pdf path: %w", err)
	}
	return nil
}

func (s *invoiceService) broadcast(event string, invoice *model.Invoice) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":        event,
		"invoice_no":   invoice.InvoiceNo,
		"customer_id":  invoice.CustomerID,
		"total_amount": invoice.TotalAmount,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
