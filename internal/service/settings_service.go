package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CompanyProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	NTN     string `json:"ntn"`
	STRN    string `json:"strn"`
}

// Preferences collects the application-level settings rows into one
// typed view for the UI.
type Preferences struct {
	InvoicePrefix  string `json:"invoice_prefix"`
	NextNumber     int    `json:"next_invoice_number"`
	AdvanceTaxRate string `json:"advance_tax_rate"`
	DefaultPDFDir  string `json:"default_pdf_dir"`
	AutoOpenPDF    bool   `json:"auto_open_pdf"`
}

// --- Interface ---

type SettingsService interface {
	GetCompany(ctx context.Context) (*model.Company, error)
	SaveCompany(ctx context.Context, req CompanyProfileRequest) (*model.Company, error)
	GetPreferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, prefs Preferences) error
	SetPassword(ctx context.Context, password string) error
	VerifyPassword(ctx context.Context, password string) (bool, error)
	PasswordProtected(ctx context.Context) (bool, error)
}

type settingsService struct {
	companyRepo  repository.CompanyRepository
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(companyRepo repository.CompanyRepository, settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
	}
}

// --- Implementation ---

func (s *settingsService) GetCompany(ctx context.Context) (*model.Company, error) {
	company, err := s.companyRepo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Company{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	return company, nil
}

func (s *settingsService) SaveCompany(ctx context.Context, req CompanyProfileRequest) (*model.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}

	company := &model.Company{
		Name:    name,
		Address: strings.TrimSpace(req.Address),
		Contact: strings.TrimSpace(req.Contact),
		NTN:     strings.TrimSpace(req.NTN),
		STRN:    strings.TrimSpace(req.STRN),
	}
	if err := s.companyRepo.Upsert(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company profile: %w", err)
	}
	return company, nil
}

func (s *settingsService) GetPreferences(ctx context.Context) (Preferences, error) {
	prefix, err := s.settingsRepo.GetOrDefault(ctx, model.KeyInvoicePrefix, model.DefaultInvoicePrefix)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	next, err := s.settingsRepo.GetInt(ctx, model.KeyNextInvoiceNumber, 1)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	advRate, err := s.settingsRepo.GetOrDefault(ctx, model.KeyAdvanceTaxRate, model.DefaultAdvanceTaxRate)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	pdfDir, err := s.settingsRepo.GetOrDefault(ctx, model.KeyDefaultPDFDir, model.DefaultPDFDir)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	autoOpen, err := s.settingsRepo.GetOrDefault(ctx, model.KeyAutoOpenPDF, model.DefaultAutoOpenPDF)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	return Preferences{
		InvoicePrefix:  prefix,
		NextNumber:     next,
		AdvanceTaxRate: advRate,
		DefaultPDFDir:  pdfDir,
		AutoOpenPDF:    autoOpen == "1",
	}, nil
}

func (s *settingsService) SavePreferences(ctx context.Context, prefs Preferences) error {
	prefix := strings.TrimSpace(prefs.InvoicePrefix)
	if prefix == "" {
		prefix = model.DefaultInvoicePrefix
	}
	if prefs.NextNumber < 1 {
		prefs.NextNumber = 1
	}
	rate := strings.TrimSpace(prefs.AdvanceTaxRate)
	if rate == "" {
		rate = model.DefaultAdvanceTaxRate
	}
	if _, err := decimal.NewFromString(rate); err != nil {
		return fmt.Errorf("invalid advance tax rate %q: %w", prefs.AdvanceTaxRate, err)
	}
	pdfDir := strings.TrimSpace(prefs.DefaultPDFDir)
	if pdfDir == "" {
		pdfDir = model.DefaultPDFDir
	}
	autoOpen := "0"
	if prefs.AutoOpenPDF {
		autoOpen = "1"
	}

	err := s.settingsRepo.SetAll(ctx, map[string]string{
		model.KeyInvoicePrefix:     prefix,
		model.KeyNextInvoiceNumber: strconv.Itoa(prefs.NextNumber),
		model.KeyAdvanceTaxRate:    rate,
		model.KeyDefaultPDFDir:     pdfDir,
		model.KeyAutoOpenPDF:       autoOpen,
	})
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// SetPassword stores a bcrypt hash of the app password. An empty
// password clears the gate.
func (s *settingsService) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		return s.settingsRepo.Set(ctx, model.KeyAppPasswordHash, "")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.settingsRepo.Set(ctx, model.KeyAppPasswordHash, string(hash))
}

// VerifyPassword reports whether the supplied password unlocks the app.
// With no password configured everything passes.
func (s *settingsService) VerifyPassword(ctx context.Context, password string) (bool, error) {
	hash, err := s.settingsRepo.GetOrDefault(ctx, model.KeyAppPasswordHash, "")
	if err != nil {
		return false, fmt.Errorf("failed to load password hash: %w", err)
	}
	if hash == "" {
		return true, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

func (s *settingsService) PasswordProtected(ctx context.Context) (bool, error) {
	hash, err := s.settingsRepo.GetOrDefault(ctx, model.KeyAppPasswordHash, "")
	if err != nil {
		return false, fmt.Errorf("failed to load password hash: %w", err)
	}
	return hash != "", nil
}
