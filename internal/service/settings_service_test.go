package service

import (
	"context"
	"testing"

	"invoicedesk/internal/repository"

	"gorm.io/gorm"
)

func newSettingsService(db *gorm.DB) SettingsService {
	return NewSettingsService(
		repository.NewCompanyRepository(db),
		repository.NewSettingsRepository(db),
	)
}

func TestCompanyProfileRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newSettingsService(db)

	// Fresh database: empty profile, no error.
	company, err := svc.GetCompany(ctx)
	if err != nil {
		t.Fatalf("GetCompany() error = %v", err)
	}
	if company.Name != "" {
		t.Errorf("fresh profile Name = %q, want empty", company.Name)
	}

	saved, err := svc.SaveCompany(ctx, CompanyProfileRequest{
		Name:    "  Frontier Steel Works  ",
		Address: "Plot 12, Industrial Estate",
		NTN:     "1234567-8",
		STRN:    "32-00-1111-222-33",
	})
	if err != nil {
		t.Fatalf("SaveCompany() error = %v", err)
	}
	if saved.Name != "Frontier Steel Works" {
		t.Errorf("Name = %q, want trimmed", saved.Name)
	}

	// Save again: same singleton row, not a second one.
	if _, err := svc.SaveCompany(ctx, CompanyProfileRequest{Name: "Frontier Steel Works", Address: "New address"}); err != nil {
		t.Fatalf("SaveCompany() second call error = %v", err)
	}
	loaded, err := svc.GetCompany(ctx)
	if err != nil {
		t.Fatalf("GetCompany() error = %v", err)
	}
	if loaded.ID != saved.ID {
		t.Errorf("second save created row %d, want update of row %d", loaded.ID, saved.ID)
	}
	if loaded.Address != "New address" {
		t.Errorf("Address = %q, want updated value", loaded.Address)
	}
}

func TestSaveCompanyRequiresName(t *testing.T) {
	db := newTestDB(t)
	svc := newSettingsService(db)

	if _, err := svc.SaveCompany(context.Background(), CompanyProfileRequest{Name: "   "}); err == nil {
		t.Error("SaveCompany() with blank name should fail")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newSettingsService(db)

	defaults, err := svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if defaults.InvoicePrefix != "INV-" || defaults.NextNumber != 1 || defaults.AdvanceTaxRate != "0.5" {
		t.Errorf("unexpected defaults: %+v", defaults)
	}

	err = svc.SavePreferences(ctx, Preferences{
		InvoicePrefix:  "FS-",
		NextNumber:     100,
		AdvanceTaxRate: "1.25",
		DefaultPDFDir:  "out/pdfs",
		AutoOpenPDF:    true,
	})
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	loaded, err := svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if loaded.InvoicePrefix != "FS-" || loaded.NextNumber != 100 || loaded.AdvanceTaxRate != "1.25" || loaded.DefaultPDFDir != "out/pdfs" || !loaded.AutoOpenPDF {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestSavePreferencesValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newSettingsService(db)

	if err := svc.SavePreferences(ctx, Preferences{AdvanceTaxRate: "not-a-number"}); err == nil {
		t.Error("SavePreferences() with bad advance rate should fail")
	}

	// Zero and negative counters clamp to 1.
	if err := svc.SavePreferences(ctx, Preferences{NextNumber: -5}); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	prefs, err := svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.NextNumber != 1 {
		t.Errorf("NextNumber = %d, want clamped to 1", prefs.NextNumber)
	}
}

func TestAppPasswordLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newSettingsService(db)

	// No password configured: gate is open.
	protected, err := svc.PasswordProtected(ctx)
	if err != nil {
		t.Fatalf("PasswordProtected() error = %v", err)
	}
	if protected {
		t.Error("fresh database should not be password protected")
	}
	ok, err := svc.VerifyPassword(ctx, "anything")
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("VerifyPassword() with no password set should pass")
	}

	if err := svc.SetPassword(ctx, "s3cret"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	protected, _ = svc.PasswordProtected(ctx)
	if !protected {
		t.Error("PasswordProtected() = false after SetPassword")
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "s3cret", true},
		{"wrong password", "nope", false},
		{"empty password", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.VerifyPassword(ctx, tt.password)
			if err != nil {
				t.Fatalf("VerifyPassword() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}

	// Clearing reopens the gate.
	if err := svc.SetPassword(ctx, ""); err != nil {
		t.Fatalf("SetPassword(empty) error = %v", err)
	}
	protected, _ = svc.PasswordProtected(ctx)
	if protected {
		t.Error("PasswordProtected() = true after clearing password")
	}
}
