package database

import (
	"log"

	"invoicedesk/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewConnection opens the SQLite database at path, enforces foreign keys
// and migrates the schema. The pool is capped at one connection: the
// application is single-process and SQLite serializes writers anyway.
func NewConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Company{},
		&model.Customer{},
		&model.Product{},
		&model.CustomerProductPrice{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Setting{},
	)
	if err != nil {
		return nil, err
	}

	seedDefaultSettings(db)

	return db, nil
}

// seedDefaultSettings inserts missing preference rows without touching
// values the user already changed.
func seedDefaultSettings(db *gorm.DB) {
	defaults := map[string]string{
		model.KeyInvoicePrefix:     model.DefaultInvoicePrefix,
		model.KeyNextInvoiceNumber: model.DefaultNextNumber,
		model.KeyAdvanceTaxRate:    model.DefaultAdvanceTaxRate,
		model.KeyDefaultPDFDir:     model.DefaultPDFDir,
		model.KeyAutoOpenPDF:       model.DefaultAutoOpenPDF,
	}

	for key, value := range defaults {
		var existing model.Setting
		if err := db.Where("key = ?", key).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&model.Setting{Key: key, Value: value}).Error; err != nil {
			log.Println("WARNING: failed to seed setting", key, ":", err)
		}
	}
}
