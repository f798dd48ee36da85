package repository

import (
	"context"

	"invoicedesk/internal/model"

	"gorm.io/gorm"
)

// CompanyRepository manages the singleton company profile row.
type CompanyRepository interface {
	Get(ctx context.Context) (*model.Company, error)
	Upsert(ctx context.Context, company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context) (*model.Company, error) {
	var company model.Company
	if err := GetDB(ctx, r.db).Order("id").First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Upsert updates the existing profile in place, or inserts it on first
// save. There is never more than one row.
func (r *companyRepository) Upsert(ctx context.Context, company *model.Company) error {
	db := GetDB(ctx, r.db)

	var existing model.Company
	err := db.Order("id").First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(company).Error
	}
	if err != nil {
		return err
	}

	company.ID = existing.ID
	company.CreatedAt = existing.CreatedAt
	return db.Save(company).Error
}
