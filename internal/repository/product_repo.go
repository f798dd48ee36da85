package repository

import (
	"context"
	"errors"

	"invoicedesk/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Deactivate(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, search string, includeInactive bool, page, limit int) ([]model.Product, int64, error)
	All(ctx context.Context, includeInactive bool) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)

	// Customer-specific price overrides.
	FindOverridePrice(ctx context.Context, customerID, productID uint) (*decimal.Decimal, error)
	UpsertOverride(ctx context.Context, override *model.CustomerProductPrice) error
	ListOverrides(ctx context.Context, customerID uint) ([]model.CustomerProductPrice, error)
	DeleteOverride(ctx context.Context, customerID, productID uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

// Deactivate is the product delete path: a soft delete via the active
// flag, so historical invoice items keep resolving.
func (r *productRepository) Deactivate(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, search string, includeInactive bool, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{})
	if !includeInactive {
		db = db.Where("active = ?", true)
	}
	if search != "" {
		q := "%" + search + "%"
		db = db.Where("name LIKE ? OR description LIKE ? OR sku LIKE ? OR barcode LIKE ?", q, q, q, q)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) All(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	var products []model.Product
	db := GetDB(ctx, r.db)
	if !includeInactive {
		db = db.Where("active = ?", true)
	}
	if err := db.Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Product{}).Where("active = ?", true).Count(&count).Error
	return count, err
}

// FindOverridePrice returns the customer-specific price for a product,
// or nil when no override row exists.
func (r *productRepository) FindOverridePrice(ctx context.Context, customerID, productID uint) (*decimal.Decimal, error) {
	var override model.CustomerProductPrice
	err := GetDB(ctx, r.db).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override.Price, nil
}

func (r *productRepository) UpsertOverride(ctx context.Context, override *model.CustomerProductPrice) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(override).Error
}

func (r *productRepository) ListOverrides(ctx context.Context, customerID uint) ([]model.CustomerProductPrice, error) {
	var overrides []model.CustomerProductPrice
	err := GetDB(ctx, r.db).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *productRepository) DeleteOverride(ctx context.Context, customerID, productID uint) error {
	return GetDB(ctx, r.db).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&model.CustomerProductPrice{}).Error
}
