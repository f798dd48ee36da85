package service

import (
	"context"
	"errors"
	"fmt"

	"invoicedesk/internal/model"
	"invoicedesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Barcode     string `json:"barcode"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	TaxRate     string `json:"tax_rate"` // percent, defaults to 18.00
}

type ProductFilter struct {
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id uint) error
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// --- Implementation ---

func parseMoney(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d.Round(2), nil
}

func (s *productService) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	unitPrice, err := parseMoney("unit_price", req.UnitPrice)
	if err != nil {
		return nil, err
	}

	taxRate := decimal.RequireFromString("18.00")
	if req.TaxRate != "" {
		taxRate, err = parseMoney("tax_rate", req.TaxRate)
		if err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		Active:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	unitPrice, err := parseMoney("unit_price", req.UnitPrice)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.SKU = req.SKU
	product.Barcode = req.Barcode
	product.UnitPrice = unitPrice
	if req.TaxRate != "" {
		taxRate, err := parseMoney("tax_rate", req.TaxRate)
		if err != nil {
			return nil, err
		}
		product.TaxRate = taxRate
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeactivateProduct soft-deletes: the row stays so invoice history and
// historical PDFs keep resolving, but listings and pickers drop it.
func (s *productService) DeactivateProduct(ctx context.Context, id uint) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to load product: %w", err)
	}
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	products, total, err := s.productRepo.List(ctx, filter.Search, filter.IncludeInactive, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}
