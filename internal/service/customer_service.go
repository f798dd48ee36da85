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

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	NTN     string `json:"ntn"`
	STRN    string `json:"strn"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type PriceOverrideRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Price     string `json:"price" binding:"required"`
}

// --- Interface ---

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, req CustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error)

	SetPriceOverride(ctx context.Context, customerID uint, req PriceOverrideRequest) (*model.CustomerProductPrice, error)
	ListPriceOverrides(ctx context.Context, customerID uint) ([]model.CustomerProductPrice, error)
	DeletePriceOverride(ctx context.Context, customerID, productID uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, productRepo repository.ProductRepository) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// --- Implementation ---

func (s *customerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:    req.Name,
		Address: req.Address,
		NTN:     req.NTN,
		STRN:    req.STRN,
		Contact: req.Contact,
		Email:   req.Email,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, req CustomerRequest) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	customer.Name = req.Name
	customer.Address = req.Address
	customer.NTN = req.NTN
	customer.STRN = req.STRN
	customer.Contact = req.Contact
	customer.Email = req.Email

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer refuses when invoices still reference the customer;
// that surfaces as a foreign-key violation from the store.
func (s *customerService) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("customer is referenced by invoices: %w", ErrConstraintViolation)
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	customers, total, err := s.customerRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return customers, total, nil
}

func (s *customerService) SetPriceOverride(ctx context.Context, customerID uint, req PriceOverrideRequest) (*model.CustomerProductPrice, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	override := &model.CustomerProductPrice{
		CustomerID: customerID,
		ProductID:  req.ProductID,
		Price:      price.Round(2),
	}
	if err := s.productRepo.UpsertOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to save price override: %w", err)
	}
	return override, nil
}

func (s *customerService) ListPriceOverrides(ctx context.Context, customerID uint) ([]model.CustomerProductPrice, error) {
	overrides, err := s.productRepo.ListOverrides(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price overrides: %w", err)
	}
	return overrides, nil
}

func (s *customerService) DeletePriceOverride(ctx context.Context, customerID, productID uint) error {
	if err := s.productRepo.DeleteOverride(ctx, customerID, productID); err != nil {
		return fmt.Errorf("failed to delete price override: %w", err)
	}
	return nil
}
