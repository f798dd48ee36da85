package service

import "errors"

// Recoverable business errors. Handlers map these to HTTP statuses with
// errors.Is; none of them is fatal to the process.
var (
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrProductNotFound        = errors.New("product not found")
	ErrEmptyInvoice           = errors.New("invoice has no line items")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
	ErrConstraintViolation    = errors.New("operation violates a database constraint")
)
