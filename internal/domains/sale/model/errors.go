package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeSaleNotFound  = "SAL001"
	ErrCodeBookNotFound  = "SAL002"
	ErrCodeDuplicateSale = "SAL003"
	ErrCodeRecompute     = "SAL004"
)

var (
	ErrSaleNotFound  = errors.New("sale not found")
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateSale = errors.New("a sale for this book and year already exists")
	ErrRecompute     = errors.New("sales total recompute failed")
)

// SaleError custom error type
type SaleError struct {
	Code    string
	Message string
	Err     error
}

func (e *SaleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleNotFoundError() *SaleError {
	return &SaleError{Code: ErrCodeSaleNotFound, Message: "Sale not found", Err: ErrSaleNotFound}
}

func NewBookNotFoundError() *SaleError {
	return &SaleError{Code: ErrCodeBookNotFound, Message: "The referenced book does not exist", Err: ErrBookNotFound}
}

func NewDuplicateSaleError() *SaleError {
	return &SaleError{Code: ErrCodeDuplicateSale, Message: "A sale for this book and year already exists", Err: ErrDuplicateSale}
}

// NewRecomputeError reports a mutation that succeeded while the book total did not follow.
func NewRecomputeError(err error) *SaleError {
	return &SaleError{
		Code:    ErrCodeRecompute,
		Message: "Sale saved but the book sales total could not be recomputed",
		Err:     fmt.Errorf("%w: %w", ErrRecompute, err),
	}
}
