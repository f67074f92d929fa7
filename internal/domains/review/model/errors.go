package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound = "REV001"
	ErrCodeBookNotFound   = "REV002"
	ErrCodeInvalidScore   = "REV003"
)

// Errors
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrInvalidScore   = errors.New("score out of range")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewReviewNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found",
		Err:     ErrReviewNotFound,
	}
}

func NewBookNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeBookNotFound,
		Message: "The reviewed book does not exist",
		Err:     ErrBookNotFound,
	}
}

func NewInvalidScoreError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeInvalidScore,
		Message: fmt.Sprintf("Score must be between %d and %d", MinScore, MaxScore),
		Err:     ErrInvalidScore,
	}
}
