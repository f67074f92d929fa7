package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeAuthorNotFound     = "AUT001"
	ErrCodeInvalidInput       = "AUT002"
	ErrCodeInvalidImage       = "AUT003"
	ErrCodeStorageUnavailable = "AUT004"
)

// Errors
var (
	ErrAuthorNotFound     = errors.New("author not found")
	ErrInvalidInput       = errors.New("invalid author input")
	ErrInvalidImage       = errors.New("invalid image")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)

// AuthorError custom error type
type AuthorError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthorError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewAuthorNotFoundError() *AuthorError {
	return &AuthorError{
		Code:    ErrCodeAuthorNotFound,
		Message: "Author not found",
		Err:     ErrAuthorNotFound,
	}
}

func NewInvalidInputError(message string) *AuthorError {
	return &AuthorError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

func NewInvalidImageError(err error) *AuthorError {
	return &AuthorError{
		Code:    ErrCodeInvalidImage,
		Message: err.Error(),
		Err:     ErrInvalidImage,
	}
}

func NewStorageUnavailableError() *AuthorError {
	return &AuthorError{
		Code:    ErrCodeStorageUnavailable,
		Message: "Image storage is not configured",
		Err:     ErrStorageUnavailable,
	}
}
