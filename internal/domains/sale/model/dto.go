package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/shared/utils"
)

const (
	MinYear = 1
	MaxYear = 9999

	DefaultPerPage = 20
	MaxPerPage     = 100
)

// CreateSaleRequest - POST /api/v1/sales
// An existing (book_id, year) row gets its units replaced.
type CreateSaleRequest struct {
	BookID uuid.UUID `json:"book_id"`
	Year   int       `json:"year"`
	Units  int64     `json:"units"`
}

func (r CreateSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Year,
			validation.Required.Error("year is required"),
			validation.Min(MinYear),
			validation.Max(MaxYear),
		),
		validation.Field(&r.Units, validation.Min(0).Error("units must be >= 0")),
	)
}

// UpdateSaleRequest - PUT /api/v1/sales/:id
// Moving onto an existing (book_id, year) merges into that row.
type UpdateSaleRequest struct {
	BookID *uuid.UUID `json:"book_id"`
	Year   *int       `json:"year"`
	Units  *int64     `json:"units"`
}

func (r UpdateSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Year,
			validation.When(r.Year != nil,
				validation.Required.Error("year is required"),
				validation.Min(MinYear),
				validation.Max(MaxYear),
			),
		),
		validation.Field(&r.Units,
			validation.When(r.Units != nil, validation.Min(0).Error("units must be >= 0")),
		),
	)
}
