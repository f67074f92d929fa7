package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/shared/utils"
)

const (
	MaxTitleLength   = 500
	MaxSummaryLength = 10000

	DefaultPerPage = 20
	MaxPerPage     = 100
)

// CreateBookRequest - POST /api/v1/books
type CreateBookRequest struct {
	AuthorID        uuid.UUID `json:"author_id"`
	Title           string    `json:"title"`
	Summary         *string   `json:"summary"`
	PublicationDate *string   `json:"publication_date"` // YYYY-MM-DD
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Summary, validation.Length(0, MaxSummaryLength)),
		validation.Field(&r.PublicationDate,
			validation.Date(utils.DateLayout).Error("publication_date must be YYYY-MM-DD"),
		),
	)
}

// UpdateBookRequest - PUT /api/v1/books/:id
// Omitted fields keep their current value.
type UpdateBookRequest struct {
	AuthorID        *uuid.UUID `json:"author_id"`
	Title           *string    `json:"title"`
	Summary         *string    `json:"summary"`
	PublicationDate *string    `json:"publication_date"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Title,
			validation.When(r.Title != nil,
				validation.Required.Error("title cannot be blank"),
				validation.Length(1, MaxTitleLength),
			),
		),
		validation.Field(&r.Summary, validation.Length(0, MaxSummaryLength)),
		validation.Field(&r.PublicationDate,
			validation.Date(utils.DateLayout).Error("publication_date must be YYYY-MM-DD"),
		),
	)
}

type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Title           string    `json:"title"`
	Summary         *string   `json:"summary"`
	PublicationDate *string   `json:"publication_date"`
	TotalSales      int64     `json:"total_sales"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (b *Book) ToResponse() BookResponse {
	return BookResponse{
		ID:              b.ID,
		AuthorID:        b.AuthorID,
		Title:           b.Title,
		Summary:         b.Summary,
		PublicationDate: utils.FormatDate(b.PublicationDate),
		TotalSales:      b.TotalSales,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
