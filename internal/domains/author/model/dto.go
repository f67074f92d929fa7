package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	Name        string  `json:"name"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD
	Country     *string `json:"country"`
	Description *string `json:"description"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, MaxNameLength).Error("name must be at most 255 characters"),
		),
		validation.Field(&r.DateOfBirth,
			validation.Date(utils.DateLayout).Error("date_of_birth must be YYYY-MM-DD"),
		),
		validation.Field(&r.Country, validation.Length(0, MaxCountryLength)),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLength)),
	)
}

// UpdateAuthorRequest - PUT /api/v1/authors/:id
// Omitted fields keep their current value.
type UpdateAuthorRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Country     *string `json:"country"`
	Description *string `json:"description"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil,
				validation.Required.Error("name cannot be blank"),
				validation.Length(1, MaxNameLength).Error("name must be at most 255 characters"),
			),
		),
		validation.Field(&r.DateOfBirth,
			validation.Date(utils.DateLayout).Error("date_of_birth must be YYYY-MM-DD"),
		),
		validation.Field(&r.Country, validation.Length(0, MaxCountryLength)),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLength)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth *string   `json:"date_of_birth"`
	Country     *string   `json:"country"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts entity to response DTO
func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		DateOfBirth: utils.FormatDate(a.DateOfBirth),
		Country:     a.Country,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type ListAuthorsResponse struct {
	Authors []AuthorResponse `json:"authors"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int64            `json:"total"`
}
