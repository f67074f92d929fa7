package model

import (
	"time"

	"github.com/google/uuid"
)

// Author represents an author entity
type Author struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Country     *string    `json:"country"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
