package model

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the number of units a book sold in one calendar year.
// (BookID, Year) is unique.
type Sale struct {
	ID     uuid.UUID `json:"id"`
	BookID uuid.UUID `json:"book_id"`
	Year   int       `json:"year"`
	Units  int64     `json:"units"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
