package model

import (
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/infrastructure/search"
)

// Review represents a book review entity
type Review struct {
	ID     uuid.UUID `json:"id"`
	BookID uuid.UUID `json:"book_id"`

	Text    string `json:"text"`
	Score   int    `json:"score"` // 1-5
	UpVotes int    `json:"up_votes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchDocument projects the review for the search index
func (r *Review) SearchDocument() search.ReviewDocument {
	return search.ReviewDocument{
		ID:     r.ID,
		BookID: r.BookID,
		Text:   r.Text,
		Score:  r.Score,
	}
}
