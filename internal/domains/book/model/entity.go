package model

import (
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/infrastructure/search"
)

// Book represents a book entity.
// TotalSales is derived from the sales table and only written by the sales recompute.
type Book struct {
	ID              uuid.UUID  `json:"id"`
	AuthorID        uuid.UUID  `json:"author_id"`
	Title           string     `json:"title"`
	Summary         *string    `json:"summary"`
	PublicationDate *time.Time `json:"publication_date"`
	TotalSales      int64      `json:"total_sales"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchDocument projects the book for the search index.
func (b *Book) SearchDocument(authorName string) search.BookDocument {
	doc := search.BookDocument{
		ID:              b.ID,
		Title:           b.Title,
		AuthorName:      authorName,
		PublicationDate: b.PublicationDate,
	}
	if b.Summary != nil {
		doc.Summary = *b.Summary
	}
	return doc
}
