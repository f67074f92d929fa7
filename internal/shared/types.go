package shared

import "time"

// Queues
const (
	QueueSearch      = "search"
	QueueMaintenance = "maintenance"
)

// Task types
const (
	TypeSearchUpsertBook    = "search:upsert_book"
	TypeSearchDeleteBook    = "search:delete_book"
	TypeSearchUpsertReview  = "search:upsert_review"
	TypeSearchDeleteReview  = "search:delete_review"
	TypeReconcileSaleTotals = "sales:reconcile_totals"
)

// SearchBookPayload carries a book document for the index.
type SearchBookPayload struct {
	BookID          string     `json:"book_id"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	AuthorName      string     `json:"author_name"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// SearchReviewPayload carries a review document for the index.
type SearchReviewPayload struct {
	ReviewID string `json:"review_id"`
	BookID   string `json:"book_id"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
}

// SearchDeletePayload identifies a document to remove.
type SearchDeletePayload struct {
	ID string `json:"id"`
}

// ReconcileSaleTotalsPayload records who asked for a reconcile run.
type ReconcileSaleTotalsPayload struct {
	Trigger string `json:"trigger"` // schedule, manual
}
