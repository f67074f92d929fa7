package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopRatedLimit   = 10
	TopSellingLimit = 50
	TopPerYear      = 5

	DefaultSearchPerPage = 10
	MaxSearchPerPage     = 100
)

// AuthorSummary - one row per author, zero values when the author has no books
type AuthorSummary struct {
	AuthorID       uuid.UUID `json:"author_id"`
	Name           string    `json:"name"`
	PublishedBooks int64     `json:"published_books"`
	AverageScore   float64   `json:"average_score"`
	TotalSales     int64     `json:"total_sales"`
}

type ReviewSnippet struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	UpVotes int       `json:"up_votes"`
}

type TopRatedBook struct {
	BookID             uuid.UUID     `json:"book_id"`
	Title              string        `json:"title"`
	AuthorName         string        `json:"author_name"`
	AverageScore       float64       `json:"average_score"`
	TotalReviews       int64         `json:"total_reviews"`
	HighestRatedReview ReviewSnippet `json:"highest_rated_review"`
	LowestRatedReview  ReviewSnippet `json:"lowest_rated_review"`
}

type TopSellingBook struct {
	BookID                   uuid.UUID `json:"book_id"`
	Title                    string    `json:"title"`
	AuthorName               string    `json:"author_name"`
	PublicationDate          *string   `json:"publication_date"`
	PublicationYear          *int      `json:"publication_year"`
	BookTotalSales           int64     `json:"book_total_sales"`
	AuthorTotalSales         int64     `json:"author_total_sales"`
	WasTop5InPublicationYear bool      `json:"was_top_5_in_publication_year"`
}

type SearchResult struct {
	BookID          uuid.UUID `json:"book_id"`
	Title           string    `json:"title"`
	AuthorName      string    `json:"author_name"`
	Summary         *string   `json:"summary"`
	PublicationDate *string   `json:"publication_date"`
}

type PaginatedSearchResults struct {
	Results      []SearchResult `json:"results"`
	CurrentPage  int            `json:"current_page"`
	PerPage      int            `json:"per_page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int64          `json:"total_results"`
	HasNext      bool           `json:"has_next"`
	HasPrev      bool           `json:"has_prev"`
	Query        string         `json:"query"`
}

// EmptySearchResults is returned for a query without tokens.
// Only per_page and the query are echoed back.
func EmptySearchResults(query string, perPage int) *PaginatedSearchResults {
	return &PaginatedSearchResults{
		Results: []SearchResult{},
		PerPage: perPage,
		Query:   query,
	}
}

// NewSearchResults fills the pagination fields from total.
func NewSearchResults(query string, page, perPage int, total int64, results []SearchResult) *PaginatedSearchResults {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if results == nil {
		results = []SearchResult{}
	}
	return &PaginatedSearchResults{
		Results:      results,
		CurrentPage:  page,
		PerPage:      perPage,
		TotalPages:   totalPages,
		TotalResults: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
		Query:        query,
	}
}

// BookScore - average review score of a single book
type BookScore struct {
	BookID       uuid.UUID `json:"book_id"`
	AverageScore float64   `json:"average_score"`
	TotalReviews int64     `json:"total_reviews"`
}

// TopSellingExport is what the xlsx export hands back to the handler.
type TopSellingExport struct {
	FileName    string
	GeneratedAt time.Time
	Rows        int
	Content     []byte
}
