package invalidation

import (
	"fmt"

	"github.com/google/uuid"

	"bookreview-backend/internal/shared/utils"
)

const (
	AuthorsSummaryKey = "authors:summary"
	AuthorPrefix      = "author:"
	BookPrefix        = "book:"
	SearchPrefix      = "search:books:"
)

// CatalogPrefixes covers every key this package builds.
// Flushing them empties the catalog cache without touching other tenants of the store.
var CatalogPrefixes = []string{AuthorsSummaryKey, AuthorPrefix, BookPrefix, SearchPrefix}

// AuthorKey is the cache key of one author's detail view.
func AuthorKey(id uuid.UUID) string {
	return AuthorPrefix + id.String()
}

// BookAvgScoreKey is the cache key of one book's average review score.
func BookAvgScoreKey(id uuid.UUID) string {
	return BookPrefix + id.String() + ":avg_score"
}

// SearchKey is the cache key of one search result page.
// Queries differing only in case or spacing share a key.
func SearchKey(query string, page, perPage int) string {
	return fmt.Sprintf("%sq:%s:p:%d:pp:%d", SearchPrefix, utils.NormalizeSearchQuery(query), page, perPage)
}
