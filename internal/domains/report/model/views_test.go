package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchResults_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		perPage   int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"single page", 1, 10, 3, 1, false, false},
		{"first of many", 1, 10, 25, 3, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last", 3, 10, 25, 3, false, true},
		{"exact multiple", 2, 5, 10, 2, false, true},
		{"past the end", 4, 10, 25, 3, false, true},
		{"no matches", 1, 10, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSearchResults("dune", tt.page, tt.perPage, tt.total, nil)

			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantNext, got.HasNext)
			assert.Equal(t, tt.wantPrev, got.HasPrev)
			assert.Equal(t, tt.total, got.TotalResults)
			assert.NotNil(t, got.Results)
		})
	}
}

func TestEmptySearchResults(t *testing.T) {
	got := EmptySearchResults("   ", 10)

	assert.Empty(t, got.Results)
	assert.NotNil(t, got.Results)
	assert.Equal(t, 0, got.CurrentPage)
	assert.Equal(t, 10, got.PerPage)
	assert.Equal(t, 0, got.TotalPages)
	assert.Zero(t, got.TotalResults)
	assert.False(t, got.HasNext)
	assert.False(t, got.HasPrev)
	assert.Equal(t, "   ", got.Query)
}
