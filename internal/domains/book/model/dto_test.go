package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateBookRequest_Validate(t *testing.T) {
	date := "2001-09-11"
	badDate := "11/09/2001"
	long := strings.Repeat("x", MaxTitleLength+1)

	tests := []struct {
		name    string
		req     CreateBookRequest
		wantErr bool
	}{
		{"valid", CreateBookRequest{AuthorID: uuid.New(), Title: "Dune", PublicationDate: &date}, false},
		{"missing author", CreateBookRequest{Title: "Dune"}, true},
		{"blank title", CreateBookRequest{AuthorID: uuid.New()}, true},
		{"title too long", CreateBookRequest{AuthorID: uuid.New(), Title: long}, true},
		{"bad date", CreateBookRequest{AuthorID: uuid.New(), Title: "Dune", PublicationDate: &badDate}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateBookRequest_Validate(t *testing.T) {
	blank := ""
	nilID := uuid.Nil

	assert.NoError(t, UpdateBookRequest{}.Validate())
	assert.Error(t, UpdateBookRequest{Title: &blank}.Validate())
	assert.Error(t, UpdateBookRequest{AuthorID: &nilID}.Validate())
}

func TestBook_SearchDocument(t *testing.T) {
	summary := "Spice"
	b := &Book{ID: uuid.New(), Title: "Dune", Summary: &summary}

	doc := b.SearchDocument("Frank Herbert")

	assert.Equal(t, b.ID, doc.ID)
	assert.Equal(t, "Spice", doc.Summary)
	assert.Equal(t, "Frank Herbert", doc.AuthorName)
}
