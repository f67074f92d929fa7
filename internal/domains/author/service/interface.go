package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/author/model"
)

type ServiceInterface interface {
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (*model.AuthorResponse, error)

	// GetAuthor is served from the author:{id} cache entry when present
	GetAuthor(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error)

	ListAuthors(ctx context.Context, page, perPage int) (*model.ListAuthorsResponse, error)
	UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.AuthorResponse, error)

	// DeleteAuthor deletes every book of the author (with their reviews and sales), then the author
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	// UploadImage stores resized variants and records the public URL
	UploadImage(ctx context.Context, id uuid.UUID, data []byte) (*model.AuthorResponse, error)
}
