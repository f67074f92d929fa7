package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/author/model"
	"bookreview-backend/internal/domains/author/repository"
	bookModel "bookreview-backend/internal/domains/book/model"
	bookService "bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/infrastructure/storage"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/internal/shared/utils"
	"bookreview-backend/pkg/cache"
)

type AuthorService struct {
	repo        repository.AuthorRepository
	books       bookService.ServiceInterface
	invalidator *invalidation.Invalidator
	reads       *cache.ReadThrough
	ttl         time.Duration

	// images and store are nil when object storage is disabled
	images *storage.ImageProcessor
	store  storage.ObjectStore
}

// NewAuthorService - store may be nil; UploadImage then fails with ErrStorageUnavailable
func NewAuthorService(
	repo repository.AuthorRepository,
	books bookService.ServiceInterface,
	invalidator *invalidation.Invalidator,
	reads *cache.ReadThrough,
	ttl time.Duration,
	images *storage.ImageProcessor,
	store storage.ObjectStore,
) ServiceInterface {
	return &AuthorService{
		repo:        repo,
		books:       books,
		invalidator: invalidator,
		reads:       reads,
		ttl:         ttl,
		images:      images,
		store:       store,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *AuthorService) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (*model.AuthorResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dob, err := utils.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, model.NewInvalidInputError(err.Error())
	}

	// Step 2: Insert
	now := time.Now().UTC()
	author := &model.Author{
		ID:          uuid.New(),
		Name:        req.Name,
		DateOfBirth: dob,
		Country:     req.Country,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}

	// Step 3: New author appears in the summary
	s.invalidator.AuthorCreated(ctx)

	resp := author.ToResponse()
	return &resp, nil
}

// =====================================================
// READ
// =====================================================

func (s *AuthorService) GetAuthor(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error) {
	resp, err := cache.Read[model.AuthorResponse](ctx, s.reads, invalidation.AuthorKey(id), s.ttl,
		func(ctx context.Context) (model.AuthorResponse, error) {
			author, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return model.AuthorResponse{}, err
			}
			return author.ToResponse(), nil
		})
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	return &resp, nil
}

func (s *AuthorService) ListAuthors(ctx context.Context, page, perPage int) (*model.ListAuthorsResponse, error) {
	authors, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	out := &model.ListAuthorsResponse{
		Authors: make([]model.AuthorResponse, 0, len(authors)),
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}
	for _, a := range authors {
		out.Authors = append(out.Authors, a.ToResponse())
	}
	return out, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *AuthorService) UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.AuthorResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load and merge
	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.DateOfBirth != nil {
		dob, err := utils.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, model.NewInvalidInputError(err.Error())
		}
		author.DateOfBirth = dob
	}
	if req.Country != nil {
		author.Country = req.Country
	}
	if req.Description != nil {
		author.Description = req.Description
	}
	author.UpdatedAt = time.Now().UTC()

	// Step 3: Save
	if err := s.repo.Update(ctx, author); err != nil {
		return nil, s.mapRepoError(err)
	}

	// Step 4: Book documents carry the author name
	docs, err := s.bookDocuments(ctx, author)
	if err != nil {
		log.Warn().Err(err).Str("author_id", id.String()).Msg("could not load books for re-index")
	}
	s.invalidator.AuthorUpdated(ctx, id, docs)

	resp := author.ToResponse()
	return &resp, nil
}

func (s *AuthorService) bookDocuments(ctx context.Context, author *model.Author) ([]search.BookDocument, error) {
	books, err := s.books.ListAllByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	docs := make([]search.BookDocument, 0, len(books))
	for _, b := range books {
		docs = append(docs, b.SearchDocument(author.Name))
	}
	return docs, nil
}

// =====================================================
// DELETE
// =====================================================

// DeleteAuthor cascades through the book service so each book's own
// evictions fire. The first failure stops the cascade, nothing is rolled back.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	// Step 1: Author must exist
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return s.mapRepoError(err)
	}

	// Step 2: Books, children first
	books, err := s.books.ListAllByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("list books of author: %w", err)
	}
	for _, b := range books {
		if err := s.books.DeleteBook(ctx, b.ID); err != nil {
			if errors.Is(err, bookModel.ErrBookNotFound) {
				continue
			}
			return fmt.Errorf("delete book %s of author: %w", b.ID, err)
		}
	}

	// Step 3: Author
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err)
	}
	s.invalidator.AuthorDeleted(ctx, id)

	// Step 4: Pictures, best effort
	if s.store != nil {
		if err := s.store.DeleteByPrefix(ctx, imagePrefix(id)); err != nil {
			log.Warn().Err(err).Str("author_id", id.String()).Msg("failed to delete author images")
		}
	}

	log.Info().Str("author_id", id.String()).Int("books", len(books)).Msg("author deleted")
	return nil
}

// =====================================================
// IMAGE
// =====================================================

func (s *AuthorService) UploadImage(ctx context.Context, id uuid.UUID, data []byte) (*model.AuthorResponse, error) {
	if s.store == nil || s.images == nil {
		return nil, model.NewStorageUnavailableError()
	}

	// Step 1: Author must exist
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.mapRepoError(err)
	}

	// Step 2: Validate + resize
	if err := s.images.ValidateImage(data); err != nil {
		return nil, model.NewInvalidImageError(err)
	}
	variants, err := s.images.ProcessImage(data, storage.AuthorImageVariants)
	if err != nil {
		return nil, model.NewInvalidImageError(err)
	}

	// Step 3: Upload every variant
	var imageURL string
	for name, payload := range variants {
		url, err := s.store.Upload(ctx, imagePrefix(id)+name+".jpg", payload, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("upload %s image: %w", name, err)
		}
		if name == model.ImageVariant {
			imageURL = url
		}
	}

	// Step 4: Record URL
	if err := s.repo.SetImageURL(ctx, id, imageURL); err != nil {
		return nil, s.mapRepoError(err)
	}
	s.invalidator.AuthorImageChanged(ctx, id)

	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	resp := author.ToResponse()
	return &resp, nil
}

func imagePrefix(id uuid.UUID) string {
	return model.ImageKeyPrefix + id.String() + "/"
}

func (s *AuthorService) mapRepoError(err error) error {
	if errors.Is(err, model.ErrAuthorNotFound) {
		return model.NewAuthorNotFoundError()
	}
	return err
}
