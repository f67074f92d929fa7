package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/sale/model"
	"bookreview-backend/internal/domains/sale/repository"
	"bookreview-backend/internal/invalidation"
)

type saleService struct {
	repo        repository.SaleRepository
	books       BookTotals
	invalidator *invalidation.Invalidator
}

func NewSaleService(repo repository.SaleRepository, books BookTotals, invalidator *invalidation.Invalidator) ServiceInterface {
	return &saleService{repo: repo, books: books, invalidator: invalidator}
}

// =====================================================
// CREATE
// =====================================================

func (s *saleService) CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.Sale, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Book must exist
	if err := s.ensureBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	// Step 3: Insert or replace units on (book, year)
	now := time.Now().UTC()
	sale, err := s.repo.Upsert(ctx, &model.Sale{
		ID:        uuid.New(),
		BookID:    req.BookID,
		Year:      req.Year,
		Units:     req.Units,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, mapRepoError(err, "create")
	}

	// Step 4: Recompute + evict
	return sale, s.afterMutation(ctx, sale.BookID)
}

// =====================================================
// READ
// =====================================================

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "get")
	}
	return sale, nil
}

func (s *saleService) ListBookSales(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Sale, int64, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, 0, err
	}
	sales, total, err := s.repo.ListByBook(ctx, bookID, page, perPage)
	if err != nil {
		return nil, 0, mapRepoError(err, "list")
	}
	return sales, total, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req model.UpdateSaleRequest) (*model.Sale, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Current row
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "get")
	}
	previousBookID := current.BookID

	// Step 3: Target values
	next := *current
	if req.BookID != nil {
		next.BookID = *req.BookID
	}
	if req.Year != nil {
		next.Year = *req.Year
	}
	if req.Units != nil {
		next.Units = *req.Units
	}
	next.UpdatedAt = time.Now().UTC()

	if next.BookID != previousBookID {
		if err := s.ensureBook(ctx, next.BookID); err != nil {
			return nil, err
		}
	}

	// Step 4: Plain update, or merge when (book, year) is taken by another row
	saved := &next
	if next.BookID != current.BookID || next.Year != current.Year {
		existing, err := s.repo.GetByBookAndYear(ctx, next.BookID, next.Year)
		switch {
		case err == nil:
			merged, err := s.repo.MergeInto(ctx, current.ID, existing.ID, next.Units)
			if err != nil {
				return nil, mapRepoError(err, "merge")
			}
			saved = merged
		case errors.Is(err, model.ErrSaleNotFound):
		default:
			return nil, mapRepoError(err, "update")
		}
	}
	if saved == &next {
		if err := s.repo.Update(ctx, &next); err != nil {
			return nil, mapRepoError(err, "update")
		}
	}

	// Step 5: Recompute both books when the sale changed book
	books := []uuid.UUID{saved.BookID}
	if previousBookID != saved.BookID {
		books = append(books, previousBookID)
	}
	return saved, s.afterMutation(ctx, books...)
}

// =====================================================
// DELETE
// =====================================================

func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "get")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "delete")
	}

	return s.afterMutation(ctx, sale.BookID)
}

// =====================================================
// RECOMPUTE
// =====================================================

func (s *saleService) RecomputeBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	total, err := s.repo.SumUnitsByBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	if err := s.books.SetTotalSales(ctx, bookID, total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *saleService) ReconcileAll(ctx context.Context) (int64, error) {
	changed, err := s.books.ReconcileTotalSales(ctx)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.invalidator.SalesChanged(ctx)
	}
	return changed, nil
}

// afterMutation recomputes the totals of bookIDs, then evicts.
// Eviction runs even when a recompute fails: the sale row already changed.
func (s *saleService) afterMutation(ctx context.Context, bookIDs ...uuid.UUID) error {
	var errs []error
	for _, bookID := range bookIDs {
		total, err := s.RecomputeBook(ctx, bookID)
		if err != nil {
			log.Error().Err(err).Str("book_id", bookID.String()).Msg("sales total recompute failed")
			errs = append(errs, err)
			continue
		}
		log.Debug().Str("book_id", bookID.String()).Int64("total_sales", total).Msg("sales total recomputed")
	}

	s.invalidator.SalesChanged(ctx)

	if len(errs) > 0 {
		return model.NewRecomputeError(errors.Join(errs...))
	}
	return nil
}

func (s *saleService) ensureBook(ctx context.Context, bookID uuid.UUID) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if !exists {
		return model.NewBookNotFoundError()
	}
	return nil
}

func mapRepoError(err error, op string) error {
	switch {
	case errors.Is(err, model.ErrSaleNotFound):
		return model.NewSaleNotFoundError()
	case errors.Is(err, model.ErrBookNotFound):
		return model.NewBookNotFoundError()
	case errors.Is(err, model.ErrDuplicateSale):
		return model.NewDuplicateSaleError()
	default:
		return fmt.Errorf("%s sale: %w", op, err)
	}
}
