package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/sale/model"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/pkg/cache"
)

// fakeSaleRepo keeps rows in memory and enforces (book, year) uniqueness.
type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func (r *fakeSaleRepo) find(bookID uuid.UUID, year int) *model.Sale {
	for _, s := range r.sales {
		if s.BookID == bookID && s.Year == year {
			return s
		}
	}
	return nil
}

func (r *fakeSaleRepo) Upsert(_ context.Context, sale *model.Sale) (*model.Sale, error) {
	if existing := r.find(sale.BookID, sale.Year); existing != nil {
		existing.Units = sale.Units
		cp := *existing
		return &cp, nil
	}
	cp := *sale
	r.sales[sale.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) GetByBookAndYear(_ context.Context, bookID uuid.UUID, year int) (*model.Sale, error) {
	s := r.find(bookID, year)
	if s == nil {
		return nil, model.ErrSaleNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) Update(_ context.Context, sale *model.Sale) error {
	if other := r.find(sale.BookID, sale.Year); other != nil && other.ID != sale.ID {
		return model.ErrDuplicateSale
	}
	cp := *sale
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return model.ErrSaleNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) ListByBook(_ context.Context, bookID uuid.UUID, _, _ int) ([]*model.Sale, int64, error) {
	var out []*model.Sale
	for _, s := range r.sales {
		if s.BookID == bookID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) SumUnitsByBook(_ context.Context, bookID uuid.UUID) (int64, error) {
	var total int64
	for _, s := range r.sales {
		if s.BookID == bookID {
			total += s.Units
		}
	}
	return total, nil
}

func (r *fakeSaleRepo) DeleteByBook(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (r *fakeSaleRepo) MergeInto(_ context.Context, sourceID, targetID uuid.UUID, units int64) (*model.Sale, error) {
	target := r.sales[targetID]
	target.Units = units
	delete(r.sales, sourceID)
	cp := *target
	return &cp, nil
}

type fakeBooks struct {
	totals  map[uuid.UUID]int64
	failSet error
}

func (b *fakeBooks) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := b.totals[id]
	return ok, nil
}

func (b *fakeBooks) SetTotalSales(_ context.Context, id uuid.UUID, total int64) error {
	if b.failSet != nil {
		return b.failSet
	}
	b.totals[id] = total
	return nil
}

func (b *fakeBooks) ReconcileTotalSales(context.Context) (int64, error) { return 2, nil }

type saleFixture struct {
	svc   ServiceInterface
	repo  *fakeSaleRepo
	books *fakeBooks
	cache *cache.MemoryCache
	b1    uuid.UUID
	b2    uuid.UUID
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	c, err := cache.NewMemoryCache(cache.DefaultMemoryConfig())
	require.NoError(t, err)

	f := &saleFixture{
		repo:  &fakeSaleRepo{sales: map[uuid.UUID]*model.Sale{}},
		cache: c,
		b1:    uuid.New(),
		b2:    uuid.New(),
	}
	f.books = &fakeBooks{totals: map[uuid.UUID]int64{f.b1: 0, f.b2: 0}}
	f.svc = NewSaleService(f.repo, f.books, invalidation.NewInvalidator(c, search.NewNoopIndex()))
	return f
}

func (f *saleFixture) summaryCached(t *testing.T) bool {
	t.Helper()
	_, ok, err := f.cache.Get(context.Background(), invalidation.AuthorsSummaryKey)
	require.NoError(t, err)
	return ok
}

func (f *saleFixture) seedSummary(t *testing.T) {
	t.Helper()
	require.NoError(t, f.cache.Set(context.Background(), invalidation.AuthorsSummaryKey, []byte(`[]`), time.Minute))
}

func TestCreateSale_RecomputesTotal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 100})
	require.NoError(t, err)
	f.seedSummary(t)

	_, err = f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2021, Units: 50})
	require.NoError(t, err)

	assert.Equal(t, int64(150), f.books.totals[f.b1])
	assert.False(t, f.summaryCached(t))
}

func TestCreateSale_SameYearReplacesUnits(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 100})
	require.NoError(t, err)
	second, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 30})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.sales, 1)
	assert.Equal(t, int64(30), f.books.totals[f.b1])
}

func TestCreateSale_UnknownBook(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), model.CreateSaleRequest{BookID: uuid.New(), Year: 2020, Units: 1})

	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, f.repo.sales)
}

func TestUpdateSale_MoveRecomputesBothBooks(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 100})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSale(ctx, sale.ID, model.UpdateSaleRequest{BookID: &f.b2})
	require.NoError(t, err)

	assert.Equal(t, f.b2, updated.BookID)
	assert.Equal(t, int64(0), f.books.totals[f.b1])
	assert.Equal(t, int64(100), f.books.totals[f.b2])
}

func TestUpdateSale_MoveOntoExistingYearMerges(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	target, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 100})
	require.NoError(t, err)
	source, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2021, Units: 40})
	require.NoError(t, err)

	year := 2020
	merged, err := f.svc.UpdateSale(ctx, source.ID, model.UpdateSaleRequest{Year: &year})
	require.NoError(t, err)

	assert.Equal(t, target.ID, merged.ID)
	assert.Equal(t, int64(40), merged.Units)
	assert.Len(t, f.repo.sales, 1)
	assert.Equal(t, int64(40), f.books.totals[f.b1])
}

func TestDeleteSale_RecomputesTotal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 100})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSale(ctx, sale.ID))

	assert.Equal(t, int64(0), f.books.totals[f.b1])
}

func TestCreateSale_RecomputeFailureStillEvicts(t *testing.T) {
	f := newSaleFixture(t)
	f.seedSummary(t)
	f.books.failSet = errors.New("deadlock detected")

	sale, err := f.svc.CreateSale(context.Background(), model.CreateSaleRequest{BookID: f.b1, Year: 2020, Units: 5})

	assert.ErrorIs(t, err, model.ErrRecompute)
	assert.NotNil(t, sale)
	assert.Len(t, f.repo.sales, 1)
	assert.False(t, f.summaryCached(t))
}

func TestReconcileAll_EvictsWhenTotalsChanged(t *testing.T) {
	f := newSaleFixture(t)
	f.seedSummary(t)

	changed, err := f.svc.ReconcileAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
	assert.False(t, f.summaryCached(t))
}
