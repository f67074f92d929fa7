package job

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/infrastructure/queue"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/shared"
)

type recordingIndex struct {
	search.NoopIndex
	books          []search.BookDocument
	reviews        []search.ReviewDocument
	deletedBooks   []uuid.UUID
	deletedReviews []uuid.UUID
	err            error
}

func (r *recordingIndex) UpsertBook(_ context.Context, doc search.BookDocument) error {
	r.books = append(r.books, doc)
	return r.err
}

func (r *recordingIndex) DeleteBook(_ context.Context, id uuid.UUID) error {
	r.deletedBooks = append(r.deletedBooks, id)
	return r.err
}

func (r *recordingIndex) UpsertReview(_ context.Context, doc search.ReviewDocument) error {
	r.reviews = append(r.reviews, doc)
	return r.err
}

func (r *recordingIndex) DeleteReview(_ context.Context, id uuid.UUID) error {
	r.deletedReviews = append(r.deletedReviews, id)
	return r.err
}

// rowSource serves whatever the catalog currently holds.
type rowSource struct {
	books   map[uuid.UUID]search.BookDocument
	reviews map[uuid.UUID]search.ReviewDocument
	err     error
}

func newRowSource() *rowSource {
	return &rowSource{
		books:   map[uuid.UUID]search.BookDocument{},
		reviews: map[uuid.UUID]search.ReviewDocument{},
	}
}

func (s *rowSource) BookDocument(_ context.Context, id uuid.UUID) (search.BookDocument, bool, error) {
	doc, ok := s.books[id]
	return doc, ok, s.err
}

func (s *rowSource) ReviewDocument(_ context.Context, id uuid.UUID) (search.ReviewDocument, bool, error) {
	doc, ok := s.reviews[id]
	return doc, ok, s.err
}

func mustTask(t *testing.T, taskType string, payload any) *asynq.Task {
	t.Helper()
	task, err := queue.NewTask(taskType, payload)
	require.NoError(t, err)
	return task
}

func TestSyncHandler_AppliesTasks(t *testing.T) {
	ctx := context.Background()
	idx := &recordingIndex{}
	src := newRowSource()
	h := NewSyncHandler(idx, src)

	book := search.BookDocument{ID: uuid.New(), Title: "Dune", AuthorName: "Herbert"}
	review := search.ReviewDocument{ID: uuid.New(), BookID: book.ID, Text: "ok", Score: 3}
	src.books[book.ID] = book
	src.reviews[review.ID] = review

	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchUpsertBook, search.BookPayload(book))))
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchUpsertReview, search.ReviewPayload(review))))
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchDeleteReview, shared.SearchDeletePayload{ID: review.ID.String()})))
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchDeleteBook, shared.SearchDeletePayload{ID: book.ID.String()})))

	require.Len(t, idx.books, 1)
	assert.Equal(t, book.ID, idx.books[0].ID)
	assert.Equal(t, []search.ReviewDocument{review}, idx.reviews)
	assert.Equal(t, []uuid.UUID{review.ID}, idx.deletedReviews)
	assert.Equal(t, []uuid.UUID{book.ID}, idx.deletedBooks)
}

func TestSyncHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	h := NewSyncHandler(&recordingIndex{}, newRowSource())
	ctx := context.Background()

	err := h.ProcessTask(ctx, asynq.NewTask(shared.TypeSearchUpsertBook, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(ctx, mustTask(t, shared.TypeSearchDeleteBook, shared.SearchDeletePayload{ID: "not-a-uuid"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(ctx, asynq.NewTask("search:unknown", nil))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSyncHandler_IndexFailureIsRetried(t *testing.T) {
	boom := errors.New("index unavailable")
	h := NewSyncHandler(&recordingIndex{err: boom}, newRowSource())

	err := h.ProcessTask(context.Background(),
		mustTask(t, shared.TypeSearchDeleteReview, shared.SearchDeletePayload{ID: uuid.NewString()}))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestSyncHandler_UpsertWritesCurrentRow(t *testing.T) {
	ctx := context.Background()
	idx := &recordingIndex{}
	src := newRowSource()
	h := NewSyncHandler(idx, src)

	bookID := uuid.New()
	queued := search.BookDocument{ID: bookID, Title: "Dune", AuthorName: "Herbert"}
	src.books[bookID] = search.BookDocument{ID: bookID, Title: "Dune Messiah", AuthorName: "Frank Herbert"}

	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchUpsertBook, search.BookPayload(queued))))

	require.Len(t, idx.books, 1)
	assert.Equal(t, "Dune Messiah", idx.books[0].Title)
	assert.Equal(t, "Frank Herbert", idx.books[0].AuthorName)
}

func TestSyncHandler_RetriedUpsertAfterDeleteKeepsDocumentsGone(t *testing.T) {
	ctx := context.Background()
	idx := &recordingIndex{}
	h := NewSyncHandler(idx, newRowSource())

	book := search.BookDocument{ID: uuid.New(), Title: "Dune"}
	review := search.ReviewDocument{ID: uuid.New(), BookID: book.ID, Text: "ok", Score: 3}

	// delete tasks already ran; the upserts are late retries
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchDeleteBook, shared.SearchDeletePayload{ID: book.ID.String()})))
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchUpsertBook, search.BookPayload(book))))
	require.NoError(t, h.ProcessTask(ctx, mustTask(t, shared.TypeSearchUpsertReview, search.ReviewPayload(review))))

	assert.Empty(t, idx.books)
	assert.Empty(t, idx.reviews)
	assert.Equal(t, []uuid.UUID{book.ID, book.ID}, idx.deletedBooks)
	assert.Equal(t, []uuid.UUID{review.ID}, idx.deletedReviews)
}

func TestSyncHandler_SourceFailureIsRetried(t *testing.T) {
	boom := errors.New("db down")
	src := newRowSource()
	src.err = boom
	idx := &recordingIndex{}
	h := NewSyncHandler(idx, src)

	err := h.ProcessTask(context.Background(),
		mustTask(t, shared.TypeSearchUpsertReview, search.ReviewPayload(search.ReviewDocument{ID: uuid.New(), BookID: uuid.New()})))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, idx.reviews)
	assert.Empty(t, idx.deletedReviews)
}
