package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/shared"
)

type fakeEnqueuer struct {
	tasks  []*asynq.Task
	queues []string
	err    error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	for _, opt := range opts {
		if opt.Type() == asynq.QueueOpt {
			f.queues = append(f.queues, opt.Value().(string))
		}
	}
	return &asynq.TaskInfo{}, nil
}

type stubIndex struct {
	NoopIndex
	hits []Hit
}

func (s stubIndex) Search(context.Context, string, int) ([]Hit, error) { return s.hits, nil }

func TestQueuedIndex_EnqueuesWrites(t *testing.T) {
	ctx := context.Background()
	enq := &fakeEnqueuer{}
	idx := NewQueuedIndex(enq, NoopIndex{})

	published := time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC)
	book := BookDocument{ID: uuid.New(), Title: "Dune", Summary: "Spice", AuthorName: "Herbert", PublicationDate: &published}
	review := ReviewDocument{ID: uuid.New(), BookID: book.ID, Text: "Great", Score: 5}

	require.NoError(t, idx.UpsertBook(ctx, book))
	require.NoError(t, idx.UpsertReview(ctx, review))
	require.NoError(t, idx.DeleteReview(ctx, review.ID))
	require.NoError(t, idx.DeleteBook(ctx, book.ID))

	require.Len(t, enq.tasks, 4)
	assert.Equal(t, shared.TypeSearchUpsertBook, enq.tasks[0].Type())
	assert.Equal(t, shared.TypeSearchUpsertReview, enq.tasks[1].Type())
	assert.Equal(t, shared.TypeSearchDeleteReview, enq.tasks[2].Type())
	assert.Equal(t, shared.TypeSearchDeleteBook, enq.tasks[3].Type())
	assert.Equal(t, []string{shared.QueueSearch, shared.QueueSearch, shared.QueueSearch, shared.QueueSearch}, enq.queues)

	var bookPayload shared.SearchBookPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &bookPayload))
	decoded, err := BookDocumentFromPayload(bookPayload)
	require.NoError(t, err)
	assert.Equal(t, book.ID, decoded.ID)
	assert.Equal(t, "Herbert", decoded.AuthorName)
	assert.True(t, published.Equal(*decoded.PublicationDate))

	var reviewPayload shared.SearchReviewPayload
	require.NoError(t, json.Unmarshal(enq.tasks[1].Payload(), &reviewPayload))
	decodedReview, err := ReviewDocumentFromPayload(reviewPayload)
	require.NoError(t, err)
	assert.Equal(t, review, decodedReview)
}

func TestQueuedIndex_EnqueueFailure(t *testing.T) {
	boom := errors.New("redis down")
	idx := NewQueuedIndex(&fakeEnqueuer{err: boom}, NoopIndex{})

	err := idx.DeleteBook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestQueuedIndex_SearchIsSynchronous(t *testing.T) {
	want := []Hit{{ID: uuid.New(), Kind: KindBook, Score: 0.5}}
	enq := &fakeEnqueuer{}
	idx := NewQueuedIndex(enq, stubIndex{hits: want})

	got, err := idx.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Empty(t, enq.tasks)
}

func TestNoopIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewNoopIndex()

	assert.NoError(t, idx.UpsertBook(ctx, BookDocument{ID: uuid.New()}))
	assert.NoError(t, idx.DeleteBook(ctx, uuid.New()))
	assert.NoError(t, idx.UpsertReview(ctx, ReviewDocument{ID: uuid.New()}))
	assert.NoError(t, idx.DeleteReview(ctx, uuid.New()))

	hits, err := idx.Search(ctx, "anything", 10)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestPayloadDecodeRejectsBadIDs(t *testing.T) {
	_, err := BookDocumentFromPayload(shared.SearchBookPayload{BookID: "nope"})
	assert.Error(t, err)

	_, err = ReviewDocumentFromPayload(shared.SearchReviewPayload{ReviewID: uuid.NewString(), BookID: "nope"})
	assert.Error(t, err)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, defaultSearchLimit, normalizeLimit(0))
	assert.Equal(t, 7, normalizeLimit(7))
	assert.Equal(t, maxSearchLimit, normalizeLimit(1000))
}
