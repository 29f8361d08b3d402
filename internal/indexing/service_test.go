package indexing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/sources"
	"github.com/openimpact/search-gateway/internal/storage"
)

// fakeDocStore keeps documents by external key and can be told to fail saves
// for specific titles.
type fakeDocStore struct {
	docs      map[uuid.UUID]*domain.Document
	failTitle string
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: map[uuid.UUID]*domain.Document{}}
}

func (f *fakeDocStore) Search(context.Context, *query.Compiled) (*storage.DocumentPage, error) {
	return &storage.DocumentPage{}, nil
}

func (f *fakeDocStore) Count(context.Context, query.Match, query.Predicates) (int64, error) {
	return 0, nil
}

func (f *fakeDocStore) FacetCounts(context.Context, query.Match, query.Predicates, string) ([]storage.FacetRow, error) {
	return nil, nil
}

func (f *fakeDocStore) FindByDocumentID(_ context.Context, documentID uuid.UUID) (*domain.Document, error) {
	if doc, ok := f.docs[documentID]; ok {
		copied := *doc
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeDocStore) Save(_ context.Context, doc *domain.Document) error {
	if f.failTitle != "" && doc.Title == f.failTitle {
		return errors.New("save rejected")
	}
	copied := *doc
	f.docs[doc.DocumentID] = &copied
	return nil
}

func (f *fakeDocStore) Delete(_ context.Context, documentID uuid.UUID) (bool, error) {
	if _, ok := f.docs[documentID]; !ok {
		return false, nil
	}
	delete(f.docs, documentID)
	return true, nil
}

func (f *fakeDocStore) Clear(context.Context) (int64, error) {
	n := int64(len(f.docs))
	f.docs = map[uuid.UUID]*domain.Document{}
	return n, nil
}

func (f *fakeDocStore) Stats(context.Context) (*domain.IndexStats, error) {
	return &domain.IndexStats{TotalDocuments: int64(len(f.docs))}, nil
}

func (f *fakeDocStore) Optimize(context.Context) error { return nil }

var _ storage.DocumentStore = (*fakeDocStore)(nil)

type fakeJobStore struct {
	jobs map[uuid.UUID]*domain.IndexJob
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[uuid.UUID]*domain.IndexJob{}}
}

func (f *fakeJobStore) Create(_ context.Context, job *domain.IndexJob) error {
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStore) Update(_ context.Context, job *domain.IndexJob) error {
	if _, ok := f.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s does not exist", job.ID)
	}
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStore) Get(_ context.Context, id uuid.UUID) (*domain.IndexJob, error) {
	if job, ok := f.jobs[id]; ok {
		copied := *job
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeJobStore) List(_ context.Context, status *domain.JobStatus, limit int) ([]domain.IndexJob, error) {
	var out []domain.IndexJob
	for _, job := range f.jobs {
		if status != nil && job.Status != *status {
			continue
		}
		out = append(out, *job)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ storage.JobStore = (*fakeJobStore)(nil)

type fakeSource struct {
	name      string
	documents []dto.IndexDocumentRequest
	err       error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchAll(context.Context) ([]dto.IndexDocumentRequest, error) {
	return f.documents, f.err
}

var _ sources.Source = (*fakeSource)(nil)

func indexRequest(id uuid.UUID, title string) dto.IndexDocumentRequest {
	return dto.IndexDocumentRequest{
		DocumentID:   id,
		DocumentType: "article",
		Title:        title,
		Content:      "content for " + title,
	}
}

func TestIndexDocument_CreatesWithFreshIdentity(t *testing.T) {
	docs := newFakeDocStore()
	svc := NewService(docs, newFakeJobStore(), nil)
	documentID := uuid.New()

	req := indexRequest(documentID, "First")
	doc, err := svc.IndexDocument(context.Background(), &req)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, documentID, doc.DocumentID)
	assert.Equal(t, "en", doc.Language)
	assert.False(t, doc.IndexedAt.IsZero())
}

func TestIndexDocument_UpsertPreservesIdentityAndIndexedAt(t *testing.T) {
	docs := newFakeDocStore()
	svc := NewService(docs, newFakeJobStore(), nil)
	documentID := uuid.New()

	req := indexRequest(documentID, "Original")
	first, err := svc.IndexDocument(context.Background(), &req)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	req2 := indexRequest(documentID, "Rewritten")
	second, err := svc.IndexDocument(context.Background(), &req2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.IndexedAt, second.IndexedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, "Rewritten", docs.docs[documentID].Title)
	assert.Len(t, docs.docs, 1)
}

func TestIndexDocument_RejectsInvalidType(t *testing.T) {
	svc := NewService(newFakeDocStore(), newFakeJobStore(), nil)

	req := indexRequest(uuid.New(), "Bad")
	req.DocumentType = "podcast"

	_, err := svc.IndexDocument(context.Background(), &req)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBulkIndex_AllSucceedCompletesJob(t *testing.T) {
	docs := newFakeDocStore()
	jobs := newFakeJobStore()
	svc := NewService(docs, jobs, nil)

	batch := []dto.IndexDocumentRequest{
		indexRequest(uuid.New(), "One"),
		indexRequest(uuid.New(), "Two"),
	}
	job, err := svc.BulkIndex(context.Background(), batch, "content-service")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.DocumentsProcessed)
	assert.Equal(t, 0, job.DocumentsFailed)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, domain.JobStatusCompleted, jobs.jobs[job.ID].Status)
}

func TestBulkIndex_PartialFailureIsolated(t *testing.T) {
	docs := newFakeDocStore()
	docs.failTitle = "Poison"
	svc := NewService(docs, newFakeJobStore(), nil)

	goodA, goodB := uuid.New(), uuid.New()
	batch := []dto.IndexDocumentRequest{
		indexRequest(goodA, "One"),
		indexRequest(uuid.New(), "Poison"),
		indexRequest(goodB, "Three"),
	}
	job, err := svc.BulkIndex(context.Background(), batch, "")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Equal(t, 2, job.DocumentsProcessed)
	assert.Equal(t, 1, job.DocumentsFailed)
	// documents around the failure still landed
	assert.Contains(t, docs.docs, goodA)
	assert.Contains(t, docs.docs, goodB)
}

func TestUpdateDocument_NotIndexed(t *testing.T) {
	svc := NewService(newFakeDocStore(), newFakeJobStore(), nil)

	req := indexRequest(uuid.New(), "Anything")
	_, err := svc.UpdateDocument(context.Background(), uuid.New(), &req)

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestUpdateDocument_OverwritesExisting(t *testing.T) {
	docs := newFakeDocStore()
	svc := NewService(docs, newFakeJobStore(), nil)
	documentID := uuid.New()

	req := indexRequest(documentID, "Before")
	_, err := svc.IndexDocument(context.Background(), &req)
	require.NoError(t, err)

	update := indexRequest(uuid.New(), "After")
	doc, err := svc.UpdateDocument(context.Background(), documentID, &update)
	require.NoError(t, err)

	// the path parameter wins over the body's document id
	assert.Equal(t, documentID, doc.DocumentID)
	assert.Equal(t, "After", docs.docs[documentID].Title)
}

func TestDeleteDocument(t *testing.T) {
	docs := newFakeDocStore()
	svc := NewService(docs, newFakeJobStore(), nil)
	documentID := uuid.New()

	req := indexRequest(documentID, "Victim")
	_, err := svc.IndexDocument(context.Background(), &req)
	require.NoError(t, err)

	removed, err := svc.DeleteDocument(context.Background(), documentID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteDocument(context.Background(), documentID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReindexAll_CreatesPendingJob(t *testing.T) {
	jobs := newFakeJobStore()
	svc := NewService(newFakeDocStore(), jobs, nil)

	job, err := svc.ReindexAll(context.Background(), "content-service")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, domain.JobTypeFullReindex, job.JobType)
	require.NotNil(t, job.SourceService)
	assert.Equal(t, "content-service", *job.SourceService)
	assert.Nil(t, job.StartedAt)
}

func TestRunReindex_FetchesAndIndexes(t *testing.T) {
	docs := newFakeDocStore()
	jobs := newFakeJobStore()
	srcs := []sources.Source{
		&fakeSource{name: "content", documents: []dto.IndexDocumentRequest{
			indexRequest(uuid.New(), "A"),
			indexRequest(uuid.New(), "B"),
		}},
		&fakeSource{name: "partners", documents: []dto.IndexDocumentRequest{
			indexRequest(uuid.New(), "C"),
		}},
	}
	svc := NewService(docs, jobs, srcs)

	pending, err := svc.ReindexAll(context.Background(), "")
	require.NoError(t, err)

	job, err := svc.RunReindex(context.Background(), pending.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.DocumentsProcessed)
	assert.Len(t, docs.docs, 3)
}

func TestRunReindex_SourceFailureIsolated(t *testing.T) {
	docs := newFakeDocStore()
	jobs := newFakeJobStore()
	srcs := []sources.Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
		&fakeSource{name: "content", documents: []dto.IndexDocumentRequest{
			indexRequest(uuid.New(), "Survivor"),
		}},
	}
	svc := NewService(docs, jobs, srcs)

	pending, err := svc.ReindexAll(context.Background(), "")
	require.NoError(t, err)

	job, err := svc.RunReindex(context.Background(), pending.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.DocumentsProcessed)
	assert.Equal(t, 1, job.DocumentsFailed)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "broken")
	assert.Len(t, docs.docs, 1)
}

func TestRunReindex_UnknownJob(t *testing.T) {
	svc := NewService(newFakeDocStore(), newFakeJobStore(), nil)

	_, err := svc.RunReindex(context.Background(), uuid.New())

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRunReindex_RefusesNonPendingJob(t *testing.T) {
	docs := newFakeDocStore()
	jobs := newFakeJobStore()
	svc := NewService(docs, jobs, nil)

	pending, err := svc.ReindexAll(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.RunReindex(context.Background(), pending.ID)
	require.NoError(t, err)

	// the job reached a terminal state, a second run must not restart it
	_, err = svc.RunReindex(context.Background(), pending.ID)
	require.Error(t, err)
}

func TestClearIndex(t *testing.T) {
	docs := newFakeDocStore()
	svc := NewService(docs, newFakeJobStore(), nil)

	for i := 0; i < 3; i++ {
		req := indexRequest(uuid.New(), fmt.Sprintf("Doc %d", i))
		_, err := svc.IndexDocument(context.Background(), &req)
		require.NoError(t, err)
	}

	removed, err := svc.ClearIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), removed)
	assert.Empty(t, docs.docs)
}

func TestGetJob_Unknown(t *testing.T) {
	svc := NewService(newFakeDocStore(), newFakeJobStore(), nil)

	_, err := svc.GetJob(context.Background(), uuid.New())

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}
