package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/storage"
)

type fakeDocumentStore struct {
	page      *storage.DocumentPage
	searchErr error
	lastQuery *query.Compiled
}

func (f *fakeDocumentStore) Search(_ context.Context, q *query.Compiled) (*storage.DocumentPage, error) {
	f.lastQuery = q
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.page == nil {
		return &storage.DocumentPage{}, nil
	}
	return f.page, nil
}

func (f *fakeDocumentStore) Count(context.Context, query.Match, query.Predicates) (int64, error) {
	return 0, nil
}

func (f *fakeDocumentStore) FacetCounts(context.Context, query.Match, query.Predicates, string) ([]storage.FacetRow, error) {
	return nil, nil
}

func (f *fakeDocumentStore) FindByDocumentID(context.Context, uuid.UUID) (*domain.Document, error) {
	return nil, nil
}

func (f *fakeDocumentStore) Save(context.Context, *domain.Document) error { return nil }

func (f *fakeDocumentStore) Delete(context.Context, uuid.UUID) (bool, error) { return false, nil }

func (f *fakeDocumentStore) Clear(context.Context) (int64, error) { return 0, nil }

func (f *fakeDocumentStore) Stats(context.Context) (*domain.IndexStats, error) { return nil, nil }

func (f *fakeDocumentStore) Optimize(context.Context) error { return nil }

var _ storage.DocumentStore = (*fakeDocumentStore)(nil)

type fakeRecorder struct {
	err     error
	tracked []string
	counts  []int64
}

func (f *fakeRecorder) TrackSearch(_ context.Context, queryText string, _ *string, _ map[string]any, resultsCount int64, _ *uuid.UUID, _ float64) error {
	f.tracked = append(f.tracked, queryText)
	f.counts = append(f.counts, resultsCount)
	return f.err
}

func TestSearch_RejectsEmptyQuery(t *testing.T) {
	svc := NewService(&fakeDocumentStore{}, &fakeRecorder{})

	_, err := svc.Search(context.Background(), &dto.SearchRequest{}, nil)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSearch_BuildsResponse(t *testing.T) {
	store := &fakeDocumentStore{page: &storage.DocumentPage{
		Documents: []domain.Document{
			{ID: uuid.New(), Title: "Ocean Report", Content: "ocean data"},
		},
		Scores: []float64{0.7},
		Total:  41,
	}}
	recorder := &fakeRecorder{}
	svc := NewService(store, recorder)

	resp, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "ocean"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "ocean", resp.Query)
	assert.Equal(t, int64(41), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, int64(3), resp.TotalPages)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "<mark>ocean</mark> data", resp.Results[0].HighlightedContent)

	require.Len(t, recorder.tracked, 1)
	assert.Equal(t, "ocean", recorder.tracked[0])
	assert.Equal(t, int64(41), recorder.counts[0])
}

func TestSearch_RecorderFailureDoesNotFailSearch(t *testing.T) {
	store := &fakeDocumentStore{page: &storage.DocumentPage{Total: 1}}
	svc := NewService(store, &fakeRecorder{err: errors.New("analytics down")})

	resp, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "ocean"}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
}

func TestSearch_StoreFailurePropagates(t *testing.T) {
	store := &fakeDocumentStore{searchErr: errors.New("connection refused")}
	svc := NewService(store, &fakeRecorder{})

	_, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "ocean"}, nil)

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to execute search")
}

func TestSearch_HighlightDisabled(t *testing.T) {
	store := &fakeDocumentStore{page: &storage.DocumentPage{
		Documents: []domain.Document{{Title: "Ocean", Content: "ocean"}},
		Total:     1,
	}}
	svc := NewService(store, &fakeRecorder{})
	off := false

	resp, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "ocean", Highlight: &off}, nil)
	require.NoError(t, err)

	assert.Empty(t, resp.Results[0].HighlightedTitle)
	assert.Empty(t, resp.Results[0].HighlightedContent)
}

func TestSearchByType_OverridesRequestedTypes(t *testing.T) {
	store := &fakeDocumentStore{}
	svc := NewService(store, &fakeRecorder{})

	req := &dto.SearchRequest{Query: "ocean", DocumentTypes: []string{"campaign"}}
	_, err := svc.SearchByType(context.Background(), req, nil,
		domain.DocumentTypeArticle, domain.DocumentTypeStory)
	require.NoError(t, err)

	require.NotNil(t, store.lastQuery)
	assert.Equal(t,
		[]domain.DocumentType{domain.DocumentTypeArticle, domain.DocumentTypeStory},
		store.lastQuery.Predicates.DocumentTypes)
}
