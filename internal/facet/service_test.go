package facet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/storage"
)

type fakeStore struct {
	total     int64
	rows      map[string][]storage.FacetRow
	lastMatch query.Match
	lastPreds query.Predicates
}

func (f *fakeStore) Search(context.Context, *query.Compiled) (*storage.DocumentPage, error) {
	return nil, nil
}

func (f *fakeStore) Count(_ context.Context, match query.Match, preds query.Predicates) (int64, error) {
	f.lastMatch = match
	f.lastPreds = preds
	return f.total, nil
}

func (f *fakeStore) FacetCounts(_ context.Context, _ query.Match, _ query.Predicates, field string) ([]storage.FacetRow, error) {
	return f.rows[field], nil
}

func (f *fakeStore) FindByDocumentID(context.Context, uuid.UUID) (*domain.Document, error) {
	return nil, nil
}

func (f *fakeStore) Save(context.Context, *domain.Document) error { return nil }

func (f *fakeStore) Delete(context.Context, uuid.UUID) (bool, error) { return false, nil }

func (f *fakeStore) Clear(context.Context) (int64, error) { return 0, nil }

func (f *fakeStore) Stats(context.Context) (*domain.IndexStats, error) { return nil, nil }

func (f *fakeStore) Optimize(context.Context) error { return nil }

var _ storage.DocumentStore = (*fakeStore)(nil)

func TestGetFacets_LabelsAndOrdering(t *testing.T) {
	store := &fakeStore{
		total: 12,
		rows: map[string][]storage.FacetRow{
			"document_type": {
				{Value: "social_post", Count: 2},
				{Value: "article", Count: 10},
			},
			"language": {
				{Value: "en", Count: 8},
				{Value: "xx", Count: 4},
			},
		},
	}
	svc := NewService(store)

	resp, err := svc.GetFacets(context.Background(), &dto.FacetRequest{
		Query:       "ocean",
		FacetFields: []string{"document_type", "language"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), resp.TotalResults)

	types := resp.Facets["document_type"]
	require.Len(t, types, 2)
	// sorted count desc
	assert.Equal(t, "article", types[0].Value)
	assert.Equal(t, "Article", types[0].Label)
	assert.Equal(t, "Social Post", types[1].Label)

	langs := resp.Facets["language"]
	assert.Equal(t, "English", langs[0].Label)
	assert.Equal(t, "XX", langs[1].Label)
}

func TestGetFacets_SkipsNullAuthorsAndStatus(t *testing.T) {
	store := &fakeStore{
		rows: map[string][]storage.FacetRow{
			"author_name": {
				{Value: "", Count: 30},
				{Value: "Ada", Count: 3},
			},
			"status": {
				{Value: "", Count: 9},
				{Value: "published", Count: 5},
			},
		},
	}
	svc := NewService(store)

	resp, err := svc.GetFacets(context.Background(), &dto.FacetRequest{
		Query:       "ocean",
		FacetFields: []string{"author_name", "status"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Facets["author_name"], 1)
	assert.Equal(t, "Ada", resp.Facets["author_name"][0].Value)
	require.Len(t, resp.Facets["status"], 1)
	assert.Equal(t, "Published", resp.Facets["status"][0].Label)
}

func TestGetFacets_CapsAuthorsAtTwenty(t *testing.T) {
	var rows []storage.FacetRow
	for i := 0; i < 30; i++ {
		rows = append(rows, storage.FacetRow{
			Value: fmt.Sprintf("author-%d", i),
			Count: int64(i),
		})
	}
	store := &fakeStore{rows: map[string][]storage.FacetRow{"author_name": rows}}
	svc := NewService(store)

	resp, err := svc.GetFacets(context.Background(), &dto.FacetRequest{
		Query:       "ocean",
		FacetFields: []string{"author_name"},
	})
	require.NoError(t, err)

	options := resp.Facets["author_name"]
	require.Len(t, options, 20)
	// top-by-count survive the cap
	assert.Equal(t, int64(29), options[0].Count)
	assert.Equal(t, int64(10), options[19].Count)
}

func TestGetFacets_DefaultFields(t *testing.T) {
	store := &fakeStore{rows: map[string][]storage.FacetRow{}}
	svc := NewService(store)

	resp, err := svc.GetFacets(context.Background(), &dto.FacetRequest{Query: "ocean"})
	require.NoError(t, err)

	assert.Len(t, resp.Facets, 4)
	for _, field := range dto.DefaultFacetFields {
		assert.Contains(t, resp.Facets, field)
	}
}

func TestGetFacets_RejectsUnknownField(t *testing.T) {
	svc := NewService(&fakeStore{})

	_, err := svc.GetFacets(context.Background(), &dto.FacetRequest{
		Query:       "ocean",
		FacetFields: []string{"publisher"},
	})

	require.Error(t, err)
}

func TestGetFilterOptions_UnknownFieldIsEmpty(t *testing.T) {
	svc := NewService(&fakeStore{})

	options, err := svc.GetFilterOptions(context.Background(), "publisher")

	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestCountResults_MapsFieldToPredicate(t *testing.T) {
	store := &fakeStore{total: 7}
	svc := NewService(store)

	count, err := svc.CountResults(context.Background(), "ocean", "document_type", "article")
	require.NoError(t, err)

	assert.Equal(t, int64(7), count)
	assert.Equal(t, []domain.DocumentType{domain.DocumentTypeArticle}, store.lastPreds.DocumentTypes)
	assert.Equal(t, "ocean:*", store.lastMatch.TSQuery)

	_, err = svc.CountResults(context.Background(), "ocean", "publisher", "x")
	require.Error(t, err)
}
