package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestSearchRequest_NormalizeDefaults(t *testing.T) {
	req := &SearchRequest{Query: "ocean"}

	require.NoError(t, req.Normalize())

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.True(t, req.WantsHighlight())
}

func TestSearchRequest_NormalizeRejections(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"empty query", SearchRequest{}},
		{"query too long", SearchRequest{Query: strings.Repeat("a", 501)}},
		{"negative page", SearchRequest{Query: "x", Page: -1}},
		{"page size over cap", SearchRequest{Query: "x", PageSize: 101}},
		{"negative page size", SearchRequest{Query: "x", PageSize: -5}},
		{"unknown document type", SearchRequest{Query: "x", DocumentTypes: []string{"podcast"}}},
		{"bad sort order", SearchRequest{Query: "x", SortOrder: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Normalize())
		})
	}
}

func TestSearchRequest_HighlightExplicitOff(t *testing.T) {
	off := false
	req := &SearchRequest{Query: "ocean", Highlight: &off}

	require.NoError(t, req.Normalize())
	assert.False(t, req.WantsHighlight())
}

func TestIndexDocumentRequest_Normalize(t *testing.T) {
	req := &IndexDocumentRequest{
		DocumentID:   uuid.New(),
		DocumentType: "article",
		Title:        "T",
	}

	require.NoError(t, req.Normalize())
	assert.Equal(t, "en", req.Language)
	assert.NotNil(t, req.Metadata)
}

func TestIndexDocumentRequest_NormalizeRejections(t *testing.T) {
	missing := &IndexDocumentRequest{DocumentType: "article", Title: "T"}
	assert.Error(t, missing.Normalize())

	badType := &IndexDocumentRequest{DocumentID: uuid.New(), DocumentType: "podcast", Title: "T"}
	assert.Error(t, badType.Normalize())

	noTitle := &IndexDocumentRequest{DocumentID: uuid.New(), DocumentType: "article"}
	assert.Error(t, noTitle.Normalize())
}

func TestBulkIndexRequest_RequiresDocuments(t *testing.T) {
	assert.Error(t, (&BulkIndexRequest{}).Normalize())
}

func TestFacetRequest_Normalize(t *testing.T) {
	req := &FacetRequest{Query: "ocean"}
	require.NoError(t, req.Normalize())
	assert.Equal(t, DefaultFacetFields, req.FacetFields)

	bad := &FacetRequest{Query: "ocean", FacetFields: []string{"publisher"}}
	assert.Error(t, bad.Normalize())
}

func TestAutocompleteRequest_Normalize(t *testing.T) {
	req := &AutocompleteRequest{Query: "oc"}
	require.NoError(t, req.Normalize())
	assert.Equal(t, SuggestionDefaultLimit, req.Limit)

	over := &AutocompleteRequest{Query: "oc", Limit: 51}
	assert.Error(t, over.Normalize())
}
