package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func itemServer(t *testing.T, wantPath string, items []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "1000", r.URL.Query().Get("page_size"))
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestContentSource_MapsArticles(t *testing.T) {
	articleID := uuid.New()
	authorID := uuid.New()
	srv := itemServer(t, "/api/v1/articles", []map[string]any{{
		"id":           articleID.String(),
		"title":        "Ocean Report",
		"content":      "long form content",
		"language":     "es",
		"author_id":    authorID.String(),
		"author_name":  "Ada",
		"status":       "published",
		"published_at": "2025-03-01T12:00:00Z",
		"tags":         []string{"ocean"},
		"category":     "environment",
	}})

	src, err := NewContentSource("content", srv.URL)
	require.NoError(t, err)

	documents, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, documents, 1)

	doc := documents[0]
	assert.Equal(t, articleID, doc.DocumentID)
	assert.Equal(t, "article", doc.DocumentType)
	assert.Equal(t, "Ocean Report", doc.Title)
	assert.Equal(t, "es", doc.Language)
	require.NotNil(t, doc.AuthorID)
	assert.Equal(t, authorID, *doc.AuthorID)
	require.NotNil(t, doc.AuthorName)
	assert.Equal(t, "Ada", *doc.AuthorName)
	assert.Equal(t, "environment", doc.Metadata["category"])
}

func TestPartnersSource_FoldsContentFields(t *testing.T) {
	srv := itemServer(t, "/api/v1/partners", []map[string]any{{
		"id":          uuid.New().String(),
		"name":        "Blue Foundation",
		"description": "Marine conservation",
		"mission":     "Protect reefs",
		"location":    "Lisbon",
	}})

	src, err := NewPartnersSource("partners", srv.URL)
	require.NoError(t, err)

	documents, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, documents, 1)

	doc := documents[0]
	assert.Equal(t, "partner", doc.DocumentType)
	assert.Equal(t, "Blue Foundation", doc.Title)
	assert.Equal(t, "Marine conservation Protect reefs Lisbon", doc.Content)
	assert.Equal(t, "en", doc.Language)
}

func TestSocialSource_TitleFromContent(t *testing.T) {
	long := strings.Repeat("x", 150)
	srv := itemServer(t, "/api/v1/posts", []map[string]any{{
		"id":      uuid.New().String(),
		"content": long,
	}})

	src, err := NewSocialSource("social", srv.URL)
	require.NoError(t, err)

	documents, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, documents, 1)

	assert.Equal(t, "social_post", documents[0].DocumentType)
	assert.Len(t, documents[0].Title, 100)
	assert.Equal(t, long, documents[0].Content)
}

func TestFetchAll_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	src, err := NewContentSource("content", srv.URL)
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "502")
}

func TestFetchAll_BadItemID(t *testing.T) {
	srv := itemServer(t, "/api/v1/articles", []map[string]any{{
		"id":    "not-a-uuid",
		"title": "Broken",
	}})

	src, err := NewContentSource("content", srv.URL)
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	require.Error(t, err)
}

func TestBuildSources(t *testing.T) {
	cfg := RegistryConfig{Sources: []SourceConfig{
		{Name: "content", Kind: "content", URL: "http://content:8000"},
		{Name: "partners", Kind: "partners", URL: "http://partners:8000"},
		{Name: "projects", Kind: "projects", URL: "http://projects:8000"},
		{Name: "social", Kind: "social", URL: "http://social:8000"},
		{Name: "notifications", Kind: "notifications", URL: "http://notifications:8000"},
	}}

	srcs, err := BuildSources(cfg)
	require.NoError(t, err)
	require.Len(t, srcs, 5)
	assert.Equal(t, "content", srcs[0].Name())
}

func TestBuildSources_UnknownKind(t *testing.T) {
	_, err := BuildSources(RegistryConfig{Sources: []SourceConfig{
		{Name: "x", Kind: "graphql", URL: "http://x"},
	}})
	require.Error(t, err)
}
