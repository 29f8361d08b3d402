package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
)

const (
	fetchTimeout  = 30 * time.Second
	fetchPageSize = 1000
)

// itemMapper turns one upstream payload item into an indexing request.
type itemMapper func(item map[string]any) (dto.IndexDocumentRequest, error)

// HTTPSource fetches a paged item listing from one upstream service and maps
// each item through a service-specific normalizer.
type HTTPSource struct {
	name    string
	baseURL string
	path    string
	client  *http.Client
	mapItem itemMapper
}

func (s *HTTPSource) Name() string {
	return s.name
}

func (s *HTTPSource) FetchAll(ctx context.Context) ([]dto.IndexDocumentRequest, error) {
	endpoint := fmt.Sprintf("%s%s?page=1&page_size=%d", strings.TrimRight(s.baseURL, "/"), s.path, fetchPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.name, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s returned status %d: %s", s.name, resp.StatusCode, string(body))
	}

	var payload struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", s.name, err)
	}

	documents := make([]dto.IndexDocumentRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		doc, err := s.mapItem(item)
		if err != nil {
			return nil, fmt.Errorf("failed to map %s item: %w", s.name, err)
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func newHTTPSource(name, baseURL, path string, mapItem itemMapper) (*HTTPSource, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid base URL for source %s: %q", name, baseURL)
	}
	return &HTTPSource{
		name:    name,
		baseURL: baseURL,
		path:    path,
		client:  &http.Client{Timeout: fetchTimeout},
		mapItem: mapItem,
	}, nil
}

// NewContentSource indexes articles from the content service.
func NewContentSource(name, baseURL string) (*HTTPSource, error) {
	return newHTTPSource(name, baseURL, "/api/v1/articles", func(item map[string]any) (dto.IndexDocumentRequest, error) {
		id, err := itemUUID(item, "id")
		if err != nil {
			return dto.IndexDocumentRequest{}, err
		}
		return dto.IndexDocumentRequest{
			DocumentID:   id,
			DocumentType: string(domain.DocumentTypeArticle),
			Title:        itemString(item, "title"),
			Content:      itemString(item, "content"),
			Language:     itemLanguage(item),
			Metadata: map[string]any{
				"tags":     item["tags"],
				"category": item["category"],
			},
			AuthorID:    itemOptUUID(item, "author_id"),
			AuthorName:  itemOptString(item, "author_name"),
			Status:      itemOptString(item, "status"),
			PublishedAt: itemString(item, "published_at"),
		}, nil
	})
}

// NewPartnersSource indexes partner records; description, mission and
// location are folded into the searchable content.
func NewPartnersSource(name, baseURL string) (*HTTPSource, error) {
	return newHTTPSource(name, baseURL, "/api/v1/partners", func(item map[string]any) (dto.IndexDocumentRequest, error) {
		id, err := itemUUID(item, "id")
		if err != nil {
			return dto.IndexDocumentRequest{}, err
		}
		content := strings.TrimSpace(strings.Join([]string{
			itemString(item, "description"),
			itemString(item, "mission"),
			itemString(item, "location"),
		}, " "))
		return dto.IndexDocumentRequest{
			DocumentID:   id,
			DocumentType: string(domain.DocumentTypePartner),
			Title:        itemString(item, "name"),
			Content:      content,
			Language:     itemLanguage(item),
			Metadata: map[string]any{
				"type":     item["type"],
				"location": item["location"],
				"status":   item["status"],
			},
			Status: itemOptString(item, "status"),
		}, nil
	})
}

// NewProjectsSource indexes project records.
func NewProjectsSource(name, baseURL string) (*HTTPSource, error) {
	return newHTTPSource(name, baseURL, "/api/v1/projects", func(item map[string]any) (dto.IndexDocumentRequest, error) {
		id, err := itemUUID(item, "id")
		if err != nil {
			return dto.IndexDocumentRequest{}, err
		}
		return dto.IndexDocumentRequest{
			DocumentID:   id,
			DocumentType: string(domain.DocumentTypeProject),
			Title:        itemString(item, "name"),
			Content:      itemString(item, "description"),
			Language:     itemLanguage(item),
			Metadata: map[string]any{
				"category": item["category"],
				"location": item["location"],
				"budget":   item["budget"],
			},
			Status: itemOptString(item, "status"),
		}, nil
	})
}

// NewSocialSource indexes social posts; the first 100 characters of the post
// body double as the title.
func NewSocialSource(name, baseURL string) (*HTTPSource, error) {
	return newHTTPSource(name, baseURL, "/api/v1/posts", func(item map[string]any) (dto.IndexDocumentRequest, error) {
		id, err := itemUUID(item, "id")
		if err != nil {
			return dto.IndexDocumentRequest{}, err
		}
		content := itemString(item, "content")
		title := content
		if runes := []rune(content); len(runes) > 100 {
			title = string(runes[:100])
		}
		return dto.IndexDocumentRequest{
			DocumentID:   id,
			DocumentType: string(domain.DocumentTypeSocialPost),
			Title:        title,
			Content:      content,
			Language:     itemLanguage(item),
			Metadata: map[string]any{
				"platform":   item["platform"],
				"media_type": item["media_type"],
			},
			AuthorID:    itemOptUUID(item, "author_id"),
			AuthorName:  itemOptString(item, "author_name"),
			Status:      itemOptString(item, "status"),
			PublishedAt: itemString(item, "published_at"),
		}, nil
	})
}

// NewNotificationsSource indexes notification records.
func NewNotificationsSource(name, baseURL string) (*HTTPSource, error) {
	return newHTTPSource(name, baseURL, "/api/v1/notifications", func(item map[string]any) (dto.IndexDocumentRequest, error) {
		id, err := itemUUID(item, "id")
		if err != nil {
			return dto.IndexDocumentRequest{}, err
		}
		return dto.IndexDocumentRequest{
			DocumentID:   id,
			DocumentType: string(domain.DocumentTypeNotification),
			Title:        itemString(item, "title"),
			Content:      itemString(item, "message"),
			Language:     itemLanguage(item),
			Metadata: map[string]any{
				"type":     item["type"],
				"priority": item["priority"],
			},
			Status: itemOptString(item, "status"),
		}, nil
	})
}

func itemString(item map[string]any, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

func itemOptString(item map[string]any, key string) *string {
	if v, ok := item[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func itemLanguage(item map[string]any) string {
	if lang := itemString(item, "language"); lang != "" {
		return lang
	}
	return domain.DefaultLanguage
}

func itemUUID(item map[string]any, key string) (uuid.UUID, error) {
	raw := itemString(item, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return id, nil
}

func itemOptUUID(item map[string]any, key string) *uuid.UUID {
	raw := itemString(item, key)
	if raw == "" {
		return nil
	}
	if id, err := uuid.Parse(raw); err == nil {
		return &id
	}
	return nil
}
