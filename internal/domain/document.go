package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies which upstream service a document came from.
type DocumentType string

const (
	DocumentTypeArticle      DocumentType = "article"
	DocumentTypeStory        DocumentType = "story"
	DocumentTypePartner      DocumentType = "partner"
	DocumentTypeProject      DocumentType = "project"
	DocumentTypeSocialPost   DocumentType = "social_post"
	DocumentTypeNotification DocumentType = "notification"
	DocumentTypeCampaign     DocumentType = "campaign"
)

var documentTypes = map[DocumentType]bool{
	DocumentTypeArticle:      true,
	DocumentTypeStory:        true,
	DocumentTypePartner:      true,
	DocumentTypeProject:      true,
	DocumentTypeSocialPost:   true,
	DocumentTypeNotification: true,
	DocumentTypeCampaign:     true,
}

// ParseDocumentType validates a raw document type value.
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(s)
	if !documentTypes[dt] {
		return "", fmt.Errorf("unknown document type: %q", s)
	}
	return dt, nil
}

// Label returns the human-readable facet label, e.g. "social_post" -> "Social Post".
func (dt DocumentType) Label() string {
	return TitleLabel(string(dt))
}

// Document is one indexed record. At most one Document exists per DocumentID
// (upsert semantics). The search vector lives only in the store, derived from
// title/content/author name/language; it is never written from Go.
type Document struct {
	ID           uuid.UUID
	DocumentID   uuid.UUID
	DocumentType DocumentType
	Title        string
	Content      string
	Language     string
	Metadata     map[string]any
	AuthorID     *uuid.UUID
	AuthorName   *string
	Status       *string
	PublishedAt  *time.Time
	IndexedAt    time.Time
	UpdatedAt    time.Time
}

// IndexStats is a read-only aggregation over the document corpus.
type IndexStats struct {
	TotalDocuments int64            `json:"total_documents"`
	ByType         map[string]int64 `json:"by_type"`
	ByLanguage     map[string]int64 `json:"by_language"`
}
