package search

import (
	"sort"
	"strings"

	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
)

const (
	snippetRuneLength = 200
	truncationMarker  = "..."
	markOpen          = "<mark>"
	markClose         = "</mark>"
)

// Ranker turns a page of matched documents into search results: it cuts the
// content snippet, applies highlighting and carries the relevance score.
type Ranker struct{}

func NewRanker() Ranker {
	return Ranker{}
}

// Results builds one SearchResult per document. scores is parallel to docs
// and may be nil when the sort mode did not track relevance.
func (Ranker) Results(docs []domain.Document, scores []float64, queryText string, highlight bool) []dto.SearchResult {
	results := make([]dto.SearchResult, 0, len(docs))
	for i, doc := range docs {
		snippet := Snippet(doc.Content)
		r := dto.SearchResult{
			ID:             doc.ID,
			DocumentID:     doc.DocumentID,
			DocumentType:   doc.DocumentType,
			Title:          doc.Title,
			ContentSnippet: snippet,
			Language:       doc.Language,
			Metadata:       doc.Metadata,
			AuthorName:     doc.AuthorName,
			PublishedAt:    doc.PublishedAt,
		}
		if r.Metadata == nil {
			r.Metadata = map[string]any{}
		}
		if highlight {
			r.HighlightedTitle = Highlight(doc.Title, queryText)
			r.HighlightedContent = Highlight(snippet, queryText)
		}
		if scores != nil && i < len(scores) {
			score := scores[i]
			r.Score = &score
		}
		results = append(results, r)
	}
	return results
}

// Snippet is the first 200 characters of content, with a truncation marker
// when anything was cut.
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetRuneLength {
		return content
	}
	return string(runes[:snippetRuneLength]) + truncationMarker
}

type span struct {
	start, end int
}

// Highlight wraps every case-insensitive occurrence of each query term in
// <mark> tags. Matching is a single deterministic pass: all term spans are
// collected, sorted by start offset (longer span first on ties), and spans
// overlapping an already accepted one are dropped, so markers never nest.
func Highlight(text, queryText string) string {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// case folding shifted byte offsets; leave the text unmarked
		// rather than slicing at wrong boundaries
		return text
	}

	var spans []span
	for _, term := range strings.Fields(strings.ToLower(queryText)) {
		if term == "" {
			continue
		}
		for from := 0; ; {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, span{start: start, end: start + len(term)})
			from = start + len(term)
		}
	}
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			continue
		}
		b.WriteString(text[pos:s.start])
		b.WriteString(markOpen)
		b.WriteString(text[s.start:s.end])
		b.WriteString(markClose)
		pos = s.end
	}
	b.WriteString(text[pos:])
	return b.String()
}
