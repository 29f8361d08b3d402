package dto

import "github.com/openimpact/search-gateway/internal/apperr"

// DefaultFacetFields are computed when the request does not name its own.
var DefaultFacetFields = []string{"document_type", "language", "author_name", "status"}

var facetFields = map[string]bool{
	"document_type": true,
	"language":      true,
	"author_name":   true,
	"status":        true,
}

// FacetRequest asks for grouped counts over the result set of a query.
// Filters narrow the base set the same way search filters do.
type FacetRequest struct {
	Query       string            `json:"query"`
	FacetFields []string          `json:"facet_fields,omitempty"`
	Filters     map[string]string `json:"filters,omitempty"`
}

func (r *FacetRequest) Normalize() error {
	if r.Query == "" {
		return apperr.NewValidation("query is required")
	}
	if len(r.Query) > QueryMaxLength {
		return apperr.NewValidation("query exceeds maximum length")
	}
	if len(r.FacetFields) == 0 {
		r.FacetFields = DefaultFacetFields
	}
	for _, f := range r.FacetFields {
		if !facetFields[f] {
			return apperr.NewValidation("unsupported facet field: " + f)
		}
	}
	return nil
}

// FacetOption is one group of a facet: raw value, match count and a
// human-readable label.
type FacetOption struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
	Label string `json:"label,omitempty"`
}

type FacetResponse struct {
	Query        string                   `json:"query"`
	Facets       map[string][]FacetOption `json:"facets"`
	TotalResults int64                    `json:"total_results"`
}
