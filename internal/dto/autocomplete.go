package dto

import "github.com/openimpact/search-gateway/internal/apperr"

const (
	SuggestionDefaultLimit = 10
	SuggestionMaxLimit     = 50
)

type AutocompleteRequest struct {
	Query    string `json:"query" query:"query"`
	Language string `json:"language,omitempty" query:"language"`
	Limit    int    `json:"limit,omitempty" query:"limit"`
}

func (r *AutocompleteRequest) Normalize() error {
	if r.Query == "" {
		return apperr.NewValidation("query is required")
	}
	if r.Limit == 0 {
		r.Limit = SuggestionDefaultLimit
	}
	if r.Limit < 1 || r.Limit > SuggestionMaxLimit {
		return apperr.NewValidation("limit must be between 1 and 50")
	}
	return nil
}

type AutocompleteResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type TrackSuggestionRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (r *TrackSuggestionRequest) Normalize() error {
	if r.Text == "" {
		return apperr.NewValidation("text is required")
	}
	return nil
}
