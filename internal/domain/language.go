package domain

import "strings"

// Language codes carried on documents and requests. Anything outside this
// table is still stored, it just falls back to the simple text search config.
const DefaultLanguage = "en"

var regconfigByCode = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"pt": "portuguese",
}

var languageLabels = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"pt": "Portuguese",
}

// Regconfig maps a language code to the PostgreSQL text search configuration
// used for both the stored vector and query-side tsquery building.
func Regconfig(code string) string {
	if cfg, ok := regconfigByCode[code]; ok {
		return cfg
	}
	return "simple"
}

// LanguageLabel returns the display name for a language facet value,
// or the upper-cased code for languages outside the table.
func LanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return strings.ToUpper(code)
}

// TitleLabel turns an enum-ish value into a display label:
// underscores become spaces, each word is title-cased.
func TitleLabel(value string) string {
	words := strings.Split(strings.ReplaceAll(value, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
