package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	dt, err := ParseDocumentType("social_post")
	require.NoError(t, err)
	assert.Equal(t, DocumentTypeSocialPost, dt)

	_, err = ParseDocumentType("podcast")
	assert.Error(t, err)
}

func TestDocumentTypeLabel(t *testing.T) {
	assert.Equal(t, "Article", DocumentTypeArticle.Label())
	assert.Equal(t, "Social Post", DocumentTypeSocialPost.Label())
}

func TestRegconfig(t *testing.T) {
	assert.Equal(t, "english", Regconfig("en"))
	assert.Equal(t, "spanish", Regconfig("es"))
	assert.Equal(t, "simple", Regconfig("ja"))
	assert.Equal(t, "simple", Regconfig(""))
}

func TestLanguageLabel(t *testing.T) {
	assert.Equal(t, "French", LanguageLabel("fr"))
	assert.Equal(t, "DE", LanguageLabel("de"))
}

func TestTitleLabel(t *testing.T) {
	assert.Equal(t, "Social Post", TitleLabel("social_post"))
	assert.Equal(t, "Published", TitleLabel("published"))
	assert.Equal(t, "In Review", TitleLabel("in_review"))
}
