package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.ElementsMatch(t, []string{"text/markdown", "text/x-markdown"}, New().SupportedMIMETypes())
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_TitleFromHeading(t *testing.T) {
	raw := &domain.RawChapter{
		Path:     "/drafts/chapter-one.md",
		MIMEType: "text/markdown",
		Content:  []byte("# The Den\n\nThe wolf howled."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "The Den", result.Title)
	assert.Equal(t, "The wolf howled.", result.Content)
}

func TestNormalise_TitleFromPath(t *testing.T) {
	raw := &domain.RawChapter{
		Path:    "/drafts/chapter-one.md",
		Content: []byte("## Part one\n\nThe wolf howled."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "chapter one", result.Title)
	assert.Equal(t, "Part one\n\nThe wolf howled.", result.Content)
}

func TestNormalise_NilChapter(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strong", "The **grey** wolf", "The grey wolf"},
		{"strong underscores", "The __grey__ wolf", "The grey wolf"},
		{"emphasis", "The *grey* wolf", "The grey wolf"},
		{"underscore emphasis", "The _grey_ wolf", "The grey wolf"},
		{"snake case kept", "file_name_here", "file_name_here"},
		{"link", "Ask [Fenrir](http://example.com) now", "Ask Fenrir now"},
		{"image", "Before ![map](map.png) after", "Before  after"},
		{"inline code", "Say `howl` twice", "Say howl twice"},
		{"blockquote", "> Run.", "Run."},
		{"list", "- one\n- two", "one\ntwo"},
		{"numbered list", "1. one\n2. two", "one\ntwo"},
		{"scene break", "End.\n\n* * *\n\nStart.", "End.\n\nStart."},
		{"dash scene break", "End.\n\n---\n\nStart.", "End.\n\nStart."},
		{"blank lines collapsed", "a\n\n\n\nb", "a\n\nb"},
		{"code fence", "```\nhowl\n```", "howl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.input))
		})
	}
}
