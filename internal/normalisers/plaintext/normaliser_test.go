package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/plain"}, New().SupportedMIMETypes())
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"verbatim", "The wolf howled.\n\n  Indented.\n", "The wolf howled.\n\n  Indented.\n"},
		{"byte order mark", "\ufeffThe wolf", "The wolf"},
		{"windows line endings", "one\r\ntwo\r\n", "one\ntwo\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawChapter{Path: "/drafts/the_den.txt", Content: []byte(tt.content)}

			result, err := New().Normalise(context.Background(), raw)

			require.NoError(t, err)
			assert.Equal(t, "the den", result.Title)
			assert.Equal(t, tt.want, result.Content)
		})
	}
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	raw := &domain.RawChapter{Path: "x.txt", Content: []byte{0xff, 0xfe, 0x00}}

	_, err := New().Normalise(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_NilChapter(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
