package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Annotation))
	assert.NotEmpty(t, string(theme.Highlight))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_AnnotationColorsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	palette := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Annotation,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range palette {
		s := string(c)
		assert.False(t, seen[s], "duplicate colour: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestNewStyles_AnnotationStyles(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Comment.GetUnderline())
	assert.True(t, s.Link.GetUnderline())
	assert.True(t, s.Cursor.GetReverse())
	assert.Equal(t, s.Theme().Highlight, s.Selection.GetBackground())
	assert.True(t, s.Badge.GetBold())
}
