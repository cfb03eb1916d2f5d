package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// wolfTree is "The wolf howled near the wolf den." with a two-comment
// thread on the first "wolf" and a link on the second.
func wolfTree() domain.RenderTree {
	return domain.RenderTree{
		{Text: "The ", Start: 0, End: 4},
		{Text: "wolf", Start: 4, End: 8, AnnotationID: "a", Kind: domain.KindComment, CommentCount: 2},
		{Text: " howled near the ", Start: 8, End: 25},
		{Text: "wolf", Start: 25, End: 29, AnnotationID: "b", Kind: domain.KindLink, EntityType: "character", EntityID: "fenrir"},
		{Text: " den.", Start: 29, End: 34},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBadge(t *testing.T) {
	tests := []struct {
		count int
		style domain.BadgeStyle
		want  string
	}{
		{1, domain.BadgeStyleSuperscript, "¹"},
		{12, domain.BadgeStyleSuperscript, "¹²"},
		{0, domain.BadgeStyleSuperscript, "⁰"},
		{3, domain.BadgeStyleBracket, "[3]"},
		{3, domain.BadgeStyleNone, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Badge(tt.count, tt.style))
	}
}

func TestPlain(t *testing.T) {
	got := Plain(wolfTree(), Options{BadgeStyle: domain.BadgeStyleSuperscript})
	assert.Equal(t, "The wolf² howled near the wolf den.", got)

	got = Plain(wolfTree(), Options{BadgeStyle: domain.BadgeStyleBracket})
	assert.Equal(t, "The wolf[2] howled near the wolf den.", got)
}

func TestPlain_Wraps(t *testing.T) {
	got := Plain(wolfTree(), Options{BadgeStyle: domain.BadgeStyleNone, Width: 12})
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 12)
	}
	assert.Equal(t, "The wolf howled near the wolf den.", strings.Join(strings.Fields(got), " "))
}

func TestANSI_WithoutColorMatchesPlain(t *testing.T) {
	opts := Options{BadgeStyle: domain.BadgeStyleSuperscript}
	assert.Equal(t, Plain(wolfTree(), opts), ANSI(wolfTree(), opts))
}

func TestANSI_WithColor(t *testing.T) {
	got := ANSI(wolfTree(), Options{BadgeStyle: domain.BadgeStyleSuperscript, Color: true})

	assert.Contains(t, got, "\x1b[")
	stripped := ansi.Strip(got)
	assert.Contains(t, stripped, "wolf²")
	assert.Contains(t, stripped, " howled near the ")
}

func TestANSI_StrippedMatchesPlain(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"superscript", Options{BadgeStyle: domain.BadgeStyleSuperscript}},
		{"bracket", Options{BadgeStyle: domain.BadgeStyleBracket}},
		{"selected", Options{BadgeStyle: domain.BadgeStyleSuperscript, Selected: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colored := tt.opts
			colored.Color = true

			got := ANSI(wolfTree(), colored)

			assert.Equal(t, Plain(wolfTree(), tt.opts), ansi.Strip(got))
		})
	}
}

func TestANSI_KeepsNewlines(t *testing.T) {
	tree := domain.RenderTree{
		{Text: "one\ntwo", Start: 0, End: 7, AnnotationID: "a", Kind: domain.KindComment, CommentCount: 1},
	}
	got := ANSI(tree, Options{Color: true, BadgeStyle: domain.BadgeStyleNone})
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, ColorEnabled(domain.ColorAlways, nil))
	assert.False(t, ColorEnabled(domain.ColorNever, nil))
	assert.False(t, ColorEnabled(domain.ColorAuto, nil))
}

func TestHTML(t *testing.T) {
	got := HTML(wolfTree(), Options{BadgeStyle: domain.BadgeStyleSuperscript, Selected: "b"})

	assert.True(t, strings.HasPrefix(got, `<div class="chapter">The `))
	assert.Contains(t, got, `<span class="comment" data-annotation-id="a">wolf<sup class="comment-badge">²</sup></span>`)
	assert.Contains(t, got, `<span class="link-annotation selected" data-annotation-id="b" data-entity-type="character" data-entity-id="fenrir">wolf</span>`)
	assert.True(t, strings.HasSuffix(got, " den.</div>"))
}

func TestHTML_Escapes(t *testing.T) {
	tree := domain.RenderTree{
		{Text: "<b>&\"\nnext", Start: 0, End: 9},
	}
	got := HTML(tree, Options{})
	assert.Equal(t, `<div class="chapter">&lt;b&gt;&amp;&#34;<br>next</div>`, got)
}

func TestJSON(t *testing.T) {
	data, err := JSON(wolfTree())
	require.NoError(t, err)

	var segs []Segment
	require.NoError(t, json.Unmarshal(data, &segs))
	require.Len(t, segs, 5)
	assert.Equal(t, "comment", segs[1].Kind)
	assert.Equal(t, 2, segs[1].CommentCount)
	assert.Equal(t, "fenrir", segs[3].EntityID)
	assert.Empty(t, segs[0].Kind)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPlain, wolfTree(), Options{BadgeStyle: domain.BadgeStyleBracket}))
	assert.Equal(t, "The wolf[2] howled near the wolf den.\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, wolfTree(), Options{}))
	assert.True(t, strings.HasPrefix(buf.String(), "["))

	assert.ErrorIs(t, Write(&buf, Format("pdf"), wolfTree(), Options{}), domain.ErrInvalidInput)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, domain.BadgeStyleSuperscript, opts.BadgeStyle)
	assert.Equal(t, 80, opts.Width)
	assert.False(t, opts.Color)
}
