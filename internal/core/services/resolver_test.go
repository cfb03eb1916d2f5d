package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

func wolfView(t *testing.T) (domain.RenderTree, *domain.ViewNode) {
	t.Helper()
	threads := fakeThreads{
		counts: map[string]int{"a": 12},
		links:  map[string]domain.EntityLink{"b": {EntityType: "region", EntityID: "den"}},
	}
	tree, issues := Compose(wolfText, []domain.Annotation{comment("a", 4, 8), link("b", 30, 34)}, threads)
	require.Empty(t, issues)
	return tree, BuildView(tree)
}

func TestBuildView_Structure(t *testing.T) {
	tree, root := wolfView(t)

	require.Len(t, root.Children, len(tree))
	assert.Equal(t, -1, root.Segment)

	plain := root.Children[0]
	assert.True(t, plain.IsText())
	assert.Equal(t, "The ", plain.Text)

	commentEl := root.Children[1]
	require.Len(t, commentEl.Children, 2)
	assert.Equal(t, "wolf", commentEl.Children[0].Text)
	badge := commentEl.Children[1]
	assert.True(t, badge.DecorationOnly)
	assert.Equal(t, "12", badge.Text)
	assert.Same(t, commentEl, badge.Parent)

	linkEl := root.Children[3]
	require.Len(t, linkEl.Children, 2)
	assert.Equal(t, "den.", linkEl.Children[0].Text)
	assert.Equal(t, ZeroWidthMarker, linkEl.Children[1].Text)
	assert.True(t, linkEl.Children[1].DecorationOnly)
}

func TestResolveSelection_RoundTrip(t *testing.T) {
	_, root := wolfView(t)
	n := len([]rune(wolfText))

	for start := 0; start < n; start++ {
		for end := start + 1; end <= n; end++ {
			anchor, err := LocateOffset(root, start)
			require.NoError(t, err)
			focus, err := LocateOffset(root, end)
			require.NoError(t, err)

			got, err := ResolveSelection(root, domain.Selection{Anchor: anchor, Focus: focus})
			require.NoError(t, err)
			require.Equal(t, domain.Range{Start: start, End: end}, got)
		}
	}
}

func TestResolveSelection_RepeatedText(t *testing.T) {
	_, root := wolfView(t)

	// Select the second "wolf", which lives after the comment badge.
	after := root.Children[2]
	sel := domain.Selection{
		Anchor: domain.SelectionPoint{Node: after, Offset: 17},
		Focus:  domain.SelectionPoint{Node: after, Offset: 21},
	}

	got, err := ResolveSelection(root, sel)
	require.NoError(t, err)
	assert.Equal(t, domain.Range{Start: 25, End: 29}, got)
	assert.Equal(t, "wolf", string([]rune(wolfText)[got.Start:got.End]))
}

func TestResolveSelection_BadgeExclusion(t *testing.T) {
	_, root := wolfView(t)
	commentEl := root.Children[1]
	badge := commentEl.Children[1]
	after := root.Children[2]

	tests := []struct {
		name string
		sel  domain.Selection
		want domain.Range
	}{
		{
			name: "from inside badge to following text",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: badge, Offset: 1},
				Focus:  domain.SelectionPoint{Node: after, Offset: 7},
			},
			want: domain.Range{Start: 8, End: 15},
		},
		{
			name: "from preceding text to end of badge",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: commentEl.Children[0], Offset: 0},
				Focus:  domain.SelectionPoint{Node: badge, Offset: 2},
			},
			want: domain.Range{Start: 4, End: 8},
		},
		{
			name: "element boundary after badge",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: root.Children[0], Offset: 0},
				Focus:  domain.SelectionPoint{Node: commentEl, Offset: 2},
			},
			want: domain.Range{Start: 0, End: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSelection(root, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSelection_BackwardDrag(t *testing.T) {
	_, root := wolfView(t)
	plain := root.Children[0]
	word := root.Children[1].Children[0]

	got, err := ResolveSelection(root, domain.Selection{
		Anchor: domain.SelectionPoint{Node: word, Offset: 4},
		Focus:  domain.SelectionPoint{Node: plain, Offset: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Range{Start: 1, End: 8}, got)
}

func TestResolveSelection_RootChildIndex(t *testing.T) {
	_, root := wolfView(t)

	got, err := ResolveSelection(root, domain.Selection{
		Anchor: domain.SelectionPoint{Node: root, Offset: 1},
		Focus:  domain.SelectionPoint{Node: root, Offset: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Range{Start: 4, End: 8}, got)
}

func TestResolveSelection_Empty(t *testing.T) {
	_, root := wolfView(t)
	commentEl := root.Children[1]

	tests := []struct {
		name string
		sel  domain.Selection
	}{
		{
			name: "collapsed",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: root.Children[0], Offset: 2},
				Focus:  domain.SelectionPoint{Node: root.Children[0], Offset: 2},
			},
		},
		{
			name: "badge only",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: commentEl.Children[1], Offset: 0},
				Focus:  domain.SelectionPoint{Node: commentEl.Children[1], Offset: 2},
			},
		},
		{
			name: "end of one node to start of next",
			sel: domain.Selection{
				Anchor: domain.SelectionPoint{Node: root.Children[0], Offset: 4},
				Focus:  domain.SelectionPoint{Node: commentEl.Children[0], Offset: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSelection(root, tt.sel)
			assert.ErrorIs(t, err, domain.ErrEmptySelection)
		})
	}
}

func TestResolveSelection_InvalidInput(t *testing.T) {
	_, root := wolfView(t)
	stranger := &domain.ViewNode{Text: "elsewhere"}

	tests := []struct {
		name string
		sel  domain.Selection
	}{
		{"nil node", domain.Selection{Focus: domain.SelectionPoint{Node: root, Offset: 0}}},
		{"node not in tree", domain.Selection{
			Anchor: domain.SelectionPoint{Node: stranger, Offset: 0},
			Focus:  domain.SelectionPoint{Node: root.Children[0], Offset: 2},
		}},
		{"text offset past node", domain.Selection{
			Anchor: domain.SelectionPoint{Node: root.Children[0], Offset: 0},
			Focus:  domain.SelectionPoint{Node: root.Children[0], Offset: 5},
		}},
		{"child index past element", domain.Selection{
			Anchor: domain.SelectionPoint{Node: root, Offset: 0},
			Focus:  domain.SelectionPoint{Node: root, Offset: 9},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSelection(root, tt.sel)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLocateOffset(t *testing.T) {
	_, root := wolfView(t)

	p, err := LocateOffset(root, 0)
	require.NoError(t, err)
	assert.Same(t, root.Children[0], p.Node)
	assert.Equal(t, 0, p.Offset)

	p, err = LocateOffset(root, 5)
	require.NoError(t, err)
	assert.Same(t, root.Children[1].Children[0], p.Node)
	assert.Equal(t, 1, p.Offset)

	p, err = LocateOffset(root, 34)
	require.NoError(t, err)
	assert.Same(t, root.Children[3].Children[0], p.Node)
	assert.Equal(t, 4, p.Offset)

	_, err = LocateOffset(root, 35)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = LocateOffset(root, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLocateOffset_EmptyDocument(t *testing.T) {
	tree, _ := Compose("", nil, nil)
	root := BuildView(tree)

	p, err := LocateOffset(root, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset)
}

func TestSelectOffsets(t *testing.T) {
	_, root := wolfView(t)

	got, err := SelectOffsets(root, 25, 29)
	require.NoError(t, err)
	assert.Equal(t, domain.Range{Start: 25, End: 29}, got)

	got, err = SelectOffsets(root, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.Range{Start: 4, End: 8}, got)

	_, err = SelectOffsets(root, 8, 8)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = SelectOffsets(root, 0, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
