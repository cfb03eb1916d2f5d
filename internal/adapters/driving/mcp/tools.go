package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/render"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

// ListChaptersInput is the input schema for the list_chapters tool.
type ListChaptersInput struct{}

// ListChaptersOutput is the output schema for the list_chapters tool.
type ListChaptersOutput struct {
	Chapters []ChapterOutput `json:"chapters"`
}

// ChapterOutput describes one stored chapter.
type ChapterOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RenderInput is the input schema for the render_chapter tool.
type RenderInput struct {
	ChapterID string `json:"chapter_id" jsonschema:"the chapter to render"`
	Format    string `json:"format,omitempty" jsonschema:"plain, html or json (default plain)"`
}

// RenderOutput is the output schema for the render_chapter tool.
type RenderOutput struct {
	Text     string `json:"text"`
	Segments int    `json:"segments"`
}

// ChapterInput selects a chapter.
type ChapterInput struct {
	ChapterID string `json:"chapter_id" jsonschema:"the chapter to inspect"`
}

// ListAnnotationsOutput is the output schema for the list_annotations tool.
type ListAnnotationsOutput struct {
	Annotations []AnnotationOutput `json:"annotations"`
	Count       int                `json:"count"`
}

// AnnotationOutput describes one annotation and, for comments, its thread.
type AnnotationOutput struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Start      int             `json:"start"`
	End        int             `json:"end"`
	Text       string          `json:"text"`
	Comments   []CommentOutput `json:"comments,omitempty"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityID   string          `json:"entity_id,omitempty"`
}

// CommentOutput is one comment of a thread.
type CommentOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Important bool   `json:"important,omitempty"`
}

// AddCommentInput is the input schema for the add_comment tool.
type AddCommentInput struct {
	ChapterID    string `json:"chapter_id" jsonschema:"the chapter to comment on"`
	Text         string `json:"text" jsonschema:"the comment text"`
	AnnotationID string `json:"annotation_id,omitempty" jsonschema:"reply to this existing thread instead of starting one"`
	Find         string `json:"find,omitempty" jsonschema:"text to anchor the new thread to"`
	Occurrence   int    `json:"occurrence,omitempty" jsonschema:"which occurrence of find to use (default 1)"`
	Start        *int   `json:"start,omitempty" jsonschema:"first rune offset, used when find is empty"`
	End          *int   `json:"end,omitempty" jsonschema:"rune offset one past the selection, used when find is empty"`
}

// AddCommentOutput is the output schema for the add_comment tool.
type AddCommentOutput struct {
	AnnotationID string `json:"annotation_id"`
	CommentID    string `json:"comment_id,omitempty"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Quote        string `json:"quote"`
}

// FindInput is the input schema for the find_text tool.
type FindInput struct {
	ChapterID     string `json:"chapter_id" jsonschema:"the chapter to search"`
	Term          string `json:"term" jsonschema:"the text to find"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"match case"`
	WholeWord     bool   `json:"whole_word,omitempty" jsonschema:"only match whole words"`
}

// FindOutput is the output schema for the find_text tool.
type FindOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput is one occurrence.
type MatchOutput struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_chapters",
		Description: "List stored chapters",
	}, s.handleListChapters)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_chapter",
		Description: "Render a chapter with comment badges and entity links",
	}, s.handleRender)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_annotations",
		Description: "List a chapter's annotations with their comment threads and link targets",
	}, s.handleListAnnotations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_comment",
		Description: "Start a comment thread on a range of a chapter, or reply to an existing thread",
	}, s.handleAddComment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_text",
		Description: "Find every occurrence of a term in a chapter as rune offsets",
	}, s.handleFind)
}

func (s *Server) handleListChapters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListChaptersInput,
) (*mcp.CallToolResult, ListChaptersOutput, error) {
	chapters, err := s.ports.Chapters.List(ctx)
	if err != nil {
		return nil, ListChaptersOutput{}, err
	}
	out := ListChaptersOutput{Chapters: make([]ChapterOutput, len(chapters))}
	for i := range chapters {
		out.Chapters[i] = ChapterOutput{ID: chapters[i].ID, Title: chapters[i].Title}
	}
	return nil, out, nil
}

func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	format := render.FormatPlain
	if input.Format != "" {
		f, err := render.ParseFormat(input.Format)
		if err != nil {
			return nil, RenderOutput{}, err
		}
		format = f
	}
	if format == render.FormatANSI {
		format = render.FormatPlain
	}

	var out RenderOutput
	err := s.withChapter(ctx, input.ChapterID, false, func() error {
		tree, err := s.ports.Chapters.Render()
		if err != nil {
			return err
		}
		var b strings.Builder
		opts := render.Options{BadgeStyle: domain.BadgeStyleBracket}
		if err := render.Write(&b, format, tree, opts); err != nil {
			return err
		}
		out = RenderOutput{Text: b.String(), Segments: len(tree)}
		return nil
	})
	if err != nil {
		return nil, RenderOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleListAnnotations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChapterInput,
) (*mcp.CallToolResult, ListAnnotationsOutput, error) {
	var out ListAnnotationsOutput
	err := s.withChapter(ctx, input.ChapterID, false, func() error {
		out.Annotations = s.annotations()
		out.Count = len(out.Annotations)
		return nil
	})
	if err != nil {
		return nil, ListAnnotationsOutput{}, err
	}
	return nil, out, nil
}

// annotations lists the open chapter's annotations with their threads.
func (s *Server) annotations() []AnnotationOutput {
	store := s.ports.Chapters.Annotations()
	list := store.List()
	out := make([]AnnotationOutput, 0, len(list))
	for i := range list {
		a := AnnotationOutput{
			ID:    list[i].ID,
			Kind:  list[i].Kind.String(),
			Start: list[i].Start,
			End:   list[i].End,
			Text:  list[i].Text,
		}
		if link, ok := store.LinkFor(list[i].ID); ok {
			a.EntityType = link.EntityType
			a.EntityID = link.EntityID
		}
		if comments, err := store.ListCommentsFor(list[i].ID); err == nil {
			for j := range comments {
				a.Comments = append(a.Comments, CommentOutput{
					ID:        comments[j].ID,
					Text:      comments[j].Text,
					Important: comments[j].Important,
				})
			}
		}
		out = append(out, a)
	}
	return out
}

func (s *Server) handleAddComment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddCommentInput,
) (*mcp.CallToolResult, AddCommentOutput, error) {
	var out AddCommentOutput
	err := s.withChapter(ctx, input.ChapterID, true, func() error {
		chapters := s.ports.Chapters
		if input.AnnotationID != "" {
			a, err := chapters.Annotations().Get(input.AnnotationID)
			if err != nil {
				return err
			}
			c, err := chapters.Annotations().AddComment(input.AnnotationID, input.Text)
			if err != nil {
				return err
			}
			out = AddCommentOutput{AnnotationID: a.ID, CommentID: c.ID, Start: a.Start, End: a.End, Quote: a.Text}
			return nil
		}

		r, err := s.selection(input)
		if err != nil {
			return err
		}
		a, err := chapters.CommentSelection(r, input.Text)
		if err != nil {
			return err
		}
		out = AddCommentOutput{AnnotationID: a.ID, Start: a.Start, End: a.End, Quote: a.Text}
		if comments, err := chapters.Annotations().ListCommentsFor(a.ID); err == nil && len(comments) > 0 {
			out.CommentID = comments[0].ID
		}
		return nil
	})
	if err != nil {
		return nil, AddCommentOutput{}, err
	}
	return nil, out, nil
}

// selection resolves the range named by an add_comment call.
func (s *Server) selection(input AddCommentInput) (domain.Range, error) {
	chapters := s.ports.Chapters
	var start, end int
	switch {
	case input.Find != "":
		n := input.Occurrence
		if n == 0 {
			n = 1
		}
		hit, err := services.Occurrence(chapters.Content(), input.Find, n, services.FindOptions{})
		if err != nil {
			return domain.Range{}, err
		}
		start, end = hit.Start, hit.End
	case input.Start != nil && input.End != nil:
		start, end = *input.Start, *input.End
	default:
		return domain.Range{}, errors.New("either find or start and end are required")
	}

	tree, err := chapters.Render()
	if err != nil {
		return domain.Range{}, err
	}
	return services.SelectOffsets(services.BuildView(tree), start, end)
}

func (s *Server) handleFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	var out FindOutput
	err := s.withChapter(ctx, input.ChapterID, false, func() error {
		hits := services.Find(s.ports.Chapters.Content(), input.Term, services.FindOptions{
			CaseSensitive: input.CaseSensitive,
			WholeWord:     input.WholeWord,
		})
		out.Matches = make([]MatchOutput, len(hits))
		for i, h := range hits {
			out.Matches[i] = MatchOutput{Start: h.Start, End: h.End}
		}
		out.Count = len(hits)
		return nil
	})
	if err != nil {
		return nil, FindOutput{}, err
	}
	return nil, out, nil
}
