package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for grimorium resources.
	uriScheme = "grimorium://"

	annotationsSuffix = "/annotations"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "chapters",
		Name:        "chapters",
		Description: "List of all stored chapters",
		MIMEType:    "application/json",
	}, s.handleChaptersResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "entities",
		Name:        "entities",
		Description: "World-building entities that links can point to",
		MIMEType:    "application/json",
	}, s.handleEntitiesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chapters/{chapterId}",
		Name:        "chapter-text",
		Description: "Plain text of a chapter",
		MIMEType:    "text/plain",
	}, s.handleChapterTextResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chapters/{chapterId}" + annotationsSuffix,
		Name:        "chapter-annotations",
		Description: "Annotations of a chapter with their threads",
		MIMEType:    "application/json",
	}, s.handleChapterAnnotationsResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleChaptersResource returns a list of all chapters.
func (s *Server) handleChaptersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	chapters, err := s.ports.Chapters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	infos := make([]ChapterOutput, len(chapters))
	for i := range chapters {
		infos[i] = ChapterOutput{ID: chapters[i].ID, Title: chapters[i].Title}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleEntitiesResource returns all registered entities.
func (s *Server) handleEntitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type entityInfo struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	infos := []entityInfo{}
	if s.ports.Entities != nil {
		entities, err := s.ports.Entities.List(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("listing entities: %w", err)
		}
		for _, e := range entities {
			infos = append(infos, entityInfo{Type: e.Type, ID: e.ID, Name: e.Name})
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleChapterTextResource returns the text of one chapter.
func (s *Server) handleChapterTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	chapterID := extractChapterID(req.Params.URI)
	if chapterID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var content string
	err := s.withChapter(ctx, chapterID, false, func() error {
		content = s.ports.Chapters.Content()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading chapter: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// handleChapterAnnotationsResource returns the annotations of one chapter.
func (s *Server) handleChapterAnnotationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if !strings.HasSuffix(req.Params.URI, annotationsSuffix) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	chapterID := extractChapterID(strings.TrimSuffix(req.Params.URI, annotationsSuffix))
	if chapterID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var annotations []AnnotationOutput
	err := s.withChapter(ctx, chapterID, false, func() error {
		annotations = s.annotations()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return jsonResource(req.Params.URI, annotations)
}

// extractChapterID extracts the chapter ID from a URI like grimorium://chapters/{chapterId}.
func extractChapterID(uri string) string {
	const prefix = uriScheme + "chapters/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
