package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for grimorium.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// mu serialises handlers; the chapter service holds one open chapter.
	mu sync.Mutex
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "grimorium",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// withChapter opens chapterID for the duration of fn.
func (s *Server) withChapter(ctx context.Context, chapterID string, save bool, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chapters := s.ports.Chapters
	if err := chapters.Open(ctx, chapterID); err != nil {
		return err
	}
	defer func() {
		if cerr := chapters.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(); err != nil {
		return err
	}
	if save {
		return chapters.Save(ctx)
	}
	return nil
}
