package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"revcast/internal/analytics"
)

const (
	serverName    = "revcast"
	serverVersion = "0.1.0"
)

// Options tunes the tool output.
type Options struct {
	// Charts appends Mermaid charts to tool results.
	Charts bool
}

// Server exposes the analytics service as MCP tools.
type Server struct {
	svc    *analytics.Service
	opts   Options
	server *sdk.Server
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(svc *analytics.Service, opts Options) (*Server, error) {
	s := &Server{
		svc:  svc,
		opts: opts,
		server: sdk.NewServer(&sdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve runs the MCP session over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("server", serverName).Msg("MCP server listening on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}
