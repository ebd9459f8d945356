// Package mcpserver exposes prayer times and the qibla to AI agents over
// the Model Context Protocol.
package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/salat/internal/cache"
)

// Version is reported to MCP clients.
var Version = "dev"

// Options configures NewServer.
type Options struct {
	Cache  cache.TableStore
	Logger zerolog.Logger
	Now    func() time.Time
}

// Server wraps the MCP server and the table cache.
type Server struct {
	mcp    *mcp.Server
	cache  cache.TableStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewServer creates an MCP server with all tools registered.
func NewServer(opts Options) *Server {
	s := &Server{
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "salat",
				Version: Version,
			},
			nil,
		),
		cache:  opts.Cache,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.registerTools()
	return s
}

// Serve runs the server over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Msg("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
