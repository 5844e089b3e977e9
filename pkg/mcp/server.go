// Package mcp wraps the mcp-go server with this connector's conventions:
// tool registration, transports and tool-call audit logging.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance with tool-call auditing wired
// in through mcp-go hooks.
func NewServer(name, version string, logger *zap.Logger) *Server {
	audit := NewAuditLogger(logger)

	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithHooks(audit.Hooks()),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP
// server. The HTTP mux handles routing to /mcp, so no endpoint path is
// configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout. Callers must
// make sure nothing else writes to stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
