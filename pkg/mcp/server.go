package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/mcplog"
	"github.com/gnana997/uishowcase/pkg/verify"
)

const (
	serverName    = "uishowcase"
	serverVersion = "0.1.0-dev"
)

// Server implements the MCP server, exposing catalog, render and icon tools.
type Server struct {
	mcpServer *server.MCPServer

	mu    sync.RWMutex
	query *catalog.QueryService

	verifier *verify.Verifier // may be nil if no parser available
	icons    *icons.Registry
	render   jsx.Options
	logger   *mcplog.Logger // nil disables call logging
}

// Option configures a Server.
type Option func(*Server)

// WithIcons sets the icon registry served by list_icons.
func WithIcons(reg *icons.Registry) Option {
	return func(s *Server) { s.icons = reg }
}

// WithRenderOptions sets the serializer options tool calls start from.
func WithRenderOptions(opts jsx.Options) Option {
	return func(s *Server) { s.render = opts }
}

// NewServer creates a new MCP server backed by the given QueryService, an
// optional Verifier and an optional call logger.
func NewServer(qs *catalog.QueryService, v *verify.Verifier, logger *mcplog.Logger, options ...Option) *Server {
	s := &Server{query: qs, verifier: v, logger: logger, render: jsx.DefaultOptions()}
	for _, o := range options {
		o(s)
	}
	if s.icons == nil {
		s.icons = icons.Default()
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, serverVersion, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentExamplesTool(), Handler: s.handleGetComponentExamples},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		server.ServerTool{Tool: renderElementTool(), Handler: s.handleRenderElement},
		server.ServerTool{Tool: verifyElementTool(), Handler: s.handleVerifyElement},
		server.ServerTool{Tool: listIconsTool(), Handler: s.handleListIcons},
	)

	return s
}

// SetCatalog replaces the catalog used by subsequent tool calls.
func (s *Server) SetCatalog(qs *catalog.QueryService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = qs
}

func (s *Server) catalog() *catalog.QueryService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
