package mcp

import (
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/config"
)

const (
	serverName    = "faq-admin"
	serverVersion = "1.0.0"
)

// Endpoint serves the read-only FAQ tools over streamable HTTP.
type Endpoint struct {
	mcp    *server.MCPServer
	http   *server.StreamableHTTPServer
	logger *slog.Logger
}

// NewEndpoint builds the MCP endpoint. It returns nil when MCP is disabled.
func NewEndpoint(cfg *config.Config, svc faq.Service, logger *slog.Logger) *Endpoint {
	logger = logger.With("component", "mcp.endpoint")
	if !cfg.MCP.Enabled {
		logger.Info("mcp endpoint disabled")
		return nil
	}
	mcpServer := NewServer(svc, logger)
	return &Endpoint{
		mcp:    mcpServer,
		http:   server.NewStreamableHTTPServer(mcpServer, server.WithStateLess(true)),
		logger: logger,
	}
}

// NewServer registers every FAQ tool on a fresh MCP server.
func NewServer(svc faq.Service, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(true))
	registerTools(s, svc, logger)
	return s
}

// ServeHTTP accepts JSON-RPC requests. Only POST is supported.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	e.http.ServeHTTP(w, r)
}
