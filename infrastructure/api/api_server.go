package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/infrastructure/api/middleware"
	v1 "github.com/vidqa/vidqa/infrastructure/api/v1"
	"github.com/vidqa/vidqa/infrastructure/api/web"
	"github.com/vidqa/vidqa/internal/log"
	mcpinternal "github.com/vidqa/vidqa/internal/mcp"
)

// APIServer hosts the JSON API, the MCP endpoint, and the web UI.
type APIServer struct {
	library service.LibraryService
	qa      service.QAService
	apiKeys []string
	version string
	server  *Server
	logger  *log.Logger
}

// NewAPIServer creates an APIServer. With apiKeys set, mutating video
// endpoints require a valid X-API-KEY header; everything else stays open.
func NewAPIServer(library service.LibraryService, qa service.QAService, apiKeys []string, version string, logger *log.Logger) *APIServer {
	if logger == nil {
		logger = log.Default()
	}
	return &APIServer{
		library: library,
		qa:      qa,
		apiKeys: apiKeys,
		version: version,
		logger:  logger,
	}
}

func (a *APIServer) mountRoutes(router chi.Router) {
	videosRouter := v1.NewVideosRouter(a.library, a.logger)
	qaRouter := v1.NewQARouter(a.qa, a.logger)
	statsRouter := v1.NewStatsRouter(a.library, a.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Adding a batch of videos fetches, embeds, and indexes inline.
		r.Use(chimiddleware.Timeout(5 * time.Minute))

		r.Mount("/ask", qaRouter.AskRoutes())
		r.Mount("/search", qaRouter.SearchRoutes())
		r.Mount("/stats", statsRouter.Routes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.WriteProtectAuth(a.apiKeys))
			r.Mount("/videos", videosRouter.Routes())
		})
	})

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": a.version,
		})
	})

	// MCP uses streaming responses, so no timeout middleware on this mount.
	mcpSrv := mcpinternal.NewServer(a.qa, a.library, a.version, a.logger)
	router.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv.MCPServer()))

	ui := web.NewUI(a.library, a.qa, a.logger)
	router.Mount("/", ui.Routes())
}

// ListenAndServe starts the HTTP server on the given address and blocks.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = server
	a.mountRoutes(server.Router())
	return server.Start()
}

// Handler returns a fully routed handler without starting a listener.
func (a *APIServer) Handler() http.Handler {
	server := NewServer("", a.logger)
	a.mountRoutes(server.Router())
	return server.Router()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
