package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/infrastructure/api/middleware"
	"github.com/vidqa/vidqa/infrastructure/api/v1/dto"
	"github.com/vidqa/vidqa/internal/log"
)

// StatsRouter handles the library stats endpoint.
type StatsRouter struct {
	library service.LibraryService
	logger  *log.Logger
}

// NewStatsRouter creates a StatsRouter.
func NewStatsRouter(library service.LibraryService, logger *log.Logger) *StatsRouter {
	if logger == nil {
		logger = log.Default()
	}
	return &StatsRouter{library: library, logger: logger}
}

// Routes returns the chi router for stats endpoints.
func (rt *StatsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", rt.Stats)
	return router
}

// Stats handles GET /api/v1/stats.
func (rt *StatsRouter) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.library.Stats(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromStats(stats))
}
