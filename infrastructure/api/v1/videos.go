// Package v1 implements the JSON API routes.
package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/infrastructure/api/middleware"
	"github.com/vidqa/vidqa/infrastructure/api/v1/dto"
	"github.com/vidqa/vidqa/internal/log"
)

// VideosRouter handles the video library endpoints.
type VideosRouter struct {
	library service.LibraryService
	logger  *log.Logger
}

// NewVideosRouter creates a VideosRouter.
func NewVideosRouter(library service.LibraryService, logger *log.Logger) *VideosRouter {
	if logger == nil {
		logger = log.Default()
	}
	return &VideosRouter{library: library, logger: logger}
}

// Routes returns the chi router for video endpoints.
func (rt *VideosRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", rt.List)
	router.Post("/", rt.Add)
	router.Get("/{id}", rt.Get)
	router.Delete("/{id}", rt.Remove)
	return router
}

// List handles GET /api/v1/videos.
func (rt *VideosRouter) List(w http.ResponseWriter, r *http.Request) {
	videos, err := rt.library.ListVideos(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	resp := dto.VideoListResponse{Videos: make([]dto.VideoResponse, len(videos))}
	for i, v := range videos {
		resp.Videos[i] = dto.FromVideo(v)
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Add handles POST /api/v1/videos.
func (rt *VideosRouter) Add(w http.ResponseWriter, r *http.Request) {
	var body dto.AddVideosRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, errors.New("invalid request body"), rt.logger)
		return
	}
	if len(body.URLs) == 0 {
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{
			Error: middleware.ErrorBody{
				Status: http.StatusBadRequest,
				Title:  "Validation Error",
				Detail: "urls must not be empty",
			},
		})
		return
	}

	results := rt.library.AddVideos(r.Context(), body.URLs,
		service.WithForceRefresh(body.ForceRefresh))

	// A single failed input surfaces its mapped status instead of a 207,
	// so clients see 422 for videos without captions.
	if len(results) == 1 && results[0].Err() != nil {
		middleware.WriteError(w, r, results[0].Err(), rt.logger)
		return
	}

	status := http.StatusCreated
	for _, res := range results {
		if res.Err() != nil {
			status = http.StatusMultiStatus
			break
		}
	}
	middleware.WriteJSON(w, status, dto.FromAddResults(results))
}

// Get handles GET /api/v1/videos/{id}.
func (rt *VideosRouter) Get(w http.ResponseWriter, r *http.Request) {
	v, err := rt.library.Video(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromVideo(v))
}

// Remove handles DELETE /api/v1/videos/{id}.
func (rt *VideosRouter) Remove(w http.ResponseWriter, r *http.Request) {
	if err := rt.library.RemoveVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
