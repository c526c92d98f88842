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

// QARouter handles the question answering and search endpoints.
type QARouter struct {
	qa     service.QAService
	logger *log.Logger
}

// NewQARouter creates a QARouter.
func NewQARouter(qa service.QAService, logger *log.Logger) *QARouter {
	if logger == nil {
		logger = log.Default()
	}
	return &QARouter{qa: qa, logger: logger}
}

// AskRoutes returns the chi router for POST /ask.
func (rt *QARouter) AskRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", rt.Ask)
	return router
}

// SearchRoutes returns the chi router for POST /search.
func (rt *QARouter) SearchRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", rt.Search)
	return router
}

// Ask handles POST /api/v1/ask.
func (rt *QARouter) Ask(w http.ResponseWriter, r *http.Request) {
	var body dto.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, errors.New("invalid request body"), rt.logger)
		return
	}
	if body.Question == "" {
		writeValidationError(w, "question must not be empty")
		return
	}

	opts := askOptions(body)
	answer, err := rt.qa.Ask(r.Context(), body.Question, opts...)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	resp := dto.AskResponse{
		Question: answer.Question(),
		Answer:   answer.Text(),
		Fallback: answer.Fallback(),
	}
	// Sources are included unless explicitly declined.
	if body.IncludeSources == nil || *body.IncludeSources {
		resp.Sources = dto.FromSources(answer.Sources())
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

func askOptions(body dto.AskRequest) []service.AskOption {
	var opts []service.AskOption
	if body.TopK > 0 {
		opts = append(opts, service.WithTopK(body.TopK))
	}
	if body.MinScore > 0 {
		opts = append(opts, service.WithMinScore(body.MinScore))
	}
	if body.VideoID != "" {
		opts = append(opts, service.WithVideo(body.VideoID))
	}
	if body.PreviousQuestion != "" {
		opts = append(opts, service.WithPreviousQuestion(body.PreviousQuestion))
	}
	return opts
}

// Search handles POST /api/v1/search.
func (rt *QARouter) Search(w http.ResponseWriter, r *http.Request) {
	var body dto.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, errors.New("invalid request body"), rt.logger)
		return
	}
	if body.Query == "" {
		writeValidationError(w, "query must not be empty")
		return
	}

	var opts []service.AskOption
	if body.TopK > 0 {
		opts = append(opts, service.WithTopK(body.TopK))
	}
	if body.MinScore > 0 {
		opts = append(opts, service.WithMinScore(body.MinScore))
	}
	if body.VideoID != "" {
		opts = append(opts, service.WithVideo(body.VideoID))
	}

	sources, err := rt.qa.Sources(r.Context(), body.Query, opts...)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		Results: dto.FromSources(sources),
	})
}

func writeValidationError(w http.ResponseWriter, detail string) {
	middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{
		Error: middleware.ErrorBody{
			Status: http.StatusBadRequest,
			Title:  "Validation Error",
			Detail: detail,
		},
	})
}
