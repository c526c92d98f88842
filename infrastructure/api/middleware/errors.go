package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidqa/vidqa/application/service"
	"github.com/vidqa/vidqa/domain/video"
	"github.com/vidqa/vidqa/infrastructure/youtube"
	"github.com/vidqa/vidqa/internal/database"
	"github.com/vidqa/vidqa/internal/log"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse wraps an error payload.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError maps domain errors to HTTP status codes and writes a JSON
// error response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *log.Logger) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"

	switch {
	case errors.Is(err, video.ErrInvalidVideoID):
		status = http.StatusBadRequest
		title = "Invalid Video"
	case errors.Is(err, service.ErrVideoNotFound), errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, youtube.ErrNoTranscript), errors.Is(err, service.ErrEmptyTranscript):
		status = http.StatusUnprocessableEntity
		title = "No Usable Transcript"
	case errors.Is(err, youtube.ErrVideoUnavailable):
		status = http.StatusUnprocessableEntity
		title = "Video Unavailable"
	}

	correlationID := GetCorrelationID(r.Context())
	if logger != nil {
		logger.ErrorContext(r.Context(), "request error",
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Status: status,
			Title:  title,
			Detail: err.Error(),
			ID:     correlationID,
		},
	})
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
