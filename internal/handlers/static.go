package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"energy-forecast/internal/errors"
	"energy-forecast/internal/observability"
)

// StaticHandlers serves the generated dashboard and its sibling artifacts
// from a directory on disk.
type StaticHandlers struct {
	root       string
	fileServer http.Handler
	logger     *slog.Logger
}

func NewStaticHandlers(root string, logger *slog.Logger) *StaticHandlers {
	return &StaticHandlers{
		root:       root,
		fileServer: http.FileServer(http.Dir(root)),
		logger:     logger,
	}
}

func (h *StaticHandlers) HandleFiles(w http.ResponseWriter, r *http.Request) {
	if hasDotSegment(r.URL.Path) {
		// Hidden files such as .env are never served.
		errors.WriteError(w, h.logger, errors.NotFound("file not found"), observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	h.fileServer.ServeHTTP(w, r)
}

func hasDotSegment(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
