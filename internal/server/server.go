package server

import (
	"log/slog"
	"net/http"

	"energy-forecast/internal/handlers"
)

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	staticHandlers *handlers.StaticHandlers
}

func NewServer(staticHandlers *handlers.StaticHandlers, logger *slog.Logger) *Server {
	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		staticHandlers: staticHandlers,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files only; the method pattern answers 405 to anything but GET/HEAD.
	s.mux.HandleFunc("GET /", s.staticHandlers.HandleFiles)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
