// Package server provides the HTTP API for document question answering.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"docqa/internal/config"
	"docqa/internal/service"
	"docqa/internal/session"
)

// Server is the HTTP server for the chat API. Every session owns its corpus
// and transcript.
type Server struct {
	sessions  *session.Store
	assistant session.Answerer
	library   *service.Library
	libDir    string
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. libDir is scanned by
// the scan endpoint.
func NewServer(
	sessions *session.Store,
	assistant session.Answerer,
	library *service.Library,
	libDir string,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		assistant: assistant,
		library:   library,
		libDir:    libDir,
		config:    cfg,
		logger:    logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Post("/documents", s.handleUploadDocuments)
			r.Post("/documents/scan", s.handleScanDocuments)
			r.Get("/documents", s.handleListDocuments)
			r.Post("/messages", s.handleAsk)
			r.Get("/messages", s.handleHistory)
		})
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.config.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server and closes every session.
func (s *Server) Stop(ctx context.Context) error {
	defer s.sessions.Close()
	return s.server.Shutdown(ctx)
}
