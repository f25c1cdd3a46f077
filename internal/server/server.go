// Package server provides the HTTP API for kotae.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/chat"
	"github.com/hyperjump/kotae/internal/config"
)

// maxBodyBytes caps the size of a chat request body.
const maxBodyBytes = 1 << 20

// Server is the HTTP server for the kotae API.
type Server struct {
	chat   *chat.Orchestrator
	config *config.ServerConfig
	logger *zap.Logger
	debug  bool
	server *http.Server
}

// NewServer creates a server answering questions with orch.
func NewServer(orch *chat.Orchestrator, cfg *config.ServerConfig, logger *zap.Logger, debug bool) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{chat: orch, config: cfg, logger: logger, debug: debug}
}

// Routes returns the router with all middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.debug {
		r.Use(middleware.Logger)
	}
	r.Use(s.recoverer)
	r.Use(cors(s.config.AllowedOrigins))
	r.Use(middleware.Compress(5))

	r.Post("/api/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/domains", s.handleDomains)
		r.Get("/knowledge", s.handleKnowledge)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
