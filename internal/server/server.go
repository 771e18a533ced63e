// Package server provides the HTTP API for the concierge service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/groomlane/concierge/internal/answer"
	"github.com/groomlane/concierge/internal/config"
	"github.com/groomlane/concierge/internal/knowledge"
	"go.uber.org/zap"
)

// Answerer answers one customer question. Implemented by support.Pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string) (*answer.Answer, error)
}

// Server is the HTTP server for the concierge API.
type Server struct {
	answerer Answerer
	embedder knowledge.Embedder
	store    knowledge.VectorStore
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	answerer Answerer,
	embedder knowledge.Embedder,
	store knowledge.VectorStore,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		answerer: answerer,
		embedder: embedder,
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/knowledge", s.handleAddKnowledge)
	r.Delete("/api/knowledge/{id}", s.handleDeleteKnowledge)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
