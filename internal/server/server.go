// Package server exposes the ranked listing and generated articles
// over HTTP. Handlers are thin adapters over the fetch/rank/ensure
// pipeline; all recovery decisions live below this layer.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"larryfeed/internal/config"
	"larryfeed/internal/feed"
	"larryfeed/internal/fetcher"
	"larryfeed/internal/posts"
)

type Server struct {
	cfg     config.ServerConfig
	descs   []feed.Descriptor
	fetcher *fetcher.Fetcher
	posts   *posts.Service
	logger  *slog.Logger
	server  *http.Server
}

func New(cfg config.ServerConfig, descs []feed.Descriptor, f *fetcher.Fetcher, p *posts.Service, logger *slog.Logger) *Server {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return &Server{
		cfg:     cfg,
		descs:   descs,
		fetcher: f,
		posts:   p,
		logger:  logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", s.handleListPosts)
	mux.HandleFunc("GET /post/{slug}", s.handlePost)
	mux.HandleFunc("GET /feed.rss", s.handleRSSFeed)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return corsMiddleware(s.cfg.CORSOrigin, mux)
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.Handler(),
	}

	go func() {
		s.logger.Info("server starting", "port", s.cfg.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
