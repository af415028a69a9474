// Package server implements the stitchgrid HTTP service.
//
// The service renders patterns on demand and keeps a gallery of saved
// patterns:
//
//	GET    /healthz                  liveness and version
//	GET    /render/{format}          render from query options
//	POST   /patterns                 generate and save a pattern
//	GET    /patterns                 list saved patterns, newest first
//	GET    /patterns/{id}            one saved pattern with its layout
//	GET    /patterns/{id}/{format}   render a saved pattern
//	DELETE /patterns/{id}            delete a saved pattern
//
// Errors are JSON objects {"error": ..., "code": ...} with the HTTP status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stitchgrid/pkg/gallery"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// Server timeout values
const (
	shutdownTimeout = 5 * time.Second
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// Runner generates and renders patterns. Required.
	Runner *pipeline.Runner

	// Gallery stores saved patterns. Default: an in-memory store.
	Gallery gallery.Store

	// Defaults are the base options every request starts from, typically
	// loaded from a config file.
	Defaults pipeline.Options

	// Logger receives request logs. Default: the runner's logger.
	Logger *log.Logger
}

// Server is the stitchgrid HTTP service.
type Server struct {
	runner   *pipeline.Runner
	gallery  gallery.Store
	defaults pipeline.Options
	logger   *log.Logger
	http     *http.Server
}

// New creates a server. It does not start listening.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Gallery == nil {
		cfg.Gallery = gallery.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}

	s := &Server{
		runner:   cfg.Runner,
		gallery:  cfg.Gallery,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}
	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.routes(),

		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- s.http.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
