// Package server exposes outline extraction over HTTP.
//
// Routes:
//
//	POST /v1/extract   extract the outline of the uploaded document
//	GET  /v1/presets   list the configuration presets
//	GET  /healthz      liveness probe
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/export"
	"github.com/tsawler/outline/source"
)

// ConfigSource supplies the current configuration. *config.Watcher
// implements it.
type ConfigSource interface {
	Get() *config.Config
}

// Static is a ConfigSource that never changes.
type Static struct{ Config *config.Config }

// Get returns the wrapped configuration.
func (s Static) Get() *config.Config { return s.Config }

// Options configures a Server.
type Options struct {
	Config ConfigSource
	Logger *slog.Logger
	// NewPipeline builds the pipeline for a configuration. Nil uses
	// outline.New with the server logger.
	NewPipeline func(*config.Config) *outline.Pipeline
	// MaxUploadMB limits the request body. Zero means 64.
	MaxUploadMB int64
}

// Server is the HTTP API. It rebuilds its pipeline whenever the
// configuration source returns a new configuration.
type Server struct {
	router    *chi.Mux
	cfg       ConfigSource
	logger    *slog.Logger
	build     func(*config.Config) *outline.Pipeline
	maxUpload int64

	mu       sync.Mutex
	builtFor *config.Config
	pipeline *outline.Pipeline
	presets  map[string]*outline.Pipeline
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		cfg:       opts.Config,
		logger:    opts.Logger,
		build:     opts.NewPipeline,
		maxUpload: opts.MaxUploadMB << 20,
		presets:   make(map[string]*outline.Pipeline),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cfg == nil {
		s.cfg = Static{Config: config.NewBuilder().MustBuild()}
	}
	if s.build == nil {
		s.build = func(c *config.Config) *outline.Pipeline {
			return outline.New(c, outline.WithLogger(s.logger))
		}
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 64 << 20
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/presets", s.handlePresets)
	r.Post("/v1/extract", s.handleExtract)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// pipelineFor returns the pipeline for a preset override, or the current
// configuration when preset is empty.
func (s *Server) pipelineFor(preset string) (*outline.Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if preset != "" {
		if p, ok := s.presets[preset]; ok {
			return p, nil
		}
		cfg, err := config.ForPreset(preset)
		if err != nil {
			return nil, err
		}
		p := s.build(cfg)
		s.presets[preset] = p
		return p, nil
	}

	cfg := s.cfg.Get()
	if cfg != s.builtFor {
		s.pipeline = s.build(cfg)
		s.builtFor = cfg
	}
	return s.pipeline, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets": config.Presets(),
		"current": s.cfg.Get().Preset,
	})
}

// handleExtract accepts the document either as the "file" field of a
// multipart form or as the raw request body. Query parameters: preset,
// format (json, yaml, html, markdown) and metrics=false to drop the
// metrics block.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.pipelineFor(r.URL.Query().Get("preset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	path, cleanup, err := s.saveUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer cleanup()

	result, err := p.Extract(r.Context(), path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, source.ErrCorrupt) || errors.Is(err, source.ErrEncrypted) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("extract request failed", "request_id", requestIDFrom(r.Context()), "error", err)
		writeError(w, status, err)
		return
	}
	if r.URL.Query().Get("metrics") == "false" {
		result = result.Persistable()
	}

	w.Header().Set("Content-Type", contentType(format))
	if err := export.Write(w, result, format); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

// saveUpload copies the uploaded document to a temporary file whose
// extension selects the reader.
func (s *Server) saveUpload(r *http.Request) (string, func(), error) {
	var (
		body io.Reader
		name = r.URL.Query().Get("filename")
	)
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
		name = header.Filename
	} else if errors.Is(err, http.ErrNotMultipart) {
		body = r.Body
	} else {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}

	ext := filepath.Ext(name)
	if !source.IsSupported("x" + ext) {
		ext = ".pdf"
	}
	f, err := os.CreateTemp("", "outline-upload-*"+ext)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(f.Name()) }
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}

func contentType(f export.Format) string {
	switch f {
	case export.FormatYAML:
		return "application/yaml"
	case export.FormatHTML:
		return "text/html; charset=utf-8"
	case export.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
