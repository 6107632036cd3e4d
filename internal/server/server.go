// Package server exposes the processing pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RahilHalai7/CSI-Hackathon/internal/export"
	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
	processor "github.com/RahilHalai7/CSI-Hackathon/internal/pipeline"
)

// Pipeline is the processing surface the HTTP layer depends on.
type Pipeline interface {
	ProcessDocument(ctx context.Context, req processor.DocumentRequest) (processor.DocumentResult, error)
	ProcessAudio(ctx context.Context, req processor.AudioRequest) (processor.AudioResult, error)
	ProcessText(ctx context.Context, req processor.TextRequest) (processor.TextResult, error)
}

type Config struct {
	Addr      string
	OutputDir string // where processed text files are written
}

type Server struct {
	cfg      Config
	pipeline Pipeline
	store    *jobstore.Store
	exporter *export.Service
	logger   *slog.Logger
}

func NewServer(cfg Config, pipeline Pipeline, store *jobstore.Store, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "pdf_text"
	}
	return &Server{cfg: cfg, pipeline: pipeline, store: store, exporter: exporter, logger: logger}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)
	r.Post("/process", s.handleProcess)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{id}", s.handleGetJob)
	r.Get("/export/jobs.xlsx", s.handleExportJobs)

	return r
}

// ListenAndServe blocks serving the router until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("server.listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
