package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/export"
	"github.com/RahilHalai7/CSI-Hackathon/internal/extract"
	"github.com/RahilHalai7/CSI-Hackathon/internal/ingest"
	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
	processor "github.com/RahilHalai7/CSI-Hackathon/internal/pipeline"
	"github.com/RahilHalai7/CSI-Hackathon/internal/server"
	"github.com/RahilHalai7/CSI-Hackathon/internal/structure"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := jobstore.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("open job store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close job store", "error", cerr)
		}
	}()

	proc := processor.NewProcessor(store, logger)
	proc.Extractor = extract.NewExtractor(extract.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
	}, logger)
	proc.Transcriber = asr.NewTranscriber(
		asr.NewGoogleClient(cfg.ASR.Endpoint, cfg.ASR.APIKey, cfg.ASR.Timeout, logger),
		asr.Config{ChunkSeconds: cfg.ASR.ChunkSeconds},
		logger,
	)
	proc.Translator = translate.NewService(
		translate.NewLibreClient(cfg.Translate.BaseURL, cfg.Translate.APIKey, cfg.Translate.Timeout, logger),
		translate.Config{MaxChars: cfg.Translate.MaxChars},
		logger,
	)

	// Structuring is optional; without an API key documents pass through.
	if cfg.Structure.APIKey != "" {
		gen, err := structure.NewGenAIGenerator(ctx, structure.GenAIConfig{
			Model:       cfg.Structure.Model,
			APIKey:      cfg.Structure.APIKey,
			Temperature: cfg.Structure.Temperature,
			MaxTokens:   cfg.Structure.MaxTokens,
		}, logger)
		if err != nil {
			logger.Error("init generative backend", "error", err)
			os.Exit(1)
		}
		proc.Structurer = structure.NewService(gen, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set; structuring disabled")
		proc.Structurer = structure.NewService(nil, logger)
	}

	if cfg.Ingest.Dir != "" {
		dispatcher := ingest.NewDispatcher(proc, logger)
		dispatcher.SpeechLanguage = cfg.ASR.LanguageCode
		queue := ingest.NewQueue(dispatcher.ProcessPath, logger, ingest.WithWorkers(cfg.Ingest.Workers))
		defer queue.Shutdown(context.Background())

		if err := ingest.Run(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.Dir},
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		}, queue); err != nil {
			logger.Error("start ingest watcher", "dir", cfg.Ingest.Dir, "error", err)
			os.Exit(1)
		}
		logger.Info("ingest.watching", "dir", cfg.Ingest.Dir, "workers", cfg.Ingest.Workers)
	}

	srv := server.NewServer(server.Config{Addr: cfg.Server.Addr},
		proc, store, export.NewService(store, logger), logger)

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
	logger.Info("server.stopped")
}
