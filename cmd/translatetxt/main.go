package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	input := flag.String("input", "", "path to input .txt file")
	output := flag.String("output", "", "output .txt path (default: stdout)")
	source := flag.String("source", "", "source language code or name (default: auto-detect)")
	target := flag.String("target", "en", "target language code")
	lineMode := flag.Bool("line-by-line", false, "translate line-by-line to preserve formatting")
	diarized := flag.Bool("diarized", false, "line-by-line with 'Person N:' labels kept intact")
	flag.Parse()

	if *input == "" {
		logger.Error("usage", "cmd", "translatetxt -input <file.txt> [-source hi] [-target en] [-diarized]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("read input", "path", *input, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	svc := translate.NewService(
		translate.NewLibreClient(cfg.Translate.BaseURL, cfg.Translate.APIKey, cfg.Translate.Timeout, logger),
		translate.Config{MaxChars: cfg.Translate.MaxChars},
		logger,
	)

	out, err := svc.Translate(ctx, string(data), translate.Options{
		Source:         *source,
		Target:         *target,
		LineMode:       *lineMode || *diarized,
		PreserveLabels: *diarized,
	})
	if err != nil {
		logger.Error("translate", "path", *input, "error", err)
		os.Exit(1)
	}

	if *output == "" {
		fmt.Println(out)
		return
	}
	if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
		logger.Error("write output", "path", *output, "error", err)
		os.Exit(1)
	}
	logger.Info("saved", "path", *output, "bytes", len(out))
}
