package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/extract"
	"github.com/RahilHalai7/CSI-Hackathon/internal/structure"
	"github.com/RahilHalai7/CSI-Hackathon/internal/textnorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	input := flag.String("input", "", "path to input PDF")
	output := flag.String("output", "", "output .txt path (default: stdout)")
	pages := flag.String("pages", "", `page range like "1-3,5" (default: all)`)
	ocrOnly := flag.Bool("ocr-only", false, "skip direct text extraction")
	structureText := flag.Bool("structure", false, "structure the text with the generative backend")
	langHint := flag.String("lang", "", "language hint for structuring (hindi/english/mixed)")
	flag.Parse()

	if *input == "" {
		logger.Error("usage", "cmd", "pdf2txt -input <file.pdf> [-pages 1-3,5] [-ocr-only] [-structure]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("read input", "path", *input, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ex := extract.NewExtractor(extract.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
	}, logger)

	res, err := ex.Extract(ctx, extract.Request{
		Document:  data,
		PageRange: *pages,
		ForceOCR:  *ocrOnly,
	})
	if err != nil {
		logger.Error("extract", "path", *input, "error", err)
		os.Exit(1)
	}
	logger.Info("extract.ok", "method", res.Method, "pages", len(res.Pages))

	text := textnorm.Normalize(res.Text)

	if *structureText {
		if cfg.Structure.APIKey == "" {
			logger.Error("GEMINI_API_KEY required for -structure")
			os.Exit(1)
		}
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
		doc := structure.NewService(gen, logger).Structure(ctx, text, *langHint)
		logger.Info("structure.done", "method", doc.Method, "retention", doc.Retention)
		text = doc.Output
	}

	if *output == "" {
		fmt.Println(text)
		return
	}
	if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
		logger.Error("write output", "path", *output, "error", err)
		os.Exit(1)
	}
	logger.Info("saved", "path", *output, "bytes", len(text))
}
