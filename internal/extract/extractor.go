// Package extract turns PDF documents into page-tagged raw text using an
// ordered list of strategies: the embedded text layer first, then
// rasterize-and-OCR. Fallback order is data, not control flow, so it can
// be inspected and tested.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/pagerange"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng+hin"
	DPI           int    // rasterization DPI, default 300

	TessdataDir string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// strategy is one extraction attempt. Strategies share a shape: an ordered
// sequence of page blocks for the same selection.
type strategy struct {
	name string
	run  func(ctx context.Context, doc []byte, pages []int) ([]Page, error)
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng+hin"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// strategies returns the fallback order for one run. ForceOCR drops the
// direct strategy entirely rather than letting it run and be ignored.
func (e *Extractor) strategies(forceOCR bool) []strategy {
	ocr := strategy{name: MethodOCR, run: e.ocrPages}
	if forceOCR {
		return []strategy{ocr}
	}
	return []strategy{
		{name: MethodDirect, run: e.directPages},
		ocr,
	}
}

// Extract runs the strategy list in order; the first strategy that yields
// text on any selected page wins. Every selected page empty under every
// strategy is common.ErrNoExtractableContent.
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	total, err := pageCount(req.Document)
	if err != nil {
		return Result{}, err
	}
	pages, err := pagerange.Resolve(req.PageRange, total)
	if err != nil {
		return Result{}, err
	}
	e.logger.Debug("extract.start",
		"total_pages", total, "selected", len(pages), "force_ocr", req.ForceOCR)

	res, err := e.runChain(ctx, e.strategies(req.ForceOCR), req.Document, pages)
	if err != nil {
		return Result{}, err
	}
	e.logger.Info("extract.ok",
		"method", res.Method,
		"pages", len(res.Pages),
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// runChain tries each strategy in order; the first one that yields text on
// any page wins and later strategies never run.
func (e *Extractor) runChain(ctx context.Context, strats []strategy, doc []byte, pages []int) (Result, error) {
	var lastErr error
	ranEmpty := false
	for _, s := range strats {
		blocks, err := s.run(ctx, doc, pages)
		if err != nil {
			e.logger.Warn("extract.strategy_failed", "strategy", s.name, "error", err)
			lastErr = fmt.Errorf("%s strategy: %w", s.name, err)
			continue
		}
		if !anyText(blocks) {
			e.logger.Info("extract.strategy_empty", "strategy", s.name, "pages", len(blocks))
			ranEmpty = true
			continue
		}
		return Result{
			Text:   assemble(blocks),
			Method: s.name,
			Pages:  blocks,
		}, nil
	}

	// A strategy that ran clean and found nothing outranks an earlier
	// failure: the document was readable, it just had no text.
	if lastErr != nil && !ranEmpty {
		return Result{}, lastErr
	}
	return Result{}, fmt.Errorf("%w: %d selected page(s)", common.ErrNoExtractableContent, len(pages))
}

func anyText(pages []Page) bool {
	for _, p := range pages {
		if !p.Empty {
			return true
		}
	}
	return false
}

// assemble joins page blocks with 1-based page markers; pages without text
// keep an explicit placeholder so downstream stages see the gap.
func assemble(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Empty {
			parts = append(parts, fmt.Sprintf("--- Page %d (No text found) ---", p.Index+1))
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", p.Index+1, p.Text))
	}
	return strings.Join(parts, "\n\n")
}
