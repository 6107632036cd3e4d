package structure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GenAIConfig configures the generative backend for structuring calls.
type GenAIConfig struct {
	Model       string  // default "gemini-1.5-flash"
	APIKey      string
	Temperature float64 // low temperature keeps formatting consistent
	MaxTokens   int
}

// GenAIGenerator implements TextGenerator on top of langchaingo's
// Google AI backend.
type GenAIGenerator struct {
	model  llms.Model
	cfg    GenAIConfig
	logger *slog.Logger
}

func NewGenAIGenerator(ctx context.Context, cfg GenAIConfig, logger *slog.Logger) (*GenAIGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8192
	}
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init googleai: %w", err)
	}
	return &GenAIGenerator{model: m, cfg: cfg, logger: logger}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.cfg.Temperature),
		llms.WithTopP(0.8),
		llms.WithTopK(40),
		llms.WithMaxTokens(g.cfg.MaxTokens),
	)
	if err != nil {
		g.logger.Error("structure.genai.call_failed", "model", g.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	g.logger.Debug("structure.genai.ok",
		"model", g.cfg.Model,
		"prompt_bytes", len(prompt),
		"response_bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
