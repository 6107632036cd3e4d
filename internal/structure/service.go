// Package structure wraps a generative "reorganize this text" call with
// retention validation. Structuring is strictly an optional enhancement:
// any failure degrades to passthrough of the input, never to an error.
package structure

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/textnorm"
)

// Methods reported on a structured document.
const (
	MethodStructured  = "structured"
	MethodPassthrough = "passthrough"
)

// MinRetention is the fraction of non-whitespace content the generative
// response must keep; anything below this is treated as destructive and
// discarded in favor of the input.
const MinRetention = 0.7

// TextGenerator issues one generative call.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Document is the outcome of one structuring attempt.
type Document struct {
	Input     string  // normalized input text
	Output    string  // final text (== Input when passthrough)
	Method    string  // MethodStructured | MethodPassthrough
	Retention float64 // nonWS(Output) / nonWS(Input); 1.0 on passthrough
}

type Service struct {
	gen    TextGenerator
	logger *slog.Logger
}

func NewService(gen TextGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gen: gen, logger: logger}
}

// Structure asks the generator to reorganize text without content loss and
// validates retention. langHint is "hi", "en", or anything else for mixed
// content.
func (s *Service) Structure(ctx context.Context, text, langHint string) Document {
	start := time.Now()
	passthrough := Document{Input: text, Output: text, Method: MethodPassthrough, Retention: 1.0}

	if s.gen == nil || strings.TrimSpace(text) == "" {
		return passthrough
	}

	out, err := s.gen.Generate(ctx, buildPrompt(text, langHint))
	if err != nil {
		s.logger.Warn("structure.generate_failed", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return passthrough
	}

	out = strings.TrimSpace(stripFences(out))
	if out == "" {
		s.logger.Warn("structure.empty_response")
		return passthrough
	}

	inLen := textnorm.NonWhitespaceLen(text)
	outLen := textnorm.NonWhitespaceLen(out)
	retention := 1.0
	if inLen > 0 {
		retention = float64(outLen) / float64(inLen)
	}
	if retention < MinRetention {
		s.logger.Warn("structure.retention_too_low",
			"retention", retention,
			"input_len", inLen,
			"output_len", outLen,
		)
		return passthrough
	}

	s.logger.Info("structure.ok",
		"retention", retention,
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Document{Input: text, Output: out, Method: MethodStructured, Retention: retention}
}

// stripFences removes a markdown code-fence wrapper if the whole response
// arrived inside one.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	// drop an info string like "markdown" or "text" on the opening fence
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		first := strings.TrimSpace(t[:i])
		if first == "" || isFenceInfo(first) {
			t = t[i+1:]
		}
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

func isFenceInfo(s string) bool {
	switch strings.ToLower(s) {
	case "markdown", "md", "text", "txt", "json":
		return true
	}
	return false
}
