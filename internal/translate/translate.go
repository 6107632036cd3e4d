// Package translate splits text into provider-sized chunks and drives a
// translation backend, optionally line by line with speaker labels kept
// intact.
package translate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
)

// DefaultMaxChars is the per-request character budget.
const DefaultMaxChars = 4500

// Provider translates one piece of text. Implementations are transport
// clients; the service owns chunking and label handling.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Detect(ctx context.Context, text string) (string, error)
}

// Options control one translation run. Source "" or "auto" triggers
// detection when the provider supports it.
type Options struct {
	Source         string
	Target         string
	LineMode       bool
	PreserveLabels bool
}

type Config struct {
	MaxChars int
}

type Service struct {
	provider Provider
	cfg      Config
	logger   *slog.Logger
}

func NewService(provider Provider, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// speakerPrefixRe matches a leading diarization label like "Person:" or
// "Person 2:" including the whitespace around the colon.
var speakerPrefixRe = regexp.MustCompile(`^(\s*Person(?:\s+\d+)?\s*:\s*)(.*)$`)

// SplitSpeakerPrefix returns (prefix, remainder) when the line opens with a
// speaker label, else ("", line). The prefix is returned byte-identical.
func SplitSpeakerPrefix(line string) (string, string) {
	if m := speakerPrefixRe.FindStringSubmatch(line); m != nil {
		return m[1], m[2]
	}
	return "", line
}

// Translate runs a full text through the provider. Empty text returns
// empty without a provider call; missing target is rejected.
func (s *Service) Translate(ctx context.Context, text string, opts Options) (string, error) {
	if strings.TrimSpace(opts.Target) == "" {
		return "", common.WrapError(common.ErrInvalidInput, "target language required")
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	source, err := s.resolveSource(ctx, text, opts.Source)
	if err != nil {
		return "", err
	}

	if opts.LineMode {
		return s.translateLines(ctx, text, source, opts)
	}
	return s.translateChunks(ctx, text, source, opts)
}

func (s *Service) resolveSource(ctx context.Context, text, source string) (string, error) {
	source = strings.TrimSpace(strings.ToLower(source))
	if source != "" && source != "auto" {
		return NormalizeLangCode(source), nil
	}
	detected, err := s.provider.Detect(ctx, text)
	if err != nil {
		// Detection is best effort; the provider accepts "auto".
		s.logger.Warn("translate.detect_failed", "error", err)
		return "auto", nil
	}
	s.logger.Info("translate.detected", "language", detected)
	return detected, nil
}

func (s *Service) translateChunks(ctx context.Context, text, source string, opts Options) (string, error) {
	chunks := SplitChunks(text, s.cfg.MaxChars)
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		s.logger.Info("translate.chunk", "index", i, "total", len(chunks), "chars", len(chunk))
		out, err := s.provider.Translate(ctx, chunk, source, opts.Target)
		if err != nil {
			return "", &common.TranslationTransportError{Cause: err}
		}
		if trimmed := strings.TrimSpace(out); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (s *Service) translateLines(ctx context.Context, text, source string, opts Options) (string, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		prefix, core := "", line
		if opts.PreserveLabels {
			prefix, core = SplitSpeakerPrefix(line)
		}
		translated, err := s.provider.Translate(ctx, core, source, opts.Target)
		if err != nil {
			return "", &common.TranslationTransportError{Cause: err}
		}
		out = append(out, prefix+strings.TrimSpace(translated))
	}
	return strings.Join(out, "\n"), nil
}

// SplitChunks packs lines into chunks not exceeding maxChars, preferring
// line boundaries. Blank lines are kept as paragraph breaks.
func SplitChunks(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	var chunks []string
	var current []string
	currentLen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			line = "\n"
		}
		if currentLen+len(line)+1 > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = []string{line}
			currentLen = len(line)
		} else {
			current = append(current, line)
			currentLen += len(line) + 1
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// NormalizeLangCode maps common language names to short codes and lowers
// anything else.
func NormalizeLangCode(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "english":
		return "en"
	case "hindi":
		return "hi"
	case "marathi":
		return "mr"
	case "odia", "oriya":
		return "or"
	}
	return lang
}
