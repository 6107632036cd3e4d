// Package recovery sanitizes and schema-normalizes malformed generative
// JSON output. Recovery never raises: the worst case is an explicit
// unrecoverable attempt that still carries the raw payload.
package recovery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// NeutralVerdict is the sentinel used when a verdict is missing or not a
// string.
const NeutralVerdict = "N/A"

// Status of one recovery attempt.
type Status string

const (
	StatusParsed        Status = "parsed"        // direct parse succeeded
	StatusRecovered     Status = "recovered"     // parse succeeded after slicing/sanitizing
	StatusUnrecoverable Status = "unrecoverable" // fallback object returned
)

// Evaluation is the normalized result object produced from a generative
// evaluation response.
type Evaluation struct {
	Verdict     string             `json:"verdict"`
	Scores      map[string]float64 `json:"scores"`
	Strengths   []string           `json:"strengths"`
	Risks       []string           `json:"risks"`
	Suggestions []string           `json:"suggestions"`
	RawText     string             `json:"raw_text,omitempty"` // set on the unrecoverable path
}

// Attempt records one recovery run. Raw is never mutated.
type Attempt struct {
	Raw       string
	Sanitized string // candidate after control-character escaping; "" if unused
	Status    Status
	Result    Evaluation
}

type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Recover extracts one JSON object from raw model output. It tries a
// direct parse, then the first-{...last-} slice, then the slice with raw
// newlines inside string literals escaped. Every success path goes through
// schema normalization; total failure yields the neutral fallback object.
func (p *Parser) Recover(raw string) Attempt {
	if m, ok := tryParse(raw); ok {
		return Attempt{Raw: raw, Status: StatusParsed, Result: p.normalize(m)}
	}

	first := strings.IndexByte(raw, '{')
	last := strings.LastIndexByte(raw, '}')
	if first < 0 || last < first {
		p.logger.Warn("recovery.no_object", "bytes", len(raw))
		return p.fallback(raw)
	}

	candidate := raw[first : last+1]
	if m, ok := tryParse(candidate); ok {
		return Attempt{Raw: raw, Status: StatusRecovered, Result: p.normalize(m)}
	}

	sanitized := escapeNewlinesInStrings(candidate)
	if m, ok := tryParse(sanitized); ok {
		p.logger.Info("recovery.sanitized_parse_ok", "bytes", len(sanitized))
		return Attempt{Raw: raw, Sanitized: sanitized, Status: StatusRecovered, Result: p.normalize(m)}
	}

	p.logger.Warn("recovery.unrecoverable", "bytes", len(raw))
	att := p.fallback(raw)
	att.Sanitized = sanitized
	return att
}

func (p *Parser) fallback(raw string) Attempt {
	return Attempt{
		Raw:    raw,
		Status: StatusUnrecoverable,
		Result: Evaluation{
			Verdict:     NeutralVerdict,
			Scores:      map[string]float64{},
			Strengths:   []string{},
			Risks:       []string{},
			Suggestions: []string{},
			RawText:     raw,
		},
	}
}

func tryParse(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// escapeNewlinesInStrings walks the candidate with a small state machine
// tracking whether the cursor is inside a quoted string (honoring backslash
// escapes) and rewrites literal LF/CR found inside strings to their escaped
// forms. Raw control characters are invalid inside JSON string literals.
func escapeNewlinesInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			b.WriteByte(c)
			escaped = true
		case c == '"':
			inString = !inString
			b.WriteByte(c)
		case inString && c == '\n':
			b.WriteString(`\n`)
		case inString && c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// normalize coerces a parsed object into the Evaluation shape:
// missing/non-string verdict becomes the neutral sentinel, list fields
// accept strings and element-wise-coercible containers, score values must
// coerce to float64 or are dropped.
func (p *Parser) normalize(m map[string]any) Evaluation {
	var dropped []string

	ev := Evaluation{
		Verdict:     NeutralVerdict,
		Scores:      map[string]float64{},
		Strengths:   coerceStringList(m["strengths"]),
		Risks:       coerceStringList(m["risks"]),
		Suggestions: coerceStringList(m["suggestions"]),
	}
	if v, ok := m["verdict"].(string); ok && strings.TrimSpace(v) != "" {
		ev.Verdict = strings.TrimSpace(v)
	}

	if scores, ok := m["scores"].(map[string]any); ok {
		for k, v := range scores {
			if f, ok := coerceFloat(v); ok {
				ev.Scores[k] = f
			} else {
				dropped = append(dropped, "scores."+k)
			}
		}
	}

	if len(dropped) > 0 {
		sort.Strings(dropped)
		p.logger.Warn("recovery.normalize_dropped", "fields", dropped)
	}
	return ev
}

func coerceStringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return []string{}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(t))
		for _, k := range keys {
			if s := coerceString(t[k]); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
