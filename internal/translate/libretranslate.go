package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DetectSampleChars limits the payload sent to the detect endpoint.
const DetectSampleChars = 2000

// LibreClient implements Provider against a LibreTranslate instance.
type LibreClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewLibreClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *LibreClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "https://libretranslate.com"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LibreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type translateBody struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

type detectBody struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Translate sends one /translate call.
func (c *LibreClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	body := translateBody{Q: text, Source: source, Target: target, Format: "text", APIKey: c.apiKey}

	raw, err := c.postJSON(ctx, "/translate", body, "translate.request")
	if err != nil {
		return "", err
	}
	var tr translateResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("translate error: %s", tr.Error)
	}
	if tr.TranslatedText == "" {
		return "", fmt.Errorf("unexpected translate response: %s", clip(string(raw), 256))
	}
	return tr.TranslatedText, nil
}

// Detect posts a sample of the text to /detect and returns the language
// with the highest confidence.
func (c *LibreClient) Detect(ctx context.Context, text string) (string, error) {
	sample := text
	if len(sample) > DetectSampleChars {
		sample = sample[:runeBoundary(sample, DetectSampleChars)]
	}
	raw, err := c.postJSON(ctx, "/detect", detectBody{Q: sample, APIKey: c.apiKey}, "detect.request")
	if err != nil {
		return "", err
	}
	var ds []detection
	if err := json.Unmarshal(raw, &ds); err != nil {
		return "", fmt.Errorf("decode detect response: %w", err)
	}
	if len(ds) == 0 {
		return "", fmt.Errorf("empty detect response")
	}
	best := ds[0]
	for _, d := range ds[1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return best.Language, nil
}

func (c *LibreClient) postJSON(ctx context.Context, path string, body any, event string) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("translate."+event, "req_id", reqID, "path", path, "bytes", len(bs))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("translate.send_error", "req_id", reqID, "path", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("translate.body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("translate.response",
		"req_id", reqID,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s status %d: %s", path, resp.StatusCode, clip(string(raw), 512))
	}
	return raw, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:runeBoundary(s, n)] + "...(truncated)"
}

// runeBoundary backs n off to the start of a rune so a byte cut never
// leaves a split UTF-8 sequence.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
