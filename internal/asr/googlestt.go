package asr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GoogleClient implements Recognizer against the Speech-to-Text REST
// synchronous recognize endpoint.
type GoogleClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGoogleClient(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *GoogleClient {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint == "" {
		endpoint = "https://speech.googleapis.com/v1/speech:recognize"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GoogleClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type recognizeBody struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding          string             `json:"encoding"`
	SampleRateHertz   int                `json:"sampleRateHertz"`
	LanguageCode      string             `json:"languageCode"`
	DiarizationConfig *diarizationConfig `json:"diarizationConfig,omitempty"`
}

type diarizationConfig struct {
	EnableSpeakerDiarization bool `json:"enableSpeakerDiarization"`
	MinSpeakerCount          int  `json:"minSpeakerCount,omitempty"`
	MaxSpeakerCount          int  `json:"maxSpeakerCount,omitempty"`
}

type recognizeAudio struct {
	Content string `json:"content"` // base64 WAV bytes
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
			Words      []struct {
				Word       string `json:"word"`
				SpeakerTag int    `json:"speakerTag"`
			} `json:"words"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Recognize sends one synchronous recognition call for a single WAV chunk.
func (c *GoogleClient) Recognize(ctx context.Context, audio []byte, cfg RecognitionConfig) (ChunkResult, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body := recognizeBody{
		Config: recognizeConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: cfg.SampleRate,
			LanguageCode:    cfg.LanguageCode,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}
	if cfg.Diarize {
		body.Config.DiarizationConfig = &diarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          cfg.MinSpeakers,
			MaxSpeakerCount:          cfg.MaxSpeakers,
		}
	}

	bs, err := json.Marshal(body)
	if err != nil {
		return ChunkResult{}, fmt.Errorf("encode recognize request: %w", err)
	}

	url := c.endpoint
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return ChunkResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("asr.recognize.request",
		"req_id", reqID,
		"audio_bytes", len(audio),
		"language", cfg.LanguageCode,
		"diarize", cfg.Diarize,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("asr.recognize.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return ChunkResult{}, err
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("asr.recognize.body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("asr.recognize.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return ChunkResult{}, fmt.Errorf("recognize status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var rr recognizeResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return ChunkResult{}, fmt.Errorf("decode recognize response: %w", err)
	}
	if rr.Error != nil {
		return ChunkResult{}, fmt.Errorf("recognize error %d: %s", rr.Error.Code, rr.Error.Message)
	}

	var out ChunkResult
	var parts []string
	for _, res := range rr.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		if alt.Transcript != "" {
			parts = append(parts, alt.Transcript)
		}
		// With diarization enabled the last result carries the tagged words
		// for the whole chunk, so later results overwrite earlier ones.
		if len(alt.Words) > 0 {
			words := make([]Word, 0, len(alt.Words))
			for _, w := range alt.Words {
				words = append(words, Word{Text: w.Word, SpeakerTag: w.SpeakerTag})
			}
			out.Words = words
		}
	}
	out.Transcript = joinSpaced(parts)
	return out, nil
}

func joinSpaced(parts []string) string {
	var b bytes.Buffer
	for _, p := range parts {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// truncate cuts on a rune boundary so the result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
