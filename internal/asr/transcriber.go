// Package asr bounds audio into recognizer-sized windows, transcribes each
// window through an injected Recognizer, and reassembles the transcript in
// chunk order. Optional diarization groups word-level speaker tags into
// "Person N" utterances.
package asr

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
)

const (
	// DefaultChunkSeconds stays under the recognizer's synchronous-call
	// duration limit (~60s) with headroom for container overhead.
	DefaultChunkSeconds = 58

	defaultMinSpeakers = 2
	defaultMaxSpeakers = 4
)

type Config struct {
	ChunkSeconds int // ceiling per recognition call; default 58
}

type Transcriber struct {
	rec    Recognizer
	cfg    Config
	logger *slog.Logger
}

func NewTranscriber(rec Recognizer, cfg Config, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkSeconds <= 0 {
		cfg.ChunkSeconds = DefaultChunkSeconds
	}
	return &Transcriber{rec: rec, cfg: cfg, logger: logger}
}

// Transcribe partitions req.Samples into sequential non-overlapping windows
// of at most chunkSeconds×sampleRate frames, recognizes each window, and
// concatenates per-chunk transcripts keyed by chunk index. A transport
// failure on any chunk aborts the call; no partial transcript is returned.
func (t *Transcriber) Transcribe(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	if len(req.Samples) == 0 {
		return Result{}, fmt.Errorf("%w: no audio frames", common.ErrInvalidInput)
	}
	if req.SampleRate <= 0 {
		return Result{}, fmt.Errorf("%w: sample rate %d", common.ErrInvalidInput, req.SampleRate)
	}

	chunkSeconds := req.ChunkSeconds
	if chunkSeconds <= 0 {
		chunkSeconds = t.cfg.ChunkSeconds
	}
	cfg := RecognitionConfig{
		SampleRate:   req.SampleRate,
		LanguageCode: req.LanguageCode,
		Diarize:      req.Diarize,
		MinSpeakers:  req.MinSpeakers,
		MaxSpeakers:  req.MaxSpeakers,
	}
	if cfg.Diarize {
		if cfg.MinSpeakers <= 0 {
			cfg.MinSpeakers = defaultMinSpeakers
		}
		if cfg.MaxSpeakers <= 0 {
			cfg.MaxSpeakers = defaultMaxSpeakers
		}
	}

	windows := partition(len(req.Samples), chunkSeconds*req.SampleRate)
	t.logger.Info("asr.transcribe.start",
		"frames", len(req.Samples),
		"sample_rate", req.SampleRate,
		"chunks", len(windows),
		"diarize", cfg.Diarize,
	)

	// Results land in their chunk-index slot; final assembly never depends
	// on completion order.
	segments := make([]Segment, len(windows))
	for i, w := range windows {
		wav := EncodeWAV(req.Samples[w.start:w.end], req.SampleRate)
		res, err := t.rec.Recognize(ctx, wav, cfg)
		if err != nil {
			t.logger.Error("asr.transcribe.chunk_failed", "chunk", i, "error", err)
			return Result{}, &common.TranscriptionTransportError{Chunk: i, Cause: err}
		}
		segments[i] = Segment{
			ChunkIndex: i,
			FrameStart: w.start,
			FrameEnd:   w.end,
			Result:     res,
		}
	}

	out := Result{Segments: segments}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := strings.TrimSpace(seg.Result.Transcript); s != "" {
			parts = append(parts, s)
		}
	}
	out.Transcript = strings.Join(parts, " ")

	if cfg.Diarize {
		out.Utterances, out.SpeakerCount = diarize(segments)
		out.DiarizedText = renderUtterances(out.Utterances)
	}

	t.logger.Info("asr.transcribe.ok",
		"chunks", len(segments),
		"transcript_bytes", len(out.Transcript),
		"speakers", out.SpeakerCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

type window struct{ start, end int }

// partition slices n frames into seq windows of at most size frames each;
// windows are contiguous and cover [0, n).
func partition(n, size int) []window {
	if size <= 0 || size >= n {
		return []window{{0, n}}
	}
	out := make([]window, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(n, start+size)
		out = append(out, window{start, end})
	}
	return out
}

// diarize groups consecutive same-tag words into utterances per chunk. A
// tag change always starts a new utterance, even when the tag reappears
// later; tags are not reconciled across chunk boundaries.
func diarize(segments []Segment) ([]Utterance, int) {
	var utterances []Utterance
	tags := make(map[int]struct{})

	for _, seg := range segments {
		seq := 0
		var cur *Utterance
		var words []string
		flush := func() {
			if cur != nil {
				cur.Text = strings.Join(words, " ")
				utterances = append(utterances, *cur)
				words = nil
				cur = nil
			}
		}
		for _, w := range seg.Result.Words {
			if w.SpeakerTag > 0 {
				tags[w.SpeakerTag] = struct{}{}
			}
			if cur == nil || cur.Speaker != speakerLabel(w.SpeakerTag) {
				flush()
				cur = &Utterance{
					Speaker: speakerLabel(w.SpeakerTag),
					Chunk:   seg.ChunkIndex,
					Seq:     seq,
				}
				seq++
			}
			words = append(words, w.Text)
		}
		flush()
	}
	return utterances, len(tags)
}

func speakerLabel(tag int) string {
	return fmt.Sprintf("Person %d", tag)
}

func renderUtterances(utterances []Utterance) string {
	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		lines = append(lines, u.Speaker+": "+u.Text)
	}
	return strings.Join(lines, "\n")
}

// SpeakerTags reports the distinct tags seen in a result, ascending.
// Numbering may restart across chunks; this is observational metadata.
func SpeakerTags(res Result) []int {
	set := make(map[int]struct{})
	for _, seg := range res.Segments {
		for _, w := range seg.Result.Words {
			if w.SpeakerTag > 0 {
				set[w.SpeakerTag] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
