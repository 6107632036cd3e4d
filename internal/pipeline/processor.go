// Package processor coordinates the per-kind processing flows and records
// job state transitions in the store.
package processor

import (
	"context"
	"log/slog"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	"github.com/RahilHalai7/CSI-Hackathon/internal/extract"
	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
	"github.com/RahilHalai7/CSI-Hackathon/internal/structure"
	"github.com/RahilHalai7/CSI-Hackathon/internal/textnorm"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

// Transcriber is the audio flow dependency.
type Transcriber interface {
	Transcribe(ctx context.Context, req asr.Request) (asr.Result, error)
}

// Structurer is the document post-processing dependency.
type Structurer interface {
	Structure(ctx context.Context, text, langHint string) structure.Document
}

// Translator is the text flow dependency.
type Translator interface {
	Translate(ctx context.Context, text string, opts translate.Options) (string, error)
}

// Processor runs one flow per artifact kind: documents are extracted,
// normalized and structured; audio is transcribed; text is translated.
type Processor struct {
	Logger      *slog.Logger
	Store       *jobstore.Store
	Extractor   extract.TextExtractor
	Transcriber Transcriber
	Structurer  Structurer
	Translator  Translator
}

func NewProcessor(store *jobstore.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Store: store}
}

// DocumentRequest describes one PDF processing call.
type DocumentRequest struct {
	Source    string
	Document  []byte
	PageRange string
	ForceOCR  bool
	LangHint  string // hint passed to the structuring stage
}

// DocumentResult is the document flow outcome.
type DocumentResult struct {
	JobID    string
	Text     string
	Method   string // extraction strategy that produced the text
	PostProc string // structure.MethodStructured | structure.MethodPassthrough
	Pages    int
}

// ProcessDocument runs extract, normalize, then structure, advancing the
// job record at each stage.
func (p *Processor) ProcessDocument(ctx context.Context, req DocumentRequest) (DocumentResult, error) {
	job, err := p.Store.Create(ctx, req.Source, constants.PDF)
	if err != nil {
		return DocumentResult{}, err
	}
	_ = p.Store.SetStatus(ctx, job.ID, constants.JobStatusRunning)

	res, err := p.Extractor.Extract(ctx, extract.Request{
		Document:  req.Document,
		PageRange: req.PageRange,
		ForceOCR:  req.ForceOCR,
	})
	if err != nil {
		p.Logger.Error("processor.extract.failed", "job_id", job.ID, "source", req.Source, "err", err)
		_ = p.Store.Fail(ctx, job.ID, err)
		return DocumentResult{JobID: job.ID}, err
	}
	_ = p.Store.SetStatus(ctx, job.ID, constants.JobStatusExtractOK)
	p.Logger.Info("processor.extract.ok",
		"job_id", job.ID,
		"method", res.Method,
		"pages", len(res.Pages),
	)

	text := textnorm.Normalize(res.Text)

	out := DocumentResult{
		JobID:    job.ID,
		Text:     text,
		Method:   res.Method,
		PostProc: structure.MethodPassthrough,
		Pages:    len(res.Pages),
	}
	if p.Structurer != nil {
		doc := p.Structurer.Structure(ctx, text, req.LangHint)
		out.Text = doc.Output
		out.PostProc = doc.Method
	}

	if err := p.Store.Complete(ctx, job.ID, res.Method, req.LangHint, out.Text, 0); err != nil {
		return out, err
	}
	return out, nil
}

// AudioRequest describes one transcription call.
type AudioRequest struct {
	Source string
	Audio  asr.Request
}

// AudioResult is the audio flow outcome.
type AudioResult struct {
	JobID        string
	Text         string // diarized lines when diarization was on, else transcript
	Transcript   string
	SpeakerCount int
}

// ProcessAudio transcribes chunked audio and records the result.
func (p *Processor) ProcessAudio(ctx context.Context, req AudioRequest) (AudioResult, error) {
	job, err := p.Store.Create(ctx, req.Source, constants.AUDIO)
	if err != nil {
		return AudioResult{}, err
	}
	_ = p.Store.SetStatus(ctx, job.ID, constants.JobStatusRunning)

	res, err := p.Transcriber.Transcribe(ctx, req.Audio)
	if err != nil {
		p.Logger.Error("processor.transcribe.failed", "job_id", job.ID, "source", req.Source, "err", err)
		_ = p.Store.Fail(ctx, job.ID, err)
		return AudioResult{JobID: job.ID}, err
	}
	_ = p.Store.SetStatus(ctx, job.ID, constants.JobStatusExtractOK)
	p.Logger.Info("processor.transcribe.ok",
		"job_id", job.ID,
		"chunks", len(res.Segments),
		"speakers", res.SpeakerCount,
	)

	text := res.Transcript
	if req.Audio.Diarize && res.DiarizedText != "" {
		text = res.DiarizedText
	}

	out := AudioResult{
		JobID:        job.ID,
		Text:         text,
		Transcript:   res.Transcript,
		SpeakerCount: res.SpeakerCount,
	}
	if err := p.Store.Complete(ctx, job.ID, "google_stt", req.Audio.LanguageCode, text, res.SpeakerCount); err != nil {
		return out, err
	}
	return out, nil
}

// TextRequest describes one translation call.
type TextRequest struct {
	Source string
	Text   string
	Opts   translate.Options
}

// TextResult is the text flow outcome.
type TextResult struct {
	JobID string
	Text  string
}

// ProcessText translates plain text and records the result.
func (p *Processor) ProcessText(ctx context.Context, req TextRequest) (TextResult, error) {
	job, err := p.Store.Create(ctx, req.Source, constants.TEXT)
	if err != nil {
		return TextResult{}, err
	}
	_ = p.Store.SetStatus(ctx, job.ID, constants.JobStatusRunning)

	out, err := p.Translator.Translate(ctx, req.Text, req.Opts)
	if err != nil {
		p.Logger.Error("processor.translate.failed", "job_id", job.ID, "source", req.Source, "err", err)
		_ = p.Store.Fail(ctx, job.ID, err)
		return TextResult{JobID: job.ID}, err
	}

	res := TextResult{JobID: job.ID, Text: out}
	if err := p.Store.Complete(ctx, job.ID, "libretranslate", req.Opts.Target, out, 0); err != nil {
		return res, err
	}
	return res, nil
}
