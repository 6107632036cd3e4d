package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	processor "github.com/RahilHalai7/CSI-Hackathon/internal/pipeline"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

// Pipeline is the processing surface the dispatcher routes into.
type Pipeline interface {
	ProcessDocument(ctx context.Context, req processor.DocumentRequest) (processor.DocumentResult, error)
	ProcessAudio(ctx context.Context, req processor.AudioRequest) (processor.AudioResult, error)
	ProcessText(ctx context.Context, req processor.TextRequest) (processor.TextResult, error)
}

// Dispatcher routes discovered files into the pipeline by artifact kind.
type Dispatcher struct {
	Pipeline Pipeline
	Logger   *slog.Logger

	SpeechLanguage  string // default "en-IN"
	TranslateTarget string // default "en"
	Diarize         bool
}

func NewDispatcher(pipeline Pipeline, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Pipeline:        pipeline,
		Logger:          logger,
		SpeechLanguage:  "en-IN",
		TranslateTarget: "en",
		Diarize:         true,
	}
}

// ProcessPath reads one file and runs the flow for its kind. Unsupported
// extensions are skipped without error so a shared drop folder stays quiet.
func (d *Dispatcher) ProcessPath(ctx context.Context, path string) error {
	kind := constants.MapExtToKind(filepath.Ext(path))
	if kind == "" {
		d.Logger.Info("ingest.skip.unsupported", "path", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	source := filepath.Base(path)

	switch kind {
	case constants.PDF:
		_, err := d.Pipeline.ProcessDocument(ctx, processor.DocumentRequest{
			Source:   source,
			Document: data,
		})
		return err

	case constants.AUDIO:
		samples, rate, err := asr.DecodeWAV(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		_, err = d.Pipeline.ProcessAudio(ctx, processor.AudioRequest{
			Source: source,
			Audio: asr.Request{
				Samples:      samples,
				SampleRate:   rate,
				LanguageCode: d.SpeechLanguage,
				Diarize:      d.Diarize,
			},
		})
		return err

	default: // constants.TEXT
		_, err := d.Pipeline.ProcessText(ctx, processor.TextRequest{
			Source: source,
			Text:   string(data),
			Opts:   translate.Options{Target: d.TranslateTarget},
		})
		return err
	}
}
