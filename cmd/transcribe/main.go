package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	input := flag.String("input", "", "path to mono 16-bit WAV file")
	output := flag.String("output", "", "output .txt path (default: stdout)")
	language := flag.String("language", "", "BCP-47 language code (default: SPEECH_LANGUAGE or en-IN)")
	diarize := flag.Bool("diarize", false, "enable speaker diarization")
	flag.Parse()

	if *input == "" {
		logger.Error("usage", "cmd", "transcribe -input <file.wav> [-language hi-IN] [-diarize]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *language == "" {
		*language = cfg.ASR.LanguageCode
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("read input", "path", *input, "error", err)
		os.Exit(1)
	}
	samples, rate, err := asr.DecodeWAV(data)
	if err != nil {
		logger.Error("decode wav", "path", *input, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	tr := asr.NewTranscriber(
		asr.NewGoogleClient(cfg.ASR.Endpoint, cfg.ASR.APIKey, cfg.ASR.Timeout, logger),
		asr.Config{ChunkSeconds: cfg.ASR.ChunkSeconds},
		logger,
	)

	res, err := tr.Transcribe(ctx, asr.Request{
		Samples:      samples,
		SampleRate:   rate,
		LanguageCode: *language,
		Diarize:      *diarize,
	})
	if err != nil {
		logger.Error("transcribe", "path", *input, "error", err)
		os.Exit(1)
	}
	logger.Info("transcribe.ok",
		"chunks", len(res.Segments),
		"speakers", res.SpeakerCount,
	)

	text := res.Transcript
	if *diarize && res.DiarizedText != "" {
		text = res.DiarizedText
	}

	if *output == "" {
		fmt.Println(text)
		return
	}
	if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
		logger.Error("write output", "path", *output, "error", err)
		os.Exit(1)
	}
	logger.Info("saved", "path", *output, "bytes", len(text))
}
