package processor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	"github.com/RahilHalai7/CSI-Hackathon/internal/extract"
	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
	"github.com/RahilHalai7/CSI-Hackathon/internal/structure"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

type fakeExtractor struct {
	res extract.Result
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, _ extract.Request) (extract.Result, error) {
	return f.res, f.err
}

type fakeTranscriber struct {
	res asr.Result
	err error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ asr.Request) (asr.Result, error) {
	return f.res, f.err
}

type fakeStructurer struct{}

func (fakeStructurer) Structure(_ context.Context, text, _ string) structure.Document {
	return structure.Document{Input: text, Output: "# Structured\n" + text, Method: structure.MethodStructured}
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, _ string, _ translate.Options) (string, error) {
	return f.out, f.err
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	store, err := jobstore.Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewProcessor(store, nil)
}

func TestProcessDocument(t *testing.T) {
	p := newTestProcessor(t)
	p.Extractor = &fakeExtractor{res: extract.Result{
		Text:   "--- Page 1 ---\nhello   world",
		Method: extract.MethodDirect,
		Pages:  []extract.Page{{Index: 0, Text: "hello   world", Method: extract.MethodDirect}},
	}}
	p.Structurer = fakeStructurer{}

	res, err := p.ProcessDocument(context.Background(), DocumentRequest{Source: "a.pdf", Document: []byte("%PDF")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Text, "# Structured") {
		t.Fatalf("text = %q", res.Text)
	}
	if res.Method != extract.MethodDirect || res.PostProc != structure.MethodStructured {
		t.Fatalf("res = %+v", res)
	}

	job, err := p.Store.Get(context.Background(), res.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != constants.JobStatusDone || job.Kind != constants.PDF {
		t.Fatalf("job = %+v", job)
	}
	if job.Output != res.Text {
		t.Fatalf("stored output = %q", job.Output)
	}
}

func TestProcessDocumentWithoutStructurer(t *testing.T) {
	p := newTestProcessor(t)
	p.Extractor = &fakeExtractor{res: extract.Result{Text: "plain  text", Method: extract.MethodOCR}}

	res, err := p.ProcessDocument(context.Background(), DocumentRequest{Source: "b.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "plain text" {
		t.Fatalf("text = %q, want normalized passthrough", res.Text)
	}
	if res.PostProc != structure.MethodPassthrough {
		t.Fatalf("postproc = %s", res.PostProc)
	}
}

func TestProcessDocumentExtractFailure(t *testing.T) {
	p := newTestProcessor(t)
	p.Extractor = &fakeExtractor{err: errors.New("corrupt pdf")}

	res, err := p.ProcessDocument(context.Background(), DocumentRequest{Source: "bad.pdf"})
	if err == nil {
		t.Fatal("expected error")
	}
	job, gerr := p.Store.Get(context.Background(), res.JobID)
	if gerr != nil {
		t.Fatal(gerr)
	}
	if job.Status != constants.JobStatusFailed {
		t.Fatalf("status = %s", job.Status)
	}
	if job.Error == "" {
		t.Fatal("error text not recorded")
	}
}

func TestProcessAudioDiarized(t *testing.T) {
	p := newTestProcessor(t)
	p.Transcriber = &fakeTranscriber{res: asr.Result{
		Transcript:   "namaste ji hello",
		DiarizedText: "Person 1: namaste ji\nPerson 2: hello",
		SpeakerCount: 2,
		Segments:     []asr.Segment{{ChunkIndex: 0}},
	}}

	res, err := p.ProcessAudio(context.Background(), AudioRequest{
		Source: "talk.wav",
		Audio:  asr.Request{Samples: make([]int16, 16000), SampleRate: 16000, LanguageCode: "hi-IN", Diarize: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Person 1: namaste ji\nPerson 2: hello" {
		t.Fatalf("text = %q", res.Text)
	}
	if res.SpeakerCount != 2 {
		t.Fatalf("speakers = %d", res.SpeakerCount)
	}

	job, err := p.Store.Get(context.Background(), res.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.SpeakerCount != 2 || job.Method != "google_stt" || job.Language != "hi-IN" {
		t.Fatalf("job = %+v", job)
	}
}

func TestProcessAudioPlain(t *testing.T) {
	p := newTestProcessor(t)
	p.Transcriber = &fakeTranscriber{res: asr.Result{Transcript: "hello world"}}

	res, err := p.ProcessAudio(context.Background(), AudioRequest{
		Source: "talk.wav",
		Audio:  asr.Request{Samples: make([]int16, 16000), SampleRate: 16000, LanguageCode: "en-IN"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "hello world" {
		t.Fatalf("text = %q", res.Text)
	}
}

func TestProcessAudioFailure(t *testing.T) {
	p := newTestProcessor(t)
	p.Transcriber = &fakeTranscriber{err: errors.New("stt down")}

	res, err := p.ProcessAudio(context.Background(), AudioRequest{
		Source: "talk.wav",
		Audio:  asr.Request{Samples: make([]int16, 100), SampleRate: 16000, LanguageCode: "en-IN"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	job, gerr := p.Store.Get(context.Background(), res.JobID)
	if gerr != nil {
		t.Fatal(gerr)
	}
	if job.Status != constants.JobStatusFailed {
		t.Fatalf("status = %s", job.Status)
	}
}

func TestProcessText(t *testing.T) {
	p := newTestProcessor(t)
	p.Translator = &fakeTranslator{out: "Person 2: hello"}

	res, err := p.ProcessText(context.Background(), TextRequest{
		Source: "talk.txt",
		Text:   "Person 2: namaste",
		Opts:   translate.Options{Target: "en", LineMode: true, PreserveLabels: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Person 2: hello" {
		t.Fatalf("text = %q", res.Text)
	}

	job, err := p.Store.Get(context.Background(), res.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Kind != constants.TEXT || job.Method != "libretranslate" || job.Language != "en" {
		t.Fatalf("job = %+v", job)
	}
}
