package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
)

func testExtractor() *Extractor {
	return NewExtractor(Config{}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func fakeStrategy(name string, calls *int, pages []Page, err error) strategy {
	return strategy{name: name, run: func(context.Context, []byte, []int) ([]Page, error) {
		*calls++
		return pages, err
	}}
}

func textPages(method string, texts ...string) []Page {
	out := make([]Page, len(texts))
	for i, txt := range texts {
		out[i] = Page{Index: i, Text: txt, Method: method, Empty: txt == ""}
	}
	return out
}

func TestStrategyOrder(t *testing.T) {
	e := testExtractor()
	strats := e.strategies(false)
	if len(strats) != 2 || strats[0].name != MethodDirect || strats[1].name != MethodOCR {
		t.Fatalf("default strategy order wrong: %v, %v", strats[0].name, strats[1].name)
	}
	strats = e.strategies(true)
	if len(strats) != 1 || strats[0].name != MethodOCR {
		t.Fatalf("forceOCR should leave only the ocr strategy")
	}
}

func TestChainDirectWins(t *testing.T) {
	e := testExtractor()
	var directCalls, ocrCalls int
	res, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &directCalls, textPages(MethodDirect, "alpha", "beta"), nil),
		fakeStrategy(MethodOCR, &ocrCalls, nil, errors.New("must not run")),
	}, nil, []int{0, 1})
	if err != nil {
		t.Fatalf("runChain: %v", err)
	}
	if res.Method != MethodDirect {
		t.Errorf("method = %q, want direct", res.Method)
	}
	if ocrCalls != 0 {
		t.Errorf("ocr strategy invoked %d times, want 0", ocrCalls)
	}
	if !strings.Contains(res.Text, "--- Page 1 ---\nalpha") {
		t.Errorf("missing page marker in %q", res.Text)
	}
}

func TestChainFallsBackToOCR(t *testing.T) {
	e := testExtractor()
	var directCalls, ocrCalls int
	res, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &directCalls, textPages(MethodDirect, "", ""), nil),
		fakeStrategy(MethodOCR, &ocrCalls, textPages(MethodOCR, "scanned text", ""), nil),
	}, nil, []int{0, 1})
	if err != nil {
		t.Fatalf("runChain: %v", err)
	}
	if res.Method != MethodOCR {
		t.Errorf("method = %q, want ocr", res.Method)
	}
	if directCalls != 1 || ocrCalls != 1 {
		t.Errorf("calls = direct %d / ocr %d, want 1/1", directCalls, ocrCalls)
	}
	for _, p := range res.Pages {
		if p.Method != MethodOCR {
			t.Errorf("page %d method = %q, want ocr", p.Index, p.Method)
		}
	}
}

func TestChainDirectErrorFallsThrough(t *testing.T) {
	e := testExtractor()
	var directCalls, ocrCalls int
	res, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &directCalls, nil, errors.New("broken xref")),
		fakeStrategy(MethodOCR, &ocrCalls, textPages(MethodOCR, "rescued"), nil),
	}, nil, []int{0})
	if err != nil {
		t.Fatalf("runChain: %v", err)
	}
	if res.Method != MethodOCR || ocrCalls != 1 {
		t.Errorf("expected ocr rescue, got method=%q calls=%d", res.Method, ocrCalls)
	}
}

func TestChainNoExtractableContent(t *testing.T) {
	e := testExtractor()
	var a, b int
	_, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &a, textPages(MethodDirect, "", ""), nil),
		fakeStrategy(MethodOCR, &b, textPages(MethodOCR, "", ""), nil),
	}, nil, []int{0, 1})
	if !errors.Is(err, common.ErrNoExtractableContent) {
		t.Fatalf("error = %v, want ErrNoExtractableContent", err)
	}
}

func TestChainDirectErrorThenEmptyOCR(t *testing.T) {
	// Corrupt text layer, then OCR runs cleanly but finds nothing: the
	// verdict is "no text", not the stale direct-strategy failure.
	e := testExtractor()
	var a, b int
	_, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &a, nil, errors.New("broken xref")),
		fakeStrategy(MethodOCR, &b, textPages(MethodOCR, "", ""), nil),
	}, nil, []int{0, 1})
	if !errors.Is(err, common.ErrNoExtractableContent) {
		t.Fatalf("error = %v, want ErrNoExtractableContent", err)
	}
}

func TestChainAllStrategiesFail(t *testing.T) {
	e := testExtractor()
	var a, b int
	_, err := e.runChain(context.Background(), []strategy{
		fakeStrategy(MethodDirect, &a, nil, errors.New("broken xref")),
		fakeStrategy(MethodOCR, &b, nil, errors.New("exec failed")),
	}, nil, []int{0})
	if err == nil || errors.Is(err, common.ErrNoExtractableContent) {
		t.Fatalf("error = %v, want last strategy failure", err)
	}
	if !strings.Contains(err.Error(), "exec failed") {
		t.Errorf("error = %v, want the ocr failure", err)
	}
}

func TestAssemble(t *testing.T) {
	text := assemble([]Page{
		{Index: 0, Text: "first", Method: MethodDirect},
		{Index: 2, Empty: true, Method: MethodDirect},
		{Index: 4, Text: "fifth", Method: MethodDirect},
	})
	want := "--- Page 1 ---\nfirst\n\n--- Page 3 (No text found) ---\n\n--- Page 5 ---\nfifth"
	if text != want {
		t.Errorf("assemble = %q, want %q", text, want)
	}
}

// stubRunner pretends to be pdftoppm + tesseract. pdftoppm invocations drop
// a placeholder PNG at the requested prefix; tesseract invocations answer
// with canned text keyed by the page baked into the image path.
type stubRunner struct {
	pageText map[string]string // page number -> OCR text
	calls    []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	if strings.Contains(name, "pdftoppm") {
		prefix := args[len(args)-1]
		return nil, nil, os.WriteFile(prefix+"-1.png", []byte("png"), 0o600)
	}
	// tesseract <file> stdout ...
	img := args[0]
	for page, txt := range s.pageText {
		if strings.Contains(img, "page-"+page+"-") {
			return []byte(txt), nil, nil
		}
	}
	return nil, nil, nil
}

func TestOCRPages(t *testing.T) {
	e := testExtractor()
	e.runner = &stubRunner{pageText: map[string]string{
		"1": "पहला पृष्ठ",
		"3": "third page",
	}}

	pages, err := e.ocrPages(context.Background(), []byte("%PDF-fake"), []int{0, 1, 2})
	if err != nil {
		t.Fatalf("ocrPages: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if pages[0].Text != "पहला पृष्ठ" || pages[0].Empty {
		t.Errorf("page 0 = %+v", pages[0])
	}
	if !pages[1].Empty {
		t.Errorf("page 1 should be empty, got %q", pages[1].Text)
	}
	if pages[2].Text != "third page" {
		t.Errorf("page 2 = %q", pages[2].Text)
	}
}

func TestOCRPagesRunnerFailure(t *testing.T) {
	e := testExtractor()
	e.runner = failRunner{}
	if _, err := e.ocrPages(context.Background(), []byte("x"), []int{0}); err == nil {
		t.Fatal("expected error from failing runner")
	}
}

type failRunner struct{}

func (failRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, []byte("boom"), fmt.Errorf("exec failed")
}
