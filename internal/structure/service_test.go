package structure

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.response, f.err
}

func testService(gen TextGenerator) *Service {
	return NewService(gen, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestStructureOK(t *testing.T) {
	in := "some messy extracted text that needs structure"
	gen := &fakeGenerator{response: "# Heading\n\nsome messy extracted text that needs structure"}
	doc := testService(gen).Structure(context.Background(), in, "en")
	if doc.Method != MethodStructured {
		t.Fatalf("method = %q, want structured", doc.Method)
	}
	if doc.Retention < MinRetention {
		t.Errorf("retention = %f", doc.Retention)
	}
	if !strings.Contains(doc.Output, "# Heading") {
		t.Errorf("output = %q", doc.Output)
	}
}

func TestStructureRetentionGuard(t *testing.T) {
	in := "a long body of text whose non whitespace length is substantial enough to measure retention against"
	gen := &fakeGenerator{response: "tiny"}
	doc := testService(gen).Structure(context.Background(), in, "en")
	if doc.Method != MethodPassthrough {
		t.Fatalf("method = %q, want passthrough", doc.Method)
	}
	if doc.Output != in {
		t.Errorf("passthrough must return input unchanged, got %q", doc.Output)
	}
}

func TestStructureGeneratorFailurePassthrough(t *testing.T) {
	in := "original text"
	gen := &fakeGenerator{err: errors.New("deadline exceeded")}
	doc := testService(gen).Structure(context.Background(), in, "hi")
	if doc.Method != MethodPassthrough || doc.Output != in {
		t.Errorf("failure must degrade to passthrough, got %+v", doc)
	}
}

func TestStructureEmptyResponsePassthrough(t *testing.T) {
	in := "original text"
	doc := testService(&fakeGenerator{response: "   "}).Structure(context.Background(), in, "en")
	if doc.Method != MethodPassthrough || doc.Output != in {
		t.Errorf("empty response must degrade to passthrough, got %+v", doc)
	}
}

func TestStructureNilGenerator(t *testing.T) {
	doc := testService(nil).Structure(context.Background(), "text", "en")
	if doc.Method != MethodPassthrough {
		t.Errorf("nil generator must passthrough, got %q", doc.Method)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no fence", "plain text", "plain text"},
		{"bare fence", "```\nbody\n```", "body"},
		{"markdown fence", "```markdown\nbody line\n```", "body line"},
		{"text fence", "```text\nbody\n```", "body"},
		{"fence with surrounding space", "  ```\nbody\n```  ", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.TrimSpace(stripFences(tt.in)); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptLanguageAware(t *testing.T) {
	hi := buildPrompt("पाठ", "hi")
	if !strings.Contains(hi, "हिंदी में है") {
		t.Error("hindi prompt missing hindi instruction")
	}
	en := buildPrompt("text", "en")
	if !strings.Contains(en, "primarily in English") {
		t.Error("english prompt missing english instruction")
	}
	mixed := buildPrompt("पाठ text", "unknown")
	if !strings.Contains(mixed, "both Hindi and English") || !strings.Contains(mixed, "दोनों भाषाओं") {
		t.Error("mixed prompt must be bilingual")
	}
}
