package structure

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/recovery"
)

type capturingGenerator struct {
	prompt   string
	response string
	err      error
}

func (c *capturingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.response, c.err
}

func TestEvaluateParsesFencedResponse(t *testing.T) {
	gen := &capturingGenerator{response: "```json\n{\"verdict\":\"GO\",\"scores\":{\"MarketNeed\":8,\"MarketSize\":7},\"strengths\":[\"clear need\"]}\n```"}
	ev := NewEvaluator(gen, nil)

	att, err := ev.Evaluate(context.Background(), "an app that matches tutors to students")
	if err != nil {
		t.Fatal(err)
	}
	if att.Result.Verdict != "GO" {
		t.Fatalf("verdict = %q", att.Result.Verdict)
	}
	if att.Result.Scores["MarketNeed"] != 8 {
		t.Fatalf("scores = %v", att.Result.Scores)
	}
	if avg := AverageScore(att.Result); avg != 7.5 {
		t.Fatalf("avg = %v", avg)
	}

	for _, c := range EvaluationCriteria {
		if !strings.Contains(gen.prompt, c) {
			t.Fatalf("prompt missing criterion %s", c)
		}
	}
	if !strings.Contains(gen.prompt, "an app that matches tutors") {
		t.Fatal("prompt missing idea text")
	}
}

func TestEvaluateFallsBackOnGarbage(t *testing.T) {
	gen := &capturingGenerator{response: "I cannot answer in JSON today."}
	ev := NewEvaluator(gen, nil)

	att, err := ev.Evaluate(context.Background(), "some idea")
	if err != nil {
		t.Fatal(err)
	}
	if att.Status != recovery.StatusUnrecoverable {
		t.Fatalf("status = %s", att.Status)
	}
	if att.Result.Verdict != recovery.NeutralVerdict {
		t.Fatalf("verdict = %q", att.Result.Verdict)
	}
	if AverageScore(att.Result) != 0 {
		t.Fatalf("avg = %v", AverageScore(att.Result))
	}
}

func TestEvaluateGeneratorFailure(t *testing.T) {
	ev := NewEvaluator(&capturingGenerator{err: errors.New("quota")}, nil)
	if _, err := ev.Evaluate(context.Background(), "idea"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEvaluateRejectsEmptyIdea(t *testing.T) {
	ev := NewEvaluator(&capturingGenerator{}, nil)
	_, err := ev.Evaluate(context.Background(), "   ")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}
