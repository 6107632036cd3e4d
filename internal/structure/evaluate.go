package structure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
	"github.com/RahilHalai7/CSI-Hackathon/internal/recovery"
)

// Criteria scored by the idea evaluation rubric, each 1-10.
var EvaluationCriteria = []string{
	"MarketNeed",
	"MarketSize",
	"ProductFit",
	"BusinessModel",
	"TeamCredibility",
	"ExecutionComplexity",
	"OverallViability",
	"CompetitiveAdvantage",
	"Scalability",
	"CustomerAcquisitionPotential",
	"FinancialSustainability",
	"InnovationLevel",
}

// Evaluator scores an idea text through the generative backend and recovers
// the structured result from whatever JSON comes back.
type Evaluator struct {
	gen    TextGenerator
	parser *recovery.Parser
	logger *slog.Logger
}

func NewEvaluator(gen TextGenerator, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{gen: gen, parser: recovery.NewParser(logger), logger: logger}
}

// Evaluate runs the rubric over the idea text. The returned attempt always
// carries a usable Evaluation; Status tells whether the model output parsed,
// needed recovery, or fell back to the neutral object.
func (e *Evaluator) Evaluate(ctx context.Context, ideaText string) (recovery.Attempt, error) {
	if strings.TrimSpace(ideaText) == "" {
		return recovery.Attempt{}, common.WrapError(common.ErrInvalidInput, "idea text is empty")
	}
	if e.gen == nil {
		return recovery.Attempt{}, common.WrapError(common.ErrInvalidInput, "no generator configured")
	}

	start := time.Now()
	raw, err := e.gen.Generate(ctx, buildEvaluationPrompt(ideaText))
	if err != nil {
		return recovery.Attempt{}, fmt.Errorf("generate evaluation: %w", err)
	}

	att := e.parser.Recover(stripFences(strings.TrimSpace(raw)))
	if verr := recovery.Validate(att.Result); verr != nil {
		e.logger.Warn("evaluate.schema_mismatch", "error", verr)
	}
	e.logger.Info("evaluate.done",
		"status", string(att.Status),
		"verdict", att.Result.Verdict,
		"criteria_scored", len(att.Result.Scores),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return att, nil
}

// AverageScore is the mean of the scored criteria, 0 when none were scored.
func AverageScore(ev recovery.Evaluation) float64 {
	if len(ev.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range ev.Scores {
		sum += v
	}
	return sum / float64(len(ev.Scores))
}

func buildEvaluationPrompt(ideaText string) string {
	var b strings.Builder
	b.WriteString("You are an expert startup mentor and investor. Evaluate the following business idea using this comprehensive rubric.\n\n")
	b.WriteString("EVALUATION CRITERIA (Score 1-10 for each):\n")
	for _, c := range EvaluationCriteria {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("\nVERDICT OPTIONS:\n")
	b.WriteString("- GO: Strong potential, recommend proceeding\n")
	b.WriteString("- WAIT: Needs refinement before proceeding\n")
	b.WriteString("- NO-GO: Significant concerns, not recommended\n\n")
	b.WriteString("OUTPUT FORMAT (JSON only):\n")
	b.WriteString(`{"scores": {"<criterion>": <score>, ...}, "verdict": "<GO/WAIT/NO-GO>", "strengths": [...], "risks": [...], "suggestions": [...]}`)
	b.WriteString("\n\nBusiness Idea to Evaluate:\n")
	b.WriteString(ideaText)
	return b.String()
}
