package recovery

import (
	"reflect"
	"testing"
)

func TestRecoverDirectParse(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover(`{"verdict":"GO","scores":{"A":5}}`)
	if att.Status != StatusParsed {
		t.Fatalf("status = %s, want parsed", att.Status)
	}
	if att.Result.Verdict != "GO" {
		t.Fatalf("verdict = %q", att.Result.Verdict)
	}
	if att.Result.Scores["A"] != 5 {
		t.Fatalf("scores = %v", att.Result.Scores)
	}
}

func TestRecoverTrailingGarbage(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover("{\"verdict\":\"GO\",\"scores\":{\"A\":5}}\nextra")
	if att.Status != StatusRecovered {
		t.Fatalf("status = %s, want recovered", att.Status)
	}
	if att.Result.Verdict != "GO" || att.Result.Scores["A"] != 5 {
		t.Fatalf("result = %+v", att.Result)
	}
	if att.Raw[len(att.Raw)-5:] != "extra" {
		t.Fatalf("raw mutated: %q", att.Raw)
	}
}

func TestRecoverUnescapedNewlineInString(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover("```json\n{\"verdict\":\"GO\",\"strengths\":[\"line one\nline two\"],\"scores\":{}}\n```")
	if att.Status != StatusRecovered {
		t.Fatalf("status = %s, want recovered", att.Status)
	}
	want := []string{"line one\nline two"}
	if !reflect.DeepEqual(att.Result.Strengths, want) {
		t.Fatalf("strengths = %q, want %q", att.Result.Strengths, want)
	}
	if att.Sanitized == "" {
		t.Fatal("expected sanitized candidate to be recorded")
	}
}

func TestRecoverEscapedBackslashBeforeQuote(t *testing.T) {
	// The backslash escape must not confuse string-boundary tracking.
	p := NewParser(nil)
	att := p.Recover("prefix {\"verdict\":\"path \\\\\",\"scores\":{\"B\":1}} suffix")
	if att.Status != StatusRecovered {
		t.Fatalf("status = %s, want recovered", att.Status)
	}
	if att.Result.Verdict != `path \` {
		t.Fatalf("verdict = %q", att.Result.Verdict)
	}
}

func TestRecoverNoBraces(t *testing.T) {
	p := NewParser(nil)
	raw := "the model said nothing useful"
	att := p.Recover(raw)
	if att.Status != StatusUnrecoverable {
		t.Fatalf("status = %s, want unrecoverable", att.Status)
	}
	if att.Result.Verdict != NeutralVerdict {
		t.Fatalf("verdict = %q, want %q", att.Result.Verdict, NeutralVerdict)
	}
	if att.Result.RawText != raw {
		t.Fatalf("raw text = %q", att.Result.RawText)
	}
	if att.Result.Scores == nil || att.Result.Strengths == nil {
		t.Fatal("fallback fields must be non-nil")
	}
}

func TestRecoverHopelessBraces(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover("{this is not json at all}")
	if att.Status != StatusUnrecoverable {
		t.Fatalf("status = %s, want unrecoverable", att.Status)
	}
	if att.Result.Verdict != NeutralVerdict {
		t.Fatalf("verdict = %q", att.Result.Verdict)
	}
}

func TestNormalizeVerdictDefault(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover(`{"scores":{"A":3}}`)
	if att.Result.Verdict != NeutralVerdict {
		t.Fatalf("verdict = %q, want %q", att.Result.Verdict, NeutralVerdict)
	}
	att = p.Recover(`{"verdict":42,"scores":{}}`)
	if att.Result.Verdict != NeutralVerdict {
		t.Fatalf("non-string verdict = %q, want %q", att.Result.Verdict, NeutralVerdict)
	}
}

func TestNormalizeListCoercion(t *testing.T) {
	p := NewParser(nil)

	att := p.Recover(`{"verdict":"GO","strengths":"single point","scores":{}}`)
	if !reflect.DeepEqual(att.Result.Strengths, []string{"single point"}) {
		t.Fatalf("string coercion = %q", att.Result.Strengths)
	}

	att = p.Recover(`{"verdict":"GO","risks":["a",2,true],"scores":{}}`)
	if !reflect.DeepEqual(att.Result.Risks, []string{"a", "2", "true"}) {
		t.Fatalf("array coercion = %q", att.Result.Risks)
	}

	att = p.Recover(`{"verdict":"GO","suggestions":{"b":"second","a":"first"},"scores":{}}`)
	if !reflect.DeepEqual(att.Result.Suggestions, []string{"first", "second"}) {
		t.Fatalf("object coercion = %q", att.Result.Suggestions)
	}
}

func TestNormalizeScoreCoercion(t *testing.T) {
	p := NewParser(nil)
	att := p.Recover(`{"verdict":"GO","scores":{"A":5,"B":"4.5","C":"not a number","D":[1]}}`)
	want := map[string]float64{"A": 5, "B": 4.5}
	if !reflect.DeepEqual(att.Result.Scores, want) {
		t.Fatalf("scores = %v, want %v", att.Result.Scores, want)
	}
}

func TestValidateNormalizedResult(t *testing.T) {
	p := NewParser(nil)
	for _, raw := range []string{
		`{"verdict":"GO","scores":{"A":5}}`,
		"no json here",
		`{"verdict":7,"scores":{"A":"x"}}`,
	} {
		att := p.Recover(raw)
		if err := Validate(att.Result); err != nil {
			t.Fatalf("normalized result for %q fails schema: %v", raw, err)
		}
	}
}

func TestEscapeNewlinesInStrings(t *testing.T) {
	in := "{\"a\":\"x\ny\"}\n{\"b\":1}"
	want := "{\"a\":\"x\\ny\"}\n{\"b\":1}"
	if got := escapeNewlinesInStrings(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
