package quiz

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func item(q string, opts string, answer string) string {
	return fmt.Sprintf(`{"question":%q,"options":%s,"answer":%s,"explanation":"because"}`, q, opts, answer)
}

const fourOpts = `["a","b","c","d"]`

func reasonOf(t *testing.T, err error) *ParseError {
	t.Helper()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %T %v", err, err)
	}
	return pe
}

func TestParseQuestions_PreservesOrder(t *testing.T) {
	raw := "[" + item("Q1", fourOpts, "1") + "," + item("Q2", fourOpts, "3") + "," + item("Q3", fourOpts, "0") + "]"
	qs, err := ParseQuestions(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 3 {
		t.Fatalf("len=%d", len(qs))
	}
	for i, want := range []string{"Q1", "Q2", "Q3"} {
		if qs[i].Prompt != want || qs[i].Position != i {
			t.Errorf("qs[%d]=%+v", i, qs[i])
		}
	}
	if qs[1].AnswerIndex != 3 || qs[0].Explanation != "because" {
		t.Fatalf("fields not carried: %+v", qs[:2])
	}
}

func TestParseQuestions_ToleratesSurroundingProse(t *testing.T) {
	raw := "Sure! Here is your quiz:\n```json\n[" + item("Q1", fourOpts, "2") + "]\n```\nGood luck [really]."
	// last ']' belongs to the trailing prose, so the slice is not a single array
	if _, err := ParseQuestions(raw); reasonOf(t, err).Reason != MalformedJson {
		t.Fatalf("want MalformedJson, got %v", err)
	}

	raw = "Sure! Here is your quiz:\n```json\n[" + item("Q1", fourOpts, "2") + "]\n```"
	qs, err := ParseQuestions(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].AnswerIndex != 2 {
		t.Fatalf("qs=%+v", qs)
	}
}

func TestParseQuestions_Failures(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		reason ParseReason
		index  int
	}{
		{"no brackets", "I cannot help with that.", NoJsonFound, 0},
		{"only open", "[ oops", NoJsonFound, 0},
		{"reversed", "] then [", NoJsonFound, 0},
		{"malformed", `[{"question": "Q1",]`, MalformedJson, 0},
		{"stray closing bracket", "[" + item("Q1", fourOpts, "1") + "] ]", MalformedJson, 0},
		{"stray closing brace", "[" + item("Q1", fourOpts, "1") + "] }]", MalformedJson, 0},
		{"two arrays", "[" + item("Q1", fourOpts, "1") + "] and [1]", MalformedJson, 0},
		{"empty array", "[]", EmptyResult, 0},
		{"three options", "[" + item("Q1", fourOpts, "0") + "," + item("Q2", `["a","b","c"]`, "0") + "]", InvalidQuestion, 1},
		{"five options", "[" + item("Q1", `["a","b","c","d","e"]`, "0") + "]", InvalidQuestion, 0},
		{"answer out of range", "[" + item("Q1", fourOpts, "4") + "]", InvalidQuestion, 0},
		{"negative answer", "[" + item("Q1", fourOpts, "-1") + "]", InvalidQuestion, 0},
		{"fractional answer", "[" + item("Q1", fourOpts, "1.5") + "]", InvalidQuestion, 0},
		{"string answer", "[" + item("Q1", fourOpts, `"1"`) + "]", InvalidQuestion, 0},
		{"blank question", "[" + item("   ", fourOpts, "1") + "]", InvalidQuestion, 0},
		{"not an object", `["just text"]`, InvalidQuestion, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			qs, err := ParseQuestions(c.raw)
			if qs != nil {
				t.Fatalf("partial result returned: %+v", qs)
			}
			pe := reasonOf(t, err)
			if pe.Reason != c.reason {
				t.Fatalf("reason=%s want %s (%v)", pe.Reason, c.reason, err)
			}
			if c.reason == InvalidQuestion && pe.Index != c.index {
				t.Fatalf("index=%d want %d", pe.Index, c.index)
			}
		})
	}
}

func TestParseQuestions_ExplanationOptional(t *testing.T) {
	qs, err := ParseQuestions(`[{"question":"Q","options":["a","b","c","d"],"answer":1.0}]`)
	if err != nil {
		t.Fatal(err)
	}
	if qs[0].Explanation != "" || qs[0].AnswerIndex != 1 {
		t.Fatalf("q=%+v", qs[0])
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Reason: InvalidQuestion, Index: 4, Detail: "answer must be an integer in [0,3]"}
	if !strings.Contains(err.Error(), "index 4") {
		t.Fatalf("msg=%q", err.Error())
	}
}
