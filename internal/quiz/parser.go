package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

type ParseReason string

const (
	NoJsonFound     ParseReason = "no_json_found"
	MalformedJson   ParseReason = "malformed_json"
	EmptyResult     ParseReason = "empty_result"
	InvalidQuestion ParseReason = "invalid_question"
)

type ParseError struct {
	Reason ParseReason
	Index  int // 0-based; only set for InvalidQuestion
	Detail string
}

func (e *ParseError) Error() string {
	if e.Reason == InvalidQuestion {
		return fmt.Sprintf("parse: %s at index %d: %s", e.Reason, e.Index, e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("parse: %s: %s", e.Reason, e.Detail)
	}
	return "parse: " + string(e.Reason)
}

// ParseQuestions extracts the JSON array between the first '[' and the last ']'
// of raw model output and validates every element. Either all questions are
// returned in source order or none are.
func ParseQuestions(raw string) ([]Question, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < 0 || end < start {
		return nil, &ParseError{Reason: NoJsonFound}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw[start : end+1])))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, &ParseError{Reason: MalformedJson, Detail: err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Reason: MalformedJson, Detail: "trailing data after array"}
	}
	items, ok := decoded.([]any)
	if !ok || len(items) == 0 {
		return nil, &ParseError{Reason: EmptyResult}
	}

	out := make([]Question, 0, len(items))
	for i, it := range items {
		q, detail := validateItem(it)
		if detail != "" {
			return nil, &ParseError{Reason: InvalidQuestion, Index: i, Detail: detail}
		}
		q.Position = i
		out = append(out, q)
	}
	return out, nil
}

func validateItem(it any) (Question, string) {
	obj, ok := it.(map[string]any)
	if !ok {
		return Question{}, "not an object"
	}

	text, _ := obj["question"].(string)
	text = strings.TrimSpace(text)
	if text == "" {
		return Question{}, "missing question text"
	}

	rawOpts, ok := obj["options"].([]any)
	if !ok || len(rawOpts) != 4 {
		return Question{}, "options must be a list of exactly 4 entries"
	}
	opts := make([]string, 0, 4)
	for _, o := range rawOpts {
		s, ok := o.(string)
		if !ok {
			return Question{}, "options must be strings"
		}
		opts = append(opts, s)
	}

	num, ok := obj["answer"].(json.Number)
	if !ok {
		return Question{}, "answer must be a number"
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < 0 || f > 3 {
		return Question{}, "answer must be an integer in [0,3]"
	}

	expl, _ := obj["explanation"].(string)
	return Question{
		Prompt:      text,
		Options:     opts,
		AnswerIndex: int(f),
		Explanation: strings.TrimSpace(expl),
	}, ""
}
