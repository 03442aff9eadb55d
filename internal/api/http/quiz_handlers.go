package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mind-engage/lecture-quiz/internal/grading"
	"github.com/mind-engage/lecture-quiz/internal/quiz"
)

// QuizService is the public, unauthenticated side of the quiz service.
type QuizService interface {
	Questions(ctx context.Context, quizID string) ([]quiz.PublicQuestion, error)
	Submit(ctx context.Context, quizID string, answers []any) (grading.Report, error)
}

// GET /api/quiz?quiz=<id>
func GetQuizHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("quiz"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "quiz id required")
			return
		}
		qs, err := svc.Questions(r.Context(), id)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
	}
}

const maxSubmitBytes = 1 << 20

type submitRequest struct {
	Quiz    string          `json:"quiz"`
	Answers json.RawMessage `json:"answers"`
}

// POST /api/quiz  { "quiz": "<id>", "answers": [0, 2, ...] }
func SubmitQuizHandler(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		id := strings.TrimSpace(req.Quiz)
		if id == "" {
			writeError(w, http.StatusBadRequest, "quiz id required")
			return
		}
		answers, ok := decodeAnswers(req.Answers)
		if !ok {
			writeError(w, http.StatusBadRequest, "answers must be a list")
			return
		}
		report, err := svc.Submit(r.Context(), id, answers)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// decodeAnswers keeps numbers as json.Number so 1 and 1.0 grade alike.
func decodeAnswers(raw json.RawMessage) ([]any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}

func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		writeError(w, http.StatusNotFound, "quiz not found")
	case quiz.KindOf(err) == quiz.KindInput:
		writeError(w, http.StatusBadRequest, "bad request")
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
