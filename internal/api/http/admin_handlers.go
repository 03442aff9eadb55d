package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/lecture-quiz/internal/eventlog"
	"github.com/mind-engage/lecture-quiz/internal/quiz"
)

type AdminService interface {
	ListQuizzes(ctx context.Context, opts quiz.ListOpts) ([]quiz.Summary, error)
	Results(ctx context.Context, quizID string) ([]quiz.Result, error)
}

type EventSource interface {
	Since(ctx context.Context, after int64, limit int) ([]eventlog.Event, error)
}

// GET /api/admin/quizzes?limit=50&offset=0
func ListQuizzesHandler(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListQuizzes(r.Context(), quiz.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /api/admin/quizzes/{quizID}/results
func QuizResultsHandler(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "quizID"))
		rs, err := svc.Results(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, rs)
	}
}

// GET /api/admin/events?after=<seq>&limit=100
func EventsHandler(src EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, err := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		if err != nil || after < 0 {
			after = 0
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		evs, err := src.Since(r.Context(), after, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if evs == nil {
			evs = []eventlog.Event{}
		}
		writeJSON(w, http.StatusOK, evs)
	}
}
