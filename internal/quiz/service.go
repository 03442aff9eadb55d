package quiz

import (
	"context"
	"log"
	"strings"

	"github.com/samber/lo"

	"github.com/mind-engage/lecture-quiz/internal/eventlog"
	"github.com/mind-engage/lecture-quiz/internal/grading"
)

// Service serves stored quizzes to takers and scores submissions.
type Service struct {
	store  Store
	events EventSink
}

func NewService(store Store, events EventSink) *Service {
	return &Service{store: store, events: events}
}

// Questions returns the answer-free view of a quiz.
func (s *Service) Questions(ctx context.Context, quizID string) ([]PublicQuestion, error) {
	qs, err := s.load(ctx, "questions", quizID)
	if err != nil {
		return nil, err
	}
	return lo.Map(qs, func(q Question, _ int) PublicQuestion { return q.Public() }), nil
}

// Submit scores answers against the stored key. The result is persisted
// best effort: a write failure is logged and the report is still returned.
func (s *Service) Submit(ctx context.Context, quizID string, answers []any) (grading.Report, error) {
	qs, err := s.load(ctx, "submit", quizID)
	if err != nil {
		return grading.Report{}, err
	}

	rep := grading.Score(lo.Map(qs, func(q Question, _ int) grading.Q { return q.grading() }), answers)

	res, err := s.store.AddResult(ctx, Result{
		QuizID:     quizID,
		Answers:    answers,
		Score:      rep.Score,
		Total:      rep.Total,
		Weaknesses: rep.Weaknesses,
	})
	if err != nil {
		log.Printf("[WARN] submit: result for quiz %s not saved: %v", quizID, err)
		return rep, nil
	}

	if s.events != nil {
		e, err := eventlog.New(eventlog.TypeResultRecorded, quizID, map[string]any{
			"result_id": res.ID,
			"score":     rep.Score,
			"total":     rep.Total,
		})
		if err == nil {
			err = s.events.Append(ctx, e)
		}
		if err != nil {
			log.Printf("[WARN] event %s for %s not recorded: %v", eventlog.TypeResultRecorded, quizID, err)
		}
	}
	return rep, nil
}

// ListQuizzes and Results back the admin views.
func (s *Service) ListQuizzes(ctx context.Context, opts ListOpts) ([]Summary, error) {
	list, err := s.store.ListQuizzes(ctx, opts)
	if err != nil {
		log.Printf("[ERROR] list quizzes: %v", err)
		return nil, storageErr("list", err)
	}
	return list, nil
}

func (s *Service) Results(ctx context.Context, quizID string) ([]Result, error) {
	rs, err := s.store.Results(ctx, quizID)
	if err != nil {
		log.Printf("[ERROR] results for quiz %s: %v", quizID, err)
		return nil, storageErr("results", err)
	}
	return rs, nil
}

func (s *Service) load(ctx context.Context, op, quizID string) ([]Question, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return nil, inputErr(op, errMissingQuizID)
	}
	qs, err := s.store.Questions(ctx, quizID)
	if err != nil {
		log.Printf("[ERROR] %s: load questions for quiz %s: %v", op, quizID, err)
		return nil, storageErr(op, err)
	}
	if len(qs) == 0 {
		return nil, &Error{Kind: KindInput, Op: op, Err: ErrNotFound}
	}
	return qs, nil
}
