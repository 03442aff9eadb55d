package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mind-engage/lecture-quiz/internal/db"
)

// execer lets insert helpers run on *sql.DB or *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(d *sql.DB) *SQLStore {
	return &SQLStore{db: d}
}

func (s *SQLStore) UpsertUser(ctx context.Context, externalID, name string) (User, error) {
	u := User{ExternalID: externalID, Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (external_id, name, created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (external_id) DO UPDATE SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END
		 RETURNING id, name`,
		externalID, name, time.Now().Unix()).Scan(&u.ID, &u.Name)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz, questions []Question) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if err := insertQuiz(ctx, tx, q); err != nil {
			return err
		}
		for _, qq := range questions {
			qq.QuizID = q.ID
			if err := insertQuestion(ctx, tx, qq); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) InsertQuiz(ctx context.Context, q Quiz) error {
	return insertQuiz(ctx, s.db, q)
}

func (s *SQLStore) InsertQuestion(ctx context.Context, q Question) error {
	return insertQuestion(ctx, s.db, q)
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, quizID string) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, quizID); err != nil {
			return fmt.Errorf("delete questions of %s: %w", quizID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID); err != nil {
			return fmt.Errorf("delete quiz %s: %w", quizID, err)
		}
		return nil
	})
}

func insertQuiz(ctx context.Context, ex execer, q Quiz) error {
	created := q.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO quizzes (id, user_id, lecture_text, created_at) VALUES ($1,$2,$3,$4)`,
		q.ID, q.UserID, q.LectureText, created.Unix())
	if err != nil {
		return fmt.Errorf("insert quiz %s: %w", q.ID, err)
	}
	return nil
}

func insertQuestion(ctx context.Context, ex execer, q Question) error {
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO questions (quiz_id, position, question, options_json, answer_index, explanation)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		q.QuizID, q.Position, q.Prompt, string(oj), q.AnswerIndex, q.Explanation)
	if err != nil {
		return fmt.Errorf("insert question %s#%d: %w", q.QuizID, q.Position, err)
	}
	return nil
}

func (s *SQLStore) Questions(ctx context.Context, quizID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, position, question, options_json, answer_index, explanation
		 FROM questions WHERE quiz_id=$1 ORDER BY position, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		var oj string
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Position, &q.Prompt, &oj, &q.AnswerIndex, &q.Explanation); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
			return nil, fmt.Errorf("question %d options: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddResult(ctx context.Context, r Result) (Result, error) {
	if r.Answers == nil {
		r.Answers = []any{}
	}
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return Result{}, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO results (quiz_id, answers_json, score, total, weaknesses, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		r.QuizID, string(aj), r.Score, r.Total, r.Weaknesses, r.CreatedAt.Unix()).Scan(&r.ID)
	if err != nil {
		return Result{}, fmt.Errorf("insert result: %w", err)
	}
	return r, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]Summary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT q.id, q.user_id, COALESCE(u.name, ''),
       (SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id),
       (SELECT COUNT(*) FROM results r WHERE r.quiz_id = q.id),
       q.created_at
FROM quizzes q
LEFT JOIN users u ON u.id = q.user_id
ORDER BY q.created_at DESC, q.id
LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var created int64
		if err := rows.Scan(&sm.ID, &sm.UserID, &sm.UserName, &sm.QuestionCount, &sm.ResultCount, &created); err != nil {
			return nil, err
		}
		sm.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) Results(ctx context.Context, quizID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, answers_json, score, total, weaknesses, created_at
		 FROM results WHERE quiz_id=$1 ORDER BY created_at, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var aj string
		var created int64
		if err := rows.Scan(&r.ID, &r.QuizID, &aj, &r.Score, &r.Total, &r.Weaknesses, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aj), &r.Answers); err != nil {
			r.Answers = []any{}
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
