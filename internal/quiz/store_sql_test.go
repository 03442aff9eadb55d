package quiz

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mind-engage/lecture-quiz/internal/db"
)

func openSQLStore(t *testing.T) (*SQLStore, *sql.DB) {
	t.Helper()
	d, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return NewSQLStore(d), d
}

func TestSQLStore_UpsertUserIsIdempotent(t *testing.T) {
	s, d := openSQLStore(t)
	ctx := context.Background()

	u1, err := s.UpsertUser(ctx, "777", "Sam")
	if err != nil {
		t.Fatal(err)
	}
	u2, err := s.UpsertUser(ctx, "777", "")
	if err != nil {
		t.Fatal(err)
	}
	if u1.ID != u2.ID || u2.Name != "Sam" {
		t.Fatalf("u1=%+v u2=%+v", u1, u2)
	}
	var n int
	_ = d.QueryRow(`SELECT COUNT(*) FROM users WHERE external_id='777'`).Scan(&n)
	if n != 1 {
		t.Fatalf("want one user row, got %d", n)
	}
}

func TestSQLStore_QuizRoundTrip(t *testing.T) {
	s, _ := openSQLStore(t)
	ctx := context.Background()
	u, _ := s.UpsertUser(ctx, "1", "A")

	q := Quiz{ID: "qz-1", UserID: u.ID, LectureText: "lecture", CreatedAt: time.Now()}
	in := []Question{
		{Position: 1, Prompt: "Second", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 3},
		{Position: 0, Prompt: "First", Options: []string{"e", "f", "g", "h"}, AnswerIndex: 0, Explanation: "why"},
	}
	if err := s.CreateQuiz(ctx, q, in); err != nil {
		t.Fatal(err)
	}
	out, err := s.Questions(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Prompt != "First" || out[1].Prompt != "Second" {
		t.Fatalf("order: %+v", out)
	}
	if out[0].Options[2] != "g" || out[0].Explanation != "why" || out[1].AnswerIndex != 3 {
		t.Fatalf("fields: %+v", out)
	}

	none, err := s.Questions(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Fatalf("missing quiz: %v %v", none, err)
	}
}

func TestSQLStore_CreateQuizIsAtomic(t *testing.T) {
	s, d := openSQLStore(t)
	ctx := context.Background()
	u, _ := s.UpsertUser(ctx, "1", "A")

	// first insert succeeds, the duplicate quiz id makes the second CreateQuiz fail
	q := Quiz{ID: "dup", UserID: u.ID, LectureText: "x"}
	if err := s.CreateQuiz(ctx, q, []Question{{Prompt: "Q", Options: []string{"a", "b", "c", "d"}}}); err != nil {
		t.Fatal(err)
	}
	err := s.CreateQuiz(ctx, q, []Question{{Prompt: "Q2", Options: []string{"a", "b", "c", "d"}}})
	if err == nil {
		t.Fatal("expected duplicate quiz error")
	}
	var n int
	_ = d.QueryRow(`SELECT COUNT(*) FROM questions WHERE quiz_id='dup'`).Scan(&n)
	if n != 1 {
		t.Fatalf("rolled-back questions leaked: %d rows", n)
	}
}

func TestSQLStore_ResultsAndListing(t *testing.T) {
	s, _ := openSQLStore(t)
	ctx := context.Background()
	u, _ := s.UpsertUser(ctx, "9", "Nour")
	q := Quiz{ID: "qz-2", UserID: u.ID, LectureText: "x", CreatedAt: time.Now()}
	if err := s.InsertQuiz(ctx, q); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.InsertQuestion(ctx, Question{QuizID: q.ID, Position: i, Prompt: "Q", Options: []string{"a", "b", "c", "d"}}); err != nil {
			t.Fatal(err)
		}
	}

	r, err := s.AddResult(ctx, Result{QuizID: q.ID, Answers: []any{"1", 2.0, nil}, Score: 1, Total: 3, Weaknesses: "review"})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == 0 {
		t.Fatal("result id not assigned")
	}

	rs, err := s.Results(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 1 || rs[0].Score != 1 || rs[0].Total != 3 || len(rs[0].Answers) != 3 || rs[0].Answers[0] != "1" {
		t.Fatalf("results=%+v", rs)
	}

	list, err := s.ListQuizzes(ctx, ListOpts{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].QuestionCount != 3 || list[0].ResultCount != 1 || list[0].UserName != "Nour" {
		t.Fatalf("list=%+v", list)
	}
}

func TestAssemble_SQLStoreEndToEnd(t *testing.T) {
	s, _ := openSQLStore(t)
	ctx := context.Background()
	u, _ := s.UpsertUser(ctx, "5", "Omar")

	for _, mode := range []PersistMode{PersistAtomic, PersistBestEffort} {
		a := NewAssembler(s, staticGen(nQuestions(5), nil), WithPersistMode(mode))
		id, err := a.Assemble(ctx, AssembleRequest{UserID: u.ID, SourceText: "Newton's laws describe motion."})
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		qs, _ := s.Questions(ctx, id)
		if len(qs) != 5 {
			t.Fatalf("%s: want 5 questions, got %d", mode, len(qs))
		}
	}
}

func TestSQLStore_DeleteQuiz(t *testing.T) {
	ctx := context.Background()
	s, _ := openSQLStore(t)
	u, _ := s.UpsertUser(ctx, "3", "Dana")
	q := Quiz{ID: "qz-del", UserID: u.ID, LectureText: "x", CreatedAt: time.Now()}
	if err := s.InsertQuiz(ctx, q); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertQuestion(ctx, Question{QuizID: q.ID, Prompt: "Q", Options: []string{"a", "b", "c", "d"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteQuiz(ctx, q.ID); err != nil {
		t.Fatal(err)
	}
	if qs, _ := s.Questions(ctx, q.ID); len(qs) != 0 {
		t.Fatalf("questions left: %+v", qs)
	}
	if list, _ := s.ListQuizzes(ctx, ListOpts{}); len(list) != 0 {
		t.Fatalf("quiz left: %+v", list)
	}
	if err := s.DeleteQuiz(ctx, "never-existed"); err != nil {
		t.Fatalf("unknown id: %v", err)
	}
}
