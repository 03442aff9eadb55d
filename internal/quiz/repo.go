package quiz

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Store interface {
	// UpsertUser is idempotent on externalID.
	UpsertUser(ctx context.Context, externalID, name string) (User, error)

	// CreateQuiz writes the quiz row and all questions atomically.
	CreateQuiz(ctx context.Context, q Quiz, questions []Question) error
	// InsertQuiz and InsertQuestion write rows independently.
	InsertQuiz(ctx context.Context, q Quiz) error
	InsertQuestion(ctx context.Context, q Question) error
	// DeleteQuiz removes a quiz and its questions; unknown ids are not an error.
	DeleteQuiz(ctx context.Context, quizID string) error

	// Questions returns a quiz's questions ordered by position; empty when unknown.
	Questions(ctx context.Context, quizID string) ([]Question, error)
	AddResult(ctx context.Context, r Result) (Result, error)

	ListQuizzes(ctx context.Context, opts ListOpts) ([]Summary, error)
	Results(ctx context.Context, quizID string) ([]Result, error)
}

type memoryStore struct {
	mu        sync.RWMutex
	userSeq   int64
	users     map[string]User // by external id
	quizzes   map[string]Quiz
	questions map[string][]Question
	results   map[string][]Result
	resultSeq int64
}

// NewMemoryStore keeps everything in process memory.
func NewMemoryStore() Store {
	return &memoryStore{
		users:     map[string]User{},
		quizzes:   map[string]Quiz{},
		questions: map[string][]Question{},
		results:   map[string][]Result{},
	}
}

func (m *memoryStore) UpsertUser(_ context.Context, externalID, name string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[externalID]; ok {
		if name != "" {
			u.Name = name
			m.users[externalID] = u
		}
		return u, nil
	}
	m.userSeq++
	u := User{ID: m.userSeq, ExternalID: externalID, Name: name}
	m.users[externalID] = u
	return u, nil
}

func (m *memoryStore) CreateQuiz(_ context.Context, q Quiz, questions []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	cp := make([]Question, len(questions))
	for i, qq := range questions {
		qq.QuizID = q.ID
		qq.ID = int64(i + 1)
		cp[i] = qq
	}
	m.questions[q.ID] = cp
	return nil
}

func (m *memoryStore) InsertQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.quizzes, quizID)
	delete(m.questions, quizID)
	return nil
}

func (m *memoryStore) InsertQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[q.QuizID]; !ok {
		return ErrNotFound
	}
	q.ID = int64(len(m.questions[q.QuizID]) + 1)
	m.questions[q.QuizID] = append(m.questions[q.QuizID], q)
	return nil
}

func (m *memoryStore) Questions(_ context.Context, quizID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]Question{}, m.questions[quizID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memoryStore) AddResult(_ context.Context, r Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultSeq++
	r.ID = m.resultSeq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.results[r.QuizID] = append(m.results[r.QuizID], r)
	return r, nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := map[int64]string{}
	for _, u := range m.users {
		names[u.ID] = u.Name
	}
	out := make([]Summary, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, Summary{
			ID:            q.ID,
			UserID:        q.UserID,
			UserName:      names[q.UserID],
			QuestionCount: len(m.questions[q.ID]),
			ResultCount:   len(m.results[q.ID]),
			CreatedAt:     q.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, opts), nil
}

func (m *memoryStore) Results(_ context.Context, quizID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Result{}, m.results[quizID]...), nil
}

func page[T any](in []T, opts ListOpts) []T {
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Offset >= len(in) {
		return []T{}
	}
	in = in[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(in) {
		in = in[:opts.Limit]
	}
	return in
}
