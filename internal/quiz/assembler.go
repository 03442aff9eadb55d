package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/lecture-quiz/internal/eventlog"
	"github.com/mind-engage/lecture-quiz/internal/llm"
	"github.com/mind-engage/lecture-quiz/internal/storage"
)

const MinSourceRunes = 10

type PersistMode string

const (
	PersistAtomic     PersistMode = "atomic"      // quiz + questions in one transaction
	PersistBestEffort PersistMode = "best_effort" // failed question inserts are logged and skipped
)

func ParsePersistMode(s string) PersistMode {
	if strings.EqualFold(strings.TrimSpace(s), string(PersistBestEffort)) {
		return PersistBestEffort
	}
	return PersistAtomic
}

// EventSink receives lifecycle events; *eventlog.Repo satisfies it.
type EventSink interface {
	Append(ctx context.Context, e eventlog.Event) error
}

type AssembleRequest struct {
	UserID     int64
	SourceText string
}

type Assembler struct {
	store   Store
	gen     llm.Generator
	archive storage.BlobStore
	events  EventSink
	count   int
	timeout time.Duration
	mode    PersistMode
	insertN int
}

type AssemblerOption func(*Assembler)

func WithArchive(bs storage.BlobStore) AssemblerOption { return func(a *Assembler) { a.archive = bs } }
func WithEvents(e EventSink) AssemblerOption           { return func(a *Assembler) { a.events = e } }
func WithQuestionCount(n int) AssemblerOption          { return func(a *Assembler) { a.count = n } }
func WithTimeout(d time.Duration) AssemblerOption      { return func(a *Assembler) { a.timeout = d } }
func WithPersistMode(m PersistMode) AssemblerOption    { return func(a *Assembler) { a.mode = m } }

func NewAssembler(store Store, gen llm.Generator, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		store:   store,
		gen:     gen,
		count:   20,
		timeout: 30 * time.Second,
		mode:    PersistAtomic,
		insertN: 8,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble generates, validates and persists a quiz from source text and
// returns the new quiz id.
func (a *Assembler) Assemble(ctx context.Context, req AssembleRequest) (string, error) {
	src := strings.TrimSpace(req.SourceText)
	if utf8.RuneCountInString(src) < MinSourceRunes {
		return "", inputErr("assemble", ErrSourceTooShort)
	}

	raw, err := a.generate(ctx, src)
	if err != nil {
		log.Printf("[ERROR] assemble: generate (user=%d, lecture_len=%d): %v", req.UserID, len(src), err)
		return "", upstreamErr("assemble.generate", err)
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		log.Printf("[ERROR] assemble: rejected model output (user=%d): %v; raw=%q", req.UserID, err, raw)
		a.archiveRaw(req.UserID, raw)
		return "", validationErr("assemble.parse", err)
	}

	q := Quiz{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		LectureText: src,
		CreatedAt:   time.Now().UTC(),
	}
	for i := range questions {
		questions[i].QuizID = q.ID
	}

	stored := len(questions)
	switch a.mode {
	case PersistBestEffort:
		stored, err = a.persistBestEffort(ctx, q, questions)
	default:
		err = a.store.CreateQuiz(ctx, q, questions)
	}
	if err != nil {
		log.Printf("[ERROR] assemble: persist quiz %s (mode=%s): %v", q.ID, a.mode, err)
		return "", storageErr("assemble.persist", err)
	}

	log.Printf("[INFO] quiz %s created for user %d with %d/%d questions", q.ID, req.UserID, stored, len(questions))
	a.emit(ctx, eventlog.TypeQuizCreated, q.ID, map[string]any{
		"user_id":   req.UserID,
		"questions": stored,
		"mode":      a.mode,
	})
	return q.ID, nil
}

func (a *Assembler) generate(ctx context.Context, src string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	raw, err := a.gen.Generate(ctx, llm.QuizPrompt(src, a.count))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, llm.ErrTimeout) {
			err = fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return "", err
	}
	return raw, nil
}

// persistBestEffort writes the quiz row, then every question concurrently.
// It returns once all inserts have settled.
func (a *Assembler) persistBestEffort(ctx context.Context, q Quiz, questions []Question) (int, error) {
	if err := a.store.InsertQuiz(ctx, q); err != nil {
		return 0, err
	}
	var ok atomic.Int64
	var g errgroup.Group
	g.SetLimit(a.insertN)
	for _, qq := range questions {
		g.Go(func() error {
			if err := a.store.InsertQuestion(ctx, qq); err != nil {
				log.Printf("[WARN] assemble: skip question %d of quiz %s: %v", qq.Position, q.ID, err)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	if ok.Load() == 0 {
		// an empty quiz would only show up as a dead entry in the admin list
		if err := a.store.DeleteQuiz(ctx, q.ID); err != nil {
			log.Printf("[WARN] assemble: remove empty quiz %s: %v", q.ID, err)
		}
		return 0, errNoQuestionStored
	}
	return int(ok.Load()), nil
}

func (a *Assembler) archiveRaw(userID int64, raw string) {
	if a.archive == nil {
		return
	}
	key := fmt.Sprintf("rejected/%s-%d.txt", time.Now().UTC().Format("20060102T150405.000000000"), userID)
	if _, err := a.archive.Put(key, strings.NewReader(raw)); err != nil {
		log.Printf("[WARN] assemble: archive raw output: %v", err)
		return
	}
	log.Printf("[INFO] assemble: raw output archived as %s", key)
}

func (a *Assembler) emit(ctx context.Context, typ, key string, payload any) {
	if a.events == nil {
		return
	}
	e, err := eventlog.New(typ, key, payload)
	if err == nil {
		err = a.events.Append(ctx, e)
	}
	if err != nil {
		log.Printf("[WARN] event %s for %s not recorded: %v", typ, key, err)
	}
}
