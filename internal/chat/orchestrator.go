package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/mind-engage/lecture-quiz/internal/llm"
	"github.com/mind-engage/lecture-quiz/internal/pdf"
	"github.com/mind-engage/lecture-quiz/internal/quiz"
	"github.com/mind-engage/lecture-quiz/internal/session"
)

const (
	MinPDFRunes      = 20
	MaxDocumentBytes = 20 << 20 // Bot API download limit
	mimePDF          = "application/pdf"
)

// Event is one inbound chat message, transport-neutral.
type Event struct {
	ChatID   int64
	UserName string
	Text     string
	Command  string // without the leading slash
	Document *Document
}

type Document struct {
	FileID   string
	FileName string
	MimeType string
	FileSize int // 0 when the platform did not report it
}

// Messenger sends replies to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	// SendConfirm shows a one-time reply keyboard with a single button.
	SendConfirm(ctx context.Context, chatID int64, text, button string) error
	// SendLink attaches an inline button opening url.
	SendLink(ctx context.Context, chatID int64, text, label, url string) error
}

// Files downloads documents the user attached.
type Files interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type Users interface {
	UpsertUser(ctx context.Context, externalID, name string) (quiz.User, error)
}

type QuizAssembler interface {
	Assemble(ctx context.Context, req quiz.AssembleRequest) (string, error)
}

type Deps struct {
	States    session.Store
	Users     Users
	Assembler QuizAssembler
	Extractor pdf.Extractor
	Messenger Messenger
	Files     Files
}

type Orchestrator struct {
	Deps
	baseURL  string
	keywords []string // case-folded
	msgs     Messages
}

type Option func(*Orchestrator)

func WithMessages(m Messages) Option { return func(o *Orchestrator) { o.msgs = m } }

// WithKeywords replaces the confirmation keywords; matching is a
// case-insensitive substring test.
func WithKeywords(kw ...string) Option {
	return func(o *Orchestrator) {
		fold := cases.Fold()
		o.keywords = o.keywords[:0]
		for _, k := range kw {
			if k = strings.TrimSpace(k); k != "" {
				o.keywords = append(o.keywords, fold.String(k))
			}
		}
	}
}

func NewOrchestrator(baseURL string, d Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Deps:    d,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		msgs:    DefaultMessages(),
	}
	WithKeywords("quiz", "اختبار")(o)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle drives one inbound event through the conversation state machine.
func (o *Orchestrator) Handle(ctx context.Context, ev Event) {
	key := strconv.FormatInt(ev.ChatID, 10)

	if ev.Command == "start" {
		if _, err := o.Users.UpsertUser(ctx, key, ev.UserName); err != nil {
			log.Printf("[ERROR] chat %d: upsert user on start: %v", ev.ChatID, err)
		}
		o.clear(ctx, key)
		o.reply(ctx, ev.ChatID, o.msgs.Greeting)
		return
	}

	st, err := o.States.Get(ctx, key)
	if err != nil {
		log.Printf("[ERROR] chat %d: load state: %v", ev.ChatID, err)
		o.reply(ctx, ev.ChatID, o.msgs.ServerError)
		return
	}

	if st.IsAwaiting() {
		o.handleConfirmation(ctx, ev, key, st)
		return
	}

	switch {
	case ev.Document != nil:
		o.handleDocument(ctx, ev, key)
	case ev.Command != "" || strings.TrimSpace(ev.Text) == "":
		// commands other than start and empty messages are ignored while idle
	default:
		if _, err := o.Users.UpsertUser(ctx, key, ev.UserName); err != nil {
			log.Printf("[ERROR] chat %d: upsert user: %v", ev.ChatID, err)
		}
		o.await(ctx, ev.ChatID, key, ev.Text, o.msgs.ConfirmLecture)
	}
}

func (o *Orchestrator) handleConfirmation(ctx context.Context, ev Event, key string, st session.State) {
	o.clear(ctx, key)
	if ev.Command != "" || !o.IsConfirmation(ev.Text) {
		o.reply(ctx, ev.ChatID, o.msgs.Cancelled)
		return
	}

	user, err := o.Users.UpsertUser(ctx, key, ev.UserName)
	if err != nil {
		log.Printf("[ERROR] chat %d: upsert user before assemble: %v", ev.ChatID, err)
		o.reply(ctx, ev.ChatID, o.msgs.ServerError)
		return
	}

	o.reply(ctx, ev.ChatID, o.msgs.Generating)
	id, err := o.Assembler.Assemble(ctx, quiz.AssembleRequest{UserID: user.ID, SourceText: st.SourceText})
	if err != nil {
		o.reply(ctx, ev.ChatID, o.failureMessage(err))
		return
	}

	link := o.QuizLink(id)
	if err := o.Messenger.SendLink(ctx, ev.ChatID, fmt.Sprintf(o.msgs.QuizReady, link), o.msgs.OpenQuiz, link); err != nil {
		log.Printf("[WARN] chat %d: send quiz link: %v", ev.ChatID, err)
	}
}

func (o *Orchestrator) handleDocument(ctx context.Context, ev Event, key string) {
	doc := ev.Document
	if !strings.EqualFold(doc.MimeType, mimePDF) {
		o.reply(ctx, ev.ChatID, o.msgs.OnlyPDF)
		return
	}
	if doc.FileSize > MaxDocumentBytes {
		log.Printf("[INFO] chat %d: pdf %s rejected, %d bytes", ev.ChatID, doc.FileName, doc.FileSize)
		o.reply(ctx, ev.ChatID, o.msgs.PDFTooLarge)
		return
	}
	if _, err := o.Users.UpsertUser(ctx, key, ev.UserName); err != nil {
		log.Printf("[ERROR] chat %d: upsert user: %v", ev.ChatID, err)
	}
	o.reply(ctx, ev.ChatID, o.msgs.ProcessingPDF)

	data, err := o.Files.Download(ctx, doc.FileID)
	if err != nil {
		log.Printf("[ERROR] chat %d: download %s (%s): %v", ev.ChatID, doc.FileID, doc.FileName, err)
		o.reply(ctx, ev.ChatID, o.msgs.PDFFailed)
		return
	}
	text, err := o.Extractor.ExtractText(ctx, data)
	if err != nil {
		log.Printf("[ERROR] chat %d: extract pdf %s (%d bytes): %v", ev.ChatID, doc.FileName, len(data), err)
		o.reply(ctx, ev.ChatID, o.msgs.PDFFailed)
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinPDFRunes {
		o.reply(ctx, ev.ChatID, o.msgs.PDFTooLittleText)
		return
	}
	o.await(ctx, ev.ChatID, key, text, o.msgs.ConfirmPDF)
}

func (o *Orchestrator) await(ctx context.Context, chatID int64, key, source, prompt string) {
	if err := o.States.Set(ctx, key, session.Awaiting(source)); err != nil {
		log.Printf("[ERROR] chat %d: save state: %v", chatID, err)
		o.reply(ctx, chatID, o.msgs.ServerError)
		return
	}
	if err := o.Messenger.SendConfirm(ctx, chatID, prompt, o.msgs.ConfirmButton); err != nil {
		log.Printf("[WARN] chat %d: send confirmation: %v", chatID, err)
	}
}

// IsConfirmation reports whether text contains a confirmation keyword.
func (o *Orchestrator) IsConfirmation(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	folded := cases.Fold().String(text)
	for _, k := range o.keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) QuizLink(id string) string {
	return o.baseURL + "/?quiz=" + url.QueryEscape(id)
}

func (o *Orchestrator) failureMessage(err error) string {
	switch quiz.KindOf(err) {
	case quiz.KindInput:
		return o.msgs.SourceTooShort
	case quiz.KindUpstream:
		if errors.Is(err, llm.ErrTimeout) {
			return o.msgs.GenerationTimeout
		}
		return o.msgs.GenerationFailed
	case quiz.KindValidation:
		return o.msgs.CouldNotBuild
	default:
		return o.msgs.ServerError
	}
}

func (o *Orchestrator) clear(ctx context.Context, key string) {
	if err := o.States.Delete(ctx, key); err != nil {
		log.Printf("[WARN] chat %s: clear state: %v", key, err)
	}
}

func (o *Orchestrator) reply(ctx context.Context, chatID int64, text string) {
	if err := o.Messenger.SendText(ctx, chatID, text); err != nil {
		log.Printf("[WARN] chat %d: send: %v", chatID, err)
	}
}
