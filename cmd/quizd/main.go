package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	api "github.com/mind-engage/lecture-quiz/internal/api/http"
	auth "github.com/mind-engage/lecture-quiz/internal/auth/middleware"
	"github.com/mind-engage/lecture-quiz/internal/chat"
	"github.com/mind-engage/lecture-quiz/internal/chat/telegram"
	"github.com/mind-engage/lecture-quiz/internal/config"
	"github.com/mind-engage/lecture-quiz/internal/db"
	"github.com/mind-engage/lecture-quiz/internal/eventlog"
	"github.com/mind-engage/lecture-quiz/internal/llm"
	"github.com/mind-engage/lecture-quiz/internal/pdf"
	"github.com/mind-engage/lecture-quiz/internal/quiz"
	"github.com/mind-engage/lecture-quiz/internal/session"
	"github.com/mind-engage/lecture-quiz/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] .env: %v", err)
	}
	cfg := config.FromEnv()
	for _, k := range cfg.InsecureDefaults() {
		log.Printf("[WARN] %s is unset, using the public development default; set it before exposing the admin API", k)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	driver := db.ParseDriver(cfg.DBDriver)
	dbh, err := db.Open(openCtx, driver, cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	store := quiz.NewSQLStore(dbh)
	events := eventlog.NewRepo(dbh)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	assembler := quiz.NewAssembler(store, gen,
		quiz.WithArchive(bs),
		quiz.WithEvents(events),
		quiz.WithQuestionCount(cfg.QuestionCount),
		quiz.WithTimeout(cfg.GenerationTimeout),
		quiz.WithPersistMode(quiz.ParsePersistMode(cfg.PersistMode)),
	)
	svc := quiz.NewService(store, events)

	// --- HTTP ---
	router := api.NewRouter(api.Deps{
		Quizzes:     svc,
		Admin:       svc,
		Events:      events,
		Transcripts: bs,
		Auth:        auth.NewAuthService(cfg.AuthHMACSecret),
		Credentials: auth.Credentials{"admin": cfg.AdminPassHash, "reviewer": cfg.ReviewerPassHash},
		Ready:       dbh.PingContext,
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// --- Chat ---
	botDone := make(chan struct{})
	if cfg.TelegramToken == "" {
		log.Printf("[WARN] TELEGRAM_BOT_TOKEN not set; chat front-end disabled")
		close(botDone)
	} else {
		states, err := newSessionStore(ctx, cfg)
		if err != nil {
			log.Fatalf("session store: %v", err)
		}
		bot, err := telegram.New(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		orch := chat.NewOrchestrator(cfg.PublicURL, chat.Deps{
			States:    states,
			Users:     store,
			Assembler: assembler,
			Extractor: pdf.NewTextExtractor(),
			Messenger: bot,
			Files:     bot,
		}, chat.WithKeywords(cfg.ConfirmKeywords...))

		if cfg.AdminChatID != 0 {
			if err := bot.SendText(ctx, cfg.AdminChatID, chat.DefaultMessages().Started); err != nil {
				log.Printf("[WARN] startup notice to %d: %v", cfg.AdminChatID, err)
			}
		}
		log.Printf("[INFO] telegram bot @%s polling", bot.Username())
		go func() {
			defer close(botDone)
			bot.Run(ctx, orch.Handle)
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] http shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] listening on %s (db=%s, llm=%s, persist=%s)", cfg.HTTPAddr, driver, cfg.LLMProvider, cfg.PersistMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http: %v", err)
	}
	<-botDone
	log.Printf("[INFO] stopped")
}

func newGenerator(cfg config.Config) (llm.Generator, error) {
	if cfg.LLMAPIKey == "" {
		return nil, errors.New("LLM_API_KEY (or OPENROUTER_API_KEY) is required")
	}
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai", "openrouter", "":
		return llm.NewOpenAIGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel), nil
	case "anthropic":
		return llm.NewAnthropicGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel), nil
	default:
		return nil, errors.New("unsupported LLM_PROVIDER " + cfg.LLMProvider)
	}
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch strings.ToLower(cfg.SessionStore) {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), nil
	default:
		return session.NewMemoryStore(), nil
	}
}
