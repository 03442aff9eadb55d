package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/lecture-quiz/internal/auth/middleware"
	"github.com/mind-engage/lecture-quiz/internal/rbac"
	"github.com/mind-engage/lecture-quiz/internal/storage"
)

type Deps struct {
	Quizzes     QuizService
	Admin       AdminService
	Events      EventSource
	Transcripts storage.BlobStore
	Auth        *auth.AuthService
	Credentials auth.Credentials
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error

	CORSOrigins []string
	StaticDir   string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	// Public quiz API: the quiz id is the only credential.
	r.Get("/api/quiz", GetQuizHandler(d.Quizzes))
	r.Post("/api/quiz", SubmitQuizHandler(d.Quizzes))

	r.Route("/api/admin", func(ar chi.Router) {
		ar.Post("/login", auth.LoginHandler(d.Auth, d.Credentials))

		// JWT -> role in context -> RBAC
		ar.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(d.Auth))

			pr.With(rbac.Require("quizzes:list")).
				Get("/quizzes", ListQuizzesHandler(d.Admin))
			pr.With(rbac.Require("results:view")).
				Get("/quizzes/{quizID}/results", QuizResultsHandler(d.Admin))
			if d.Events != nil {
				pr.With(rbac.Require("events:view")).
					Get("/events", EventsHandler(d.Events))
			}
			if d.Transcripts != nil {
				pr.With(rbac.Require("transcripts:view")).
					Route("/transcripts", func(tr chi.Router) { MountTranscripts(tr, d.Transcripts) })
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				log.Printf("[WARN] readyz: %v", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})

	if d.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}
	return r
}
