package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Development-only auth defaults. Anyone who reads this file can log in as
// admin while these are in use.
const (
	DefaultHMACSecret    = "supersecret-dev-key"
	DefaultAdminPassHash = "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"
)

type Config struct {
	HTTPAddr  string
	PublicURL string // base for quiz links, e.g. https://quiz.example.com
	StaticDir string // optional quiz-taking UI

	DBDriver string
	DBDSN    string

	BlobBasePath string // archived model transcripts

	TelegramToken string
	AdminChatID   int64

	LLMProvider       string // openai|anthropic
	LLMAPIKey         string
	LLMBaseURL        string
	LLMModel          string
	GenerationTimeout time.Duration
	QuestionCount     int
	PersistMode       string // atomic|best_effort

	ConfirmKeywords []string

	SessionStore  string // memory|redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	AuthHMACSecret string
	AdminPassHash  string // bcrypt
	// ReviewerPassHash enables the read-only reviewer login when set.
	ReviewerPassHash string

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	pub := envOr("PUBLIC_URL", envOr("BASE_URL", "http://localhost:3000"))
	return Config{
		HTTPAddr:  addr,
		PublicURL: strings.TrimSuffix(pub, "/"),
		StaticDir: os.Getenv("STATIC_DIR"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminChatID:   envInt64("ADMIN_CHAT_ID", 0),

		LLMProvider:       envOr("LLM_PROVIDER", "openai"),
		LLMAPIKey:         envOr("LLM_API_KEY", os.Getenv("OPENROUTER_API_KEY")),
		LLMBaseURL:        os.Getenv("LLM_BASE_URL"),
		LLMModel:          os.Getenv("LLM_MODEL"),
		GenerationTimeout: envDuration("GENERATION_TIMEOUT", 30*time.Second),
		QuestionCount:     envInt("QUIZ_QUESTION_COUNT", 20),
		PersistMode:       envOr("QUIZ_PERSIST_MODE", "atomic"),

		ConfirmKeywords: csvOr("CONFIRM_KEYWORDS", "quiz,اختبار"),

		SessionStore:  envOr("SESSION_STORE", "memory"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),

		AuthHMACSecret:   envOr("AUTH_HMAC_SECRET", DefaultHMACSecret),
		AdminPassHash:    envOr("ADMIN_PASS_HASH", DefaultAdminPassHash),
		ReviewerPassHash: os.Getenv("REVIEWER_PASS_HASH"),

		CORSOrigins: csvOr("CORS_ORIGINS", "*"),
	}
}

// InsecureDefaults names the auth settings still on their development value.
func (c Config) InsecureDefaults() []string {
	var out []string
	if c.AuthHMACSecret == DefaultHMACSecret {
		out = append(out, "AUTH_HMAC_SECRET")
	}
	if c.AdminPassHash == DefaultAdminPassHash {
		out = append(out, "ADMIN_PASS_HASH")
	}
	return out
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func envInt64(k string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(k)), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// envDuration accepts Go durations ("45s") or bare seconds ("45").
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
