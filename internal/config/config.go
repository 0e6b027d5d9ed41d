package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

var ErrMissingGeminiKey = errors.New("GEMINI_API_KEY is required")

type Config struct {
	Env  string
	Port int

	// diagnosis
	GeminiAPIKey             string
	GeminiAPIURL             string
	DiagnosisTimeout         time.Duration
	DiagnosisBreakerFailures int
	DiagnosisBreakerCooldown time.Duration

	// storage
	StoreBackend        string
	DBURL               string
	ValidateReportOwner bool

	// report list cache
	ReportsCache    string
	ReportsCacheTTL time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	PasswordHasher string

	JWTSecret           string
	JWTAccessTTLMinutes int

	CORSAllowedOrigins    []string
	RateLimitAssessPerMin int
	MaxBodyBytes          int64

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

// Load reads the process environment (and a .env file when present).
// The Gemini credential has no default: Load fails without it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8001),

		GeminiAPIKey:             strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiAPIURL:             getEnv("GEMINI_API_URL", defaultGeminiURL),
		DiagnosisTimeout:         time.Duration(getEnvInt("DIAGNOSIS_TIMEOUT_SECONDS", 30)) * time.Second,
		DiagnosisBreakerFailures: getEnvInt("DIAGNOSIS_BREAKER_THRESHOLD", 5),
		DiagnosisBreakerCooldown: time.Duration(getEnvInt("DIAGNOSIS_BREAKER_COOLDOWN_SECONDS", 30)) * time.Second,

		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		DBURL:               getEnv("DATABASE_URL", buildDBURL()),
		ValidateReportOwner: getEnvBool("VALIDATE_REPORT_OWNER", false),

		ReportsCache:    strings.ToLower(getEnv("REPORTS_CACHE", "none")),
		ReportsCacheTTL: time.Duration(getEnvInt("REPORTS_CACHE_TTL_SECONDS", 30)) * time.Second,
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),

		PasswordHasher: strings.ToLower(getEnv("PASSWORD_HASHER", "sha256")),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),

		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitAssessPerMin: getEnvInt("RATE_LIMIT_ASSESS_PER_MINUTE", 0),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingGeminiKey
	}

	switch c.StoreBackend {
	case "memory", "postgres":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or postgres, got %q", c.StoreBackend)
	}

	switch c.ReportsCache {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("REPORTS_CACHE must be none, memory or redis, got %q", c.ReportsCache)
	}

	switch c.PasswordHasher {
	case "sha256", "bcrypt":
	default:
		return fmt.Errorf("PASSWORD_HASHER must be sha256 or bcrypt, got %q", c.PasswordHasher)
	}

	if c.DiagnosisTimeout <= 0 {
		return errors.New("DIAGNOSIS_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "arogyamitra")
	pass := getEnv("DB_PASSWORD", "arogyamitra")
	name := getEnv("DB_NAME", "arogyamitra")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(strings.TrimSpace(v))

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
