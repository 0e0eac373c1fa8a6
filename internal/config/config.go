package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFile   string
	StaticDir string

	// Catalog
	CatalogPath     string
	CatalogSeed     bool
	SuggestionCount int

	// Appointment storage
	AppointmentStore    string
	SQLitePath          string
	DatabaseURL         string
	StoreRetryAttempts  int
	StoreRetryBaseDelay time.Duration

	// Conversation sessions
	SessionStore         string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionsTable        string
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool

	// Text generation
	LLMProvider         string
	LLMFallbackProvider string
	LLMTimeout          time.Duration
	LLMFallbackCooldown time.Duration
	HistoryWindow       int
	OpenAIAPIKey        string
	OpenAIModel         string
	BedrockModelID      string
	GeminiAPIKey        string
	GeminiModel         string
	OllamaHost          string
	OllamaModel         string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// HTTP hardening
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Notifications
	NotifyEmailTo             string
	SendGridAPIKey            string
	SendGridFromEmail         string
	SendGridFromName          string
	SESFromEmail              string
	AppointmentEventsQueueURL string
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8000"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		StaticDir: getEnv("STATIC_DIR", "static"),

		CatalogPath:     getEnv("CATALOG_PATH", "tattoo_type.csv"),
		CatalogSeed:     getEnvAsBool("CATALOG_SEED", true),
		SuggestionCount: getEnvAsInt("SUGGESTION_COUNT", 5),

		AppointmentStore:    strings.ToLower(strings.TrimSpace(getEnv("APPOINTMENT_STORE", "sqlite"))),
		SQLitePath:          getEnv("SQLITE_PATH", "tattoo_appointments.db"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		StoreRetryAttempts:  getEnvAsInt("STORE_RETRY_ATTEMPTS", 3),
		StoreRetryBaseDelay: getEnvAsDuration("STORE_RETRY_BASE_DELAY", 100*time.Millisecond),

		SessionStore:         strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		SessionsTable:        getEnv("SESSIONS_TABLE", "chat_sessions"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai"))),
		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		LLMTimeout:          getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		LLMFallbackCooldown: getEnvAsDuration("LLM_FALLBACK_COOLDOWN", 30*time.Second),
		HistoryWindow:       getEnvAsInt("HISTORY_WINDOW", 10),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o"),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaHost:          getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3.1"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		NotifyEmailTo:             getEnv("NOTIFY_EMAIL_TO", ""),
		SendGridAPIKey:            getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:         getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:          getEnv("SENDGRID_FROM_NAME", "Ink Studio"),
		SESFromEmail:              getEnv("SES_FROM_EMAIL", ""),
		AppointmentEventsQueueURL: getEnv("APPOINTMENT_EVENTS_QUEUE_URL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
