package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Eligibility evaluation modes.
const (
	EligibilityModeAgentic = "agentic"
	EligibilityModeRules   = "rules"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LLMConfig holds credentials and candidate models for every LLM backend.
// A hosted backend with an empty API key is left out of the fallback chain.
type LLMConfig struct {
	GoogleAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModels  []string

	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	HuggingFaceModel   string

	OllamaBaseURL string
	OllamaModels  []string
	OllamaTimeout time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	Env             string
	EligibilityMode string
	Database        DatabaseConfig
	MinIO           MinIOConfig
	LLM             LLMConfig
}

// Default candidate models, in priority order.
var (
	DefaultOpenRouterModels = []string{
		"deepseek/deepseek-chat",
		"google/gemini-2.0-flash-exp:free",
		"meta-llama/llama-3.3-70b-instruct:free",
		"mistralai/mistral-7b-instruct:free",
		"qwen/qwen-2.5-vl-7b-instruct:free",
	}
	DefaultOllamaModels = []string{"gemma3:4b", "gptoss20bcloud", "llama3.2"}
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	mode := strings.ToLower(getEnv("ELIGIBILITY_MODE", EligibilityModeAgentic))
	if mode != EligibilityModeRules {
		mode = EligibilityModeAgentic
	}

	return &AppConfig{
		AppHost:         getEnv("APP_HOST", "localhost:8080"),
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "production"),
		EligibilityMode: mode,
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		LLM: LLMConfig{
			GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
			GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL:  getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenRouterModels:   getEnvList("OPENROUTER_MODELS", DefaultOpenRouterModels),
			HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
			HuggingFaceModel:   getEnv("HUGGINGFACE_MODEL", "meta-llama/Meta-Llama-3-8B-Instruct"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModels:       getEnvList("OLLAMA_MODELS", DefaultOllamaModels),
			OllamaTimeout:      getEnvDuration("OLLAMA_TIMEOUT", 120*time.Second),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping blanks. Order is kept.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
