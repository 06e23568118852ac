package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Session   SessionConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
	Log       LogConfig
	Tracing   TracingConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// GeminiConfig holds one model name per interview stage so each prompt
// contract can be pinned independently.
type GeminiConfig struct {
	APIKey           string
	ResumeModel      string
	QuestionModel    string
	EvaluationModel  string
	AssessmentModel  string
	Temperature      float32
	MaxOutputTokens  int32
	Timeout          time.Duration
	MaxRetries       int
	RetryInitialWait time.Duration
}

type SessionConfig struct {
	Store           string
	TTL             time.Duration
	CleanupInterval time.Duration
	RedisURL        string
}

type StorageConfig struct {
	MaxFileSize int64
}

type TelemetryConfig struct {
	Workers   int
	QueueSize int
}

type LogConfig struct {
	FilePath string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey:           getEnv("GEMINI_API_KEY", ""),
			ResumeModel:      getEnv("GEMINI_RESUME_MODEL", "gemini-2.5-flash"),
			QuestionModel:    getEnv("GEMINI_QUESTION_MODEL", "gemini-2.5-flash"),
			EvaluationModel:  getEnv("GEMINI_EVALUATION_MODEL", "gemini-2.5-flash"),
			AssessmentModel:  getEnv("GEMINI_ASSESSMENT_MODEL", "gemini-2.5-flash"),
			Temperature:      getEnvAsFloat32("GEMINI_TEMPERATURE", 0.4),
			MaxOutputTokens:  int32(getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 8192)),
			Timeout:          getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
			MaxRetries:       getEnvAsInt("GEMINI_MAX_RETRIES", 1),
			RetryInitialWait: getEnvAsDuration("GEMINI_RETRY_DELAY", "1s"),
		},
		Session: SessionConfig{
			Store:           getEnv("SESSION_STORE", SessionStoreMemory),
			TTL:             getEnvAsDuration("SESSION_TTL", "2h"),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", "10m"),
			RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Telemetry: TelemetryConfig{
			Workers:   getEnvAsInt("TELEMETRY_WORKERS", 2),
			QueueSize: getEnvAsInt("TELEMETRY_QUEUE_SIZE", 100),
		},
		Log: LogConfig{
			FilePath: getEnv("LOG_FILE_PATH", "logs/app.log"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-interviewer"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
