package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Cache    CacheConfig
	Memory   MemoryConfig
	Security SecurityConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "mock"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL     string
	EmbeddingProvider string // "ollama" or "mock"
	EmbeddingModel    string // e.g. "nomic-embed-text"
	RagEnabled        bool
}

type CacheConfig struct {
	Enabled   bool
	Threshold float64
}

type MemoryConfig struct {
	Enabled    bool
	MaxTurns   int
	TTLSeconds int
}

type SecurityConfig struct {
	FreeLimit         int
	ProLimit          int
	WindowSeconds     int
	AdminUsername     string
	AdminPasswordHash string
	JwtSecret         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			IngestTopic:        getEnv("INGEST_KNOWLEDGE_TOPIC_NAME", "INGEST_KNOWLEDGE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RagEnabled:        getEnvAsBool("ENABLE_RAG", true),
		},
		Cache: CacheConfig{
			Enabled:   getEnvAsBool("ENABLE_CACHE", true),
			Threshold: getEnvAsFloat("CACHE_THRESHOLD", 0.85),
		},
		Memory: MemoryConfig{
			Enabled:    getEnvAsBool("ENABLE_MEMORY", true),
			MaxTurns:   getEnvAsInt("MEMORY_MAX_TURNS", 15),
			TTLSeconds: getEnvAsInt("MEMORY_TTL_SECONDS", 3600),
		},
		Security: SecurityConfig{
			FreeLimit:         getEnvAsInt("RATE_LIMIT_FREE", 10),
			ProLimit:          getEnvAsInt("RATE_LIMIT_PRO", 100),
			WindowSeconds:     getEnvAsInt("RATE_WINDOW_SECONDS", 60),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JwtSecret:         getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
