// Package config provides configuration for the chat widget backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Storage
	StorageBackend string
	DatabaseURL    string

	// LLM settings
	OpenAIBaseURL  string
	OpenAIAPIKey   string
	EmbeddingModel string
	ChatModel      string
	LLMTimeout     time.Duration

	// Knowledge base
	KnowledgeBasePath  string
	WatchKnowledgeBase bool

	// Uploads
	UploadDir string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		StorageBackend:     getEnv("STORAGE_BACKEND", "memory"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:chatwidget.db?cache=shared&mode=rwc"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-4o"),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		KnowledgeBasePath:  getEnv("KNOWLEDGE_BASE_PATH", "knowledge-base.txt"),
		WatchKnowledgeBase: getEnvBool("WATCH_KNOWLEDGE_BASE", true),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
