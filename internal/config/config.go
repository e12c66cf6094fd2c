package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote assistant endpoint
	APIBase  string
	APIToken string
	// Dictation (speech-to-text)
	OpenAIAPIKey string
	STTModel     string
	// Rendering
	CatalogSearchURL    string
	PlaceholderImageURL string
	LinkRulesFile       string
	// Client behavior
	HTTPTimeoutSeconds int
	HistoryLimit       int
	// Stub backend
	Port          string
	AllowedOrigin string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		APIBase:             getEnvDefault("CHAT_API_BASE", "http://localhost:5000"),
		APIToken:            os.Getenv("CHAT_API_TOKEN"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		STTModel:            getEnvDefault("OPENAI_STT_MODEL", "whisper-1"),
		CatalogSearchURL:    getEnvDefault("CATALOG_SEARCH_URL", "https://www.amazon.com/s?k="),
		PlaceholderImageURL: getEnvDefault("PLACEHOLDER_IMAGE_URL", "https://via.placeholder.com/150"),
		LinkRulesFile:       os.Getenv("LINK_RULES_FILE"),
		HTTPTimeoutSeconds:  getEnvIntDefault("HTTP_TIMEOUT_SECONDS", 30),
		HistoryLimit:        getEnvIntDefault("HISTORY_LIMIT", 20),
		Port:                getEnvDefault("PORT", "5000"),
		AllowedOrigin:       getEnvDefault("ALLOWED_ORIGIN", "*"),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; voice dictation will be unavailable")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
