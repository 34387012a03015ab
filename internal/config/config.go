package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	DatabaseURL string
	Port        string

	// LLM Configuration
	LLMProvider string // "gemini", "openai" or "groq"
	LLMModel    string
	LLMAPIKey   string
	LLMTimeout  time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found, using environment variables")
	}

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}

	// API key depends on the configured provider
	apiKey := ""
	switch provider {
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
	case "groq":
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	timeout := 30 * time.Second
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        port,
		LLMProvider: provider,
		LLMModel:    model,
		LLMAPIKey:   apiKey,
		LLMTimeout:  timeout,
	}
}
