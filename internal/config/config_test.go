package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, name := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT_SECONDS", "PORT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY", "DATABASE_URL",
	} {
		t.Setenv(name, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLMModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadConfig_KeyFollowsProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GROQ_API_KEY", "q-key")

	t.Setenv("LLM_PROVIDER", "groq")
	cfg := LoadConfig()
	assert.Equal(t, "groq", cfg.LLMProvider)
	assert.Equal(t, "q-key", cfg.LLMAPIKey)

	t.Setenv("LLM_PROVIDER", "gemini")
	cfg = LoadConfig()
	assert.Equal(t, "g-key", cfg.LLMAPIKey)
}

func TestLoadConfig_Timeout(t *testing.T) {
	t.Setenv("LLM_TIMEOUT_SECONDS", "90")
	assert.Equal(t, 90*time.Second, LoadConfig().LLMTimeout)

	// Garbage and non-positive values fall back to the default.
	t.Setenv("LLM_TIMEOUT_SECONDS", "soon")
	assert.Equal(t, 30*time.Second, LoadConfig().LLMTimeout)

	t.Setenv("LLM_TIMEOUT_SECONDS", "0")
	assert.Equal(t, 30*time.Second, LoadConfig().LLMTimeout)
}
