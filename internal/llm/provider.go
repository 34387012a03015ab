package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	pkghttp "cv-parser/pkg/http"
)

// Provider issues a single generation request. The analyzer owns the prompt
// contract and the response handling; providers only move text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the configured provider. Gemini is the default; "openai"
// and "groq" share the OpenAI-compatible chat completions protocol and differ
// only in base URL.
func NewProvider(ctx context.Context, name, apiKey, model string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", name)
	}
	switch name {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey, model)
	case "openai":
		return NewOpenAIProvider("https://api.openai.com/v1", apiKey, model), nil
	case "groq":
		return NewOpenAIProvider("https://api.groq.com/openai/v1", apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *pkghttp.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  pkghttp.NewClient(2 * time.Minute),
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a CV parser. Return only valid JSON.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.1,
		"response_format": map[string]string{
			"type": "json_object",
		},
	}

	raw, status, err := p.client.PostJSON(ctx, p.baseURL+"/chat/completions", reqBody, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return "", eris.Wrap(err, "chat completions request")
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(raw, &result); jsonErr != nil {
		return "", eris.Wrapf(jsonErr, "decode chat completions response (status %d)", status)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("provider error: %s", result.Error.Message)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", status)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
