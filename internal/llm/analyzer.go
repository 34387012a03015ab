package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Analyzer sends extracted CV text to the configured provider with the fixed
// instruction prompt and parses the response into an Extraction. One request
// per call, no internal retries; retry policy belongs to the caller.
type Analyzer struct {
	provider Provider
	schema   *jsonschema.Schema
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAnalyzer(provider Provider, timeout time.Duration, logger *zap.Logger) (*Analyzer, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileExtractionSchema()
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		provider: provider,
		schema:   schema,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (a *Analyzer) Analyze(ctx context.Context, cvText string) (*Extraction, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	response, err := a.provider.Generate(ctx, buildPrompt(cvText))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	a.logger.Debug("model call finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_chars", len(response)),
	)

	cleaned := stripCodeFences(response)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &MalformedResponseError{Raw: response, Err: err}
	}
	if err := a.schema.Validate(payload); err != nil {
		return nil, &MalformedResponseError{Raw: response, Err: err}
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(cleaned), &extraction); err != nil {
		return nil, &MalformedResponseError{Raw: response, Err: err}
	}
	return &extraction, nil
}

// stripCodeFences removes Markdown code-fence wrapping the model sometimes
// adds despite the JSON-only instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
