package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Service wraps the hosted generation endpoint. One instance is constructed
// at startup and shared read-only by every page handler.
type Service struct {
	llm   llms.Model
	model string
}

// New connects to the Gemini API. The key comes from configuration; an empty
// key is refused here so a misconfigured process never reaches serving.
func New(ctx context.Context, apiKey, model string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generation service API key is required")
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}
	return &Service{llm: client, model: model}, nil
}

// Model reports the configured model identifier.
func (s *Service) Model() string {
	return s.model
}

// Complete sends one prompt and returns the raw textual completion. A single
// synchronous call per invocation: no retry, no timeout, no streaming. Any
// transport, auth or service failure is returned as an error rather than
// surfacing past this boundary.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}
	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	return strings.TrimSpace(completion), nil
}
