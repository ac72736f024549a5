package llm

import (
	"context"
	"fmt"

	"github.com/jatengdev/govrag/config"
)

// Provider generates a completion from an assembled prompt.
type Provider interface {
	GenerateCompletion(ctx context.Context, system, prompt string) (string, error)
}

// NewProvider builds a completion provider from configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
