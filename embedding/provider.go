package embedding

import (
	"context"
	"fmt"

	"github.com/jatengdev/govrag/config"
)

// Provider converts text into a dense vector.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewProvider builds an embedding provider from configuration. Any
// OpenAI-compatible endpoint is reachable through the openai provider by
// setting base_url.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
