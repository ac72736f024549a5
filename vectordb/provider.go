package vectordb

import (
	"context"
	"fmt"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

// VectorStoreProvider is the storage abstraction the retriever searches.
// Implementations partition data by namespace; the provider instance is bound
// to one namespace at construction.
type VectorStoreProvider interface {
	// SearchDocs returns documents by descending similarity to the query
	// vector. Results below opts.Threshold are excluded; ties break on
	// ascending document ID so repeated searches return identical order.
	// An empty namespace yields an empty slice, not an error.
	SearchDocs(ctx context.Context, vector []float32, opts schema.SearchOptions) ([]schema.SearchResult, error)

	// AddDocs upserts documents with their vectors.
	AddDocs(ctx context.Context, docs []schema.Document) error

	// ListDocs returns up to limit documents ordered by ID, without vectors.
	ListDocs(ctx context.Context, limit int) ([]schema.Document, error)

	// DeleteDoc removes one document. Deleting an unknown ID is not an error.
	DeleteDoc(ctx context.Context, id string) error

	// Count returns the number of documents in the namespace.
	Count(ctx context.Context) (int, error)

	// Dimension reports the embedding width of the namespace, 0 while empty.
	Dimension(ctx context.Context) (int, error)

	// Namespace reports the partition this provider is bound to.
	Namespace() string

	// Close releases the backend connection or flushes state.
	Close() error
}

// NewVectorStoreProvider builds the configured backend.
func NewVectorStoreProvider(ctx context.Context, cfg config.VectorDBConfig) (VectorStoreProvider, error) {
	switch cfg.Provider {
	case "memory":
		return newMemoryStore(cfg)
	case "pgvector":
		return newPGVectorStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
