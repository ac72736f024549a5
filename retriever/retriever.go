package retriever

import (
	"context"

	"github.com/jatengdev/govrag/schema"
)

// Retriever finds documents relevant to one query string.
type Retriever interface {
	Search(ctx context.Context, query string, opts schema.SearchOptions) ([]schema.SearchResult, error)
}
