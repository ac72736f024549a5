package retriever

import (
	"context"

	"github.com/jatengdev/govrag/embedding"
	"github.com/jatengdev/govrag/schema"
	"github.com/jatengdev/govrag/vectordb"
)

// VectorRetriever embeds the query and searches the vector store.
type VectorRetriever struct {
	embedder embedding.Provider
	store    vectordb.VectorStoreProvider
}

// NewVectorRetriever wires an embedder to a store.
func NewVectorRetriever(embedder embedding.Provider, store vectordb.VectorStoreProvider) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, store: store}
}

// Search embeds the query and returns the store's nearest documents.
// Embedding failures propagate; the caller decides whether to fail the
// request or degrade.
func (r *VectorRetriever) Search(ctx context.Context, query string, opts schema.SearchOptions) ([]schema.SearchResult, error) {
	vec, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.store.SearchDocs(ctx, vec, opts)
}
