package schema

import "time"

// Document is an immutable retrievable chunk: text body, open metadata and a
// precomputed embedding. Documents are created at ingestion time and never
// mutated afterwards.
type Document struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Vector    []float32              `json:"vector,omitempty"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
}

// Source returns the source document label from metadata, or a fallback.
func (d Document) Source() string {
	if d.Metadata != nil {
		if s, ok := d.Metadata["source"].(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

// SearchOptions controls a single vector store search.
type SearchOptions struct {
	TopK      int
	Threshold float64
}

// SearchResult is a transient candidate produced during retrieval: a document
// paired with its raw cosine similarity. Variant records which query variant
// produced the best score; VariantHits counts how many variants matched the
// same chunk after merging.
type SearchResult struct {
	Document    Document `json:"document"`
	Score       float64  `json:"score"`
	Variant     string   `json:"variant,omitempty"`
	VariantHits int      `json:"variant_hits,omitempty"`
}

// RankedResult is a candidate after cross-encoder reranking. Score on the
// embedded SearchResult keeps the original retrieval similarity so it can
// break ties between equal rerank scores.
type RankedResult struct {
	SearchResult
	RerankScore float64 `json:"rerank_score"`
}
