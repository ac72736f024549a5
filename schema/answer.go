package schema

// Confidence is a coarse summary of answer groundedness derived from the top
// reranked score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Reason codes distinguish envelopes that carry no attributions.
const (
	ReasonOutOfScope = "out_of_scope"
	ReasonNoResults  = "no_results"
	ReasonOK         = "ok"
)

// Attribution points the caller at one grounding chunk.
type Attribution struct {
	ChunkID     string  `json:"chunk_id"`
	Source      string  `json:"source"`
	Score       float64 `json:"score"`
	RerankScore float64 `json:"rerank_score,omitempty"`
	Preview     string  `json:"preview"`
}

// Timings carries per-stage elapsed milliseconds for observability.
type Timings struct {
	GateMs     int64 `json:"gate_ms"`
	RetrieveMs int64 `json:"retrieve_ms,omitempty"`
	RerankMs   int64 `json:"rerank_ms,omitempty"`
	GenerateMs int64 `json:"generate_ms,omitempty"`
	TotalMs    int64 `json:"total_ms"`
}

// Answer is the response envelope, the sole externally observable output of
// the pipeline. Its shape is identical for both vector store backends.
type Answer struct {
	Question     string        `json:"question"`
	Text         string        `json:"answer"`
	Attributions []Attribution `json:"sources"`
	Confidence   Confidence    `json:"confidence"`
	Relevant     bool          `json:"domain_relevant"`
	Reason       string        `json:"reason"`
	Expanded     bool          `json:"query_expanded"`
	Reranked     bool          `json:"reranked"`
	CacheHit     bool          `json:"cache_hit,omitempty"`
	Timings      Timings       `json:"timings"`
}
