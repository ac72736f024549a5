package metrics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jatengdev/govrag/common/logger"
)

// QueryMetrics records the full timing and decision trail of one question
// through the pipeline. Emitted as a single JSON log line per query.
type QueryMetrics struct {
	QueryID   string    `json:"query_id"`
	Query     string    `json:"query"`
	Namespace string    `json:"namespace"`
	Timestamp time.Time `json:"timestamp"`

	// Gate stage
	GateRelevant   bool    `json:"gate_relevant"`
	GateReason     string  `json:"gate_reason,omitempty"`
	GateConfidence float64 `json:"gate_confidence,omitempty"`
	GateLatencyMs  int64   `json:"gate_latency_ms,omitempty"`

	// Expansion stage
	ExpansionEnabled bool     `json:"expansion_enabled"`
	Variants         []string `json:"variants,omitempty"`

	// Retrieval stage
	VariantStats       map[string]VariantStats `json:"variant_stats,omitempty"`
	TotalRetrieved     int                     `json:"total_retrieved"`
	MergedCount        int                     `json:"merged_count"`
	RetrievalLatencyMs int64                   `json:"retrieval_latency_ms,omitempty"`

	// Rerank stage
	RerankEnabled   bool   `json:"rerank_enabled"`
	RerankProvider  string `json:"rerank_provider,omitempty"`
	RerankCount     int    `json:"rerank_count,omitempty"`
	RerankLatencyMs int64  `json:"rerank_latency_ms,omitempty"`

	// Generation stage
	GenerateLatencyMs int64 `json:"generate_latency_ms,omitempty"`

	// Outcome
	Confidence     string `json:"confidence,omitempty"`
	Reason         string `json:"reason,omitempty"`
	CacheHit       bool   `json:"cache_hit"`
	TotalLatencyMs int64  `json:"total_latency_ms"`
	Success        bool   `json:"success"`
	ErrorMsg       string `json:"error_msg,omitempty"`
}

// VariantStats is the per-variant search outcome.
type VariantStats struct {
	LatencyMs   int64   `json:"latency_ms"`
	ResultCount int     `json:"result_count"`
	TopScore    float64 `json:"top_score"`
}

// NewQueryMetrics starts a metrics record for one question.
func NewQueryMetrics(query, namespace string) *QueryMetrics {
	return &QueryMetrics{
		QueryID:      uuid.NewString(),
		Query:        query,
		Namespace:    namespace,
		Timestamp:    time.Now().UTC(),
		VariantStats: make(map[string]VariantStats),
	}
}

// AddVariantStats records one variant's search outcome.
func (m *QueryMetrics) AddVariantStats(variant string, stats VariantStats) {
	if m.VariantStats == nil {
		m.VariantStats = make(map[string]VariantStats)
	}
	m.VariantStats[variant] = stats
	m.TotalRetrieved += stats.ResultCount
}

// LogJSON emits the record as one structured log line.
func (m *QueryMetrics) LogJSON() {
	if data, err := json.Marshal(m); err == nil {
		logger.Infof("[QUERY_METRICS] %s", string(data))
	}
}
