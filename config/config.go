package config

// Config is the root configuration for the retrieval-and-grounding pipeline.
type Config struct {
	RAG        RAGConfig        `json:"rag" yaml:"rag"`
	Gate       GateConfig       `json:"gate" yaml:"gate"`
	Expansion  ExpansionConfig  `json:"expansion" yaml:"expansion"`
	Rerank     RerankConfig     `json:"rerank" yaml:"rerank"`
	Confidence ConfidenceConfig `json:"confidence" yaml:"confidence"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	VectorDB   VectorDBConfig   `json:"vectordb" yaml:"vectordb"`
	Prompt     PromptConfig     `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Splitter   SplitterConfig   `json:"splitter,omitempty" yaml:"splitter,omitempty"`
	Cache      CacheConfig      `json:"cache,omitempty" yaml:"cache,omitempty"`
	HTTP       HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// RAGConfig contains the retrieval stage tuning knobs.
type RAGConfig struct {
	// TopK is the desired final result count handed to the assembler.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// TopKPerVariant caps each variant's vector search; 0 derives it from TopK.
	TopKPerVariant int `json:"top_k_per_variant,omitempty" yaml:"top_k_per_variant,omitempty"`
	// MinSimilarity drops candidates below this cosine similarity before reranking.
	MinSimilarity float64 `json:"min_similarity,omitempty" yaml:"min_similarity,omitempty"`
	// CandidateCapMultiple bounds candidates passed to the reranker at
	// TopK * CandidateCapMultiple.
	CandidateCapMultiple int `json:"candidate_cap_multiple,omitempty" yaml:"candidate_cap_multiple,omitempty"`
	// MultiVariantPolicy: "tiebreak" (default) or "boost". With "boost",
	// MultiVariantBoost is added to the similarity of chunks matched by more
	// than one variant before reranking.
	MultiVariantPolicy string  `json:"multi_variant_policy,omitempty" yaml:"multi_variant_policy,omitempty"`
	MultiVariantBoost  float64 `json:"multi_variant_boost,omitempty" yaml:"multi_variant_boost,omitempty"`
}

// GateConfig drives the domain relevance gate. Word lists and thresholds are
// configuration so the gate can be retuned without code changes.
type GateConfig struct {
	// Keywords maps an in-domain term to its match weight.
	Keywords map[string]float64 `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	// IrrelevantPatterns are regular expressions that reject a query outright.
	IrrelevantPatterns []string `json:"irrelevant_patterns,omitempty" yaml:"irrelevant_patterns,omitempty"`
	// MatchThreshold is the minimum summed keyword weight for a lexical accept.
	MatchThreshold float64 `json:"match_threshold,omitempty" yaml:"match_threshold,omitempty"`
	// EmbeddingFallback enables the semantic check when lexical matching is
	// inconclusive. CanonicalQueries are embedded once and compared against
	// the query; EmbeddingThreshold is the minimum cosine similarity.
	EmbeddingFallback  bool     `json:"embedding_fallback,omitempty" yaml:"embedding_fallback,omitempty"`
	CanonicalQueries   []string `json:"canonical_queries,omitempty" yaml:"canonical_queries,omitempty"`
	EmbeddingThreshold float64  `json:"embedding_threshold,omitempty" yaml:"embedding_threshold,omitempty"`
}

// ExpansionRule widens recall for one trigger term. When the trigger occurs in
// the query (case-insensitive substring), one variant is produced per synonym
// (trigger replaced) and one per suffix (appended).
type ExpansionRule struct {
	Trigger  string   `json:"trigger" yaml:"trigger"`
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Suffixes []string `json:"suffixes,omitempty" yaml:"suffixes,omitempty"`
}

// ExpansionConfig drives the deterministic query expander.
type ExpansionConfig struct {
	Enable bool `json:"enable" yaml:"enable"`
	// MaxVariants bounds the expanded set, original query included.
	MaxVariants int             `json:"max_variants,omitempty" yaml:"max_variants,omitempty"`
	Rules       []ExpansionRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// RerankConfig selects and tunes the reranker.
type RerankConfig struct {
	Enable bool `json:"enable" yaml:"enable"`
	// Provider: "keyword" (local, default) or "model" (external cross-encoder).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	TopN     int    `json:"top_n,omitempty" yaml:"top_n,omitempty"`
	// Floor excludes ranked results below this score from attributions.
	Floor float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// ConfidenceConfig sets the tier boundaries applied to the top rerank score.
type ConfidenceConfig struct {
	High   float64 `json:"high,omitempty" yaml:"high,omitempty"`
	Medium float64 `json:"medium,omitempty" yaml:"medium,omitempty"`
	// MaxAttributions truncates the envelope's source list.
	MaxAttributions int `json:"max_attributions,omitempty" yaml:"max_attributions,omitempty"`
}

// EmbeddingConfig defines the embedding model client.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // "openai" or any OpenAI-compatible endpoint
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	TimeoutMs  int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// LLMConfig defines the completion model client.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	TimeoutMs   int     `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// VectorDBConfig selects the vector store backend. Exactly two providers are
// supported: "memory" (file-pair persisted in-process scan) and "pgvector".
type VectorDBConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	// Namespace is the dataset partition, e.g. "dev" or "prod".
	Namespace string `json:"namespace" yaml:"namespace"`
	// DataDir holds the memory backend's file pairs.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	// DSN is the pgvector backend's connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// TablePrefix names pgvector tables as <prefix>_<namespace>.
	TablePrefix string `json:"table_prefix,omitempty" yaml:"table_prefix,omitempty"`
}

// PromptConfig bounds the assembled prompt.
type PromptConfig struct {
	// SystemInstruction overrides the built-in domain instruction.
	SystemInstruction string `json:"system_instruction,omitempty" yaml:"system_instruction,omitempty"`
	// MaxExcerptChars bounds each rendered excerpt.
	MaxExcerptChars int `json:"max_excerpt_chars,omitempty" yaml:"max_excerpt_chars,omitempty"`
	// MaxContextTokens bounds the total context section.
	MaxContextTokens int `json:"max_context_tokens,omitempty" yaml:"max_context_tokens,omitempty"`
}

// SplitterConfig defines document splitter settings for the ingestion surface.
type SplitterConfig struct {
	ChunkSize    int `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap int `json:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
}

// CacheConfig controls the optional answer cache. Keys include the namespace,
// so switching namespaces never serves stale cross-namespace answers.
type CacheConfig struct {
	Enable     bool `json:"enable,omitempty" yaml:"enable,omitempty"`
	MaxEntries int  `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig defines common options for outbound HTTP calls.
type HTTPClientConfig struct {
	TimeoutMs    int `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry        int `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs int `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
}
