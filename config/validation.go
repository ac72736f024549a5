package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass so operators fix
// the whole file at once instead of replaying errors one by one.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the whole configuration and returns a ValidationErrors when
// anything is off.
func (c *Config) Validate() error {
	var errs ValidationErrors

	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.RAG.TopK <= 0 {
		add("rag.top_k", "must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.TopKPerVariant < 0 {
		add("rag.top_k_per_variant", "must not be negative, got %d", c.RAG.TopKPerVariant)
	}
	if c.RAG.MinSimilarity < 0 || c.RAG.MinSimilarity > 1 {
		add("rag.min_similarity", "must be in [0,1], got %v", c.RAG.MinSimilarity)
	}
	if c.RAG.CandidateCapMultiple <= 0 {
		add("rag.candidate_cap_multiple", "must be positive, got %d", c.RAG.CandidateCapMultiple)
	}
	switch c.RAG.MultiVariantPolicy {
	case "", "tiebreak":
	case "boost":
		if c.RAG.MultiVariantBoost < 0 {
			add("rag.multi_variant_boost", "must not be negative, got %v", c.RAG.MultiVariantBoost)
		}
	default:
		add("rag.multi_variant_policy", "unknown policy %q, want tiebreak or boost", c.RAG.MultiVariantPolicy)
	}

	if len(c.Gate.Keywords) == 0 && !c.Gate.EmbeddingFallback {
		add("gate.keywords", "must not be empty when the embedding fallback is disabled")
	}
	for term, weight := range c.Gate.Keywords {
		if weight <= 0 {
			add("gate.keywords", "weight for %q must be positive, got %v", term, weight)
		}
	}
	for i, p := range c.Gate.IrrelevantPatterns {
		if _, err := regexp.Compile(p); err != nil {
			add(fmt.Sprintf("gate.irrelevant_patterns[%d]", i), "invalid pattern %q: %v", p, err)
		}
	}
	if c.Gate.MatchThreshold <= 0 {
		add("gate.match_threshold", "must be positive, got %v", c.Gate.MatchThreshold)
	}
	if c.Gate.EmbeddingFallback {
		if len(c.Gate.CanonicalQueries) == 0 {
			add("gate.canonical_queries", "must not be empty when the embedding fallback is enabled")
		}
		if c.Gate.EmbeddingThreshold <= 0 || c.Gate.EmbeddingThreshold > 1 {
			add("gate.embedding_threshold", "must be in (0,1], got %v", c.Gate.EmbeddingThreshold)
		}
	}

	if c.Expansion.Enable {
		if c.Expansion.MaxVariants <= 0 {
			add("expansion.max_variants", "must be positive, got %d", c.Expansion.MaxVariants)
		}
		for i, rule := range c.Expansion.Rules {
			if strings.TrimSpace(rule.Trigger) == "" {
				add(fmt.Sprintf("expansion.rules[%d].trigger", i), "must not be empty")
			}
			if len(rule.Synonyms) == 0 && len(rule.Suffixes) == 0 {
				add(fmt.Sprintf("expansion.rules[%d]", i), "needs at least one synonym or suffix")
			}
		}
	}

	if c.Rerank.Enable {
		switch c.Rerank.Provider {
		case "", "keyword":
		case "model":
			if c.Rerank.Endpoint == "" {
				add("rerank.endpoint", "required for the model provider")
			}
		default:
			add("rerank.provider", "unknown provider %q, want keyword or model", c.Rerank.Provider)
		}
		if c.Rerank.TopN <= 0 {
			add("rerank.top_n", "must be positive, got %d", c.Rerank.TopN)
		}
		if c.Rerank.Floor < 0 || c.Rerank.Floor > 1 {
			add("rerank.floor", "must be in [0,1], got %v", c.Rerank.Floor)
		}
	}

	if c.Confidence.High <= 0 || c.Confidence.High > 1 {
		add("confidence.high", "must be in (0,1], got %v", c.Confidence.High)
	}
	if c.Confidence.Medium <= 0 || c.Confidence.Medium > 1 {
		add("confidence.medium", "must be in (0,1], got %v", c.Confidence.Medium)
	}
	if c.Confidence.High <= c.Confidence.Medium {
		add("confidence", "high boundary %v must exceed medium boundary %v", c.Confidence.High, c.Confidence.Medium)
	}
	if c.Confidence.MaxAttributions <= 0 {
		add("confidence.max_attributions", "must be positive, got %d", c.Confidence.MaxAttributions)
	}

	if c.Embedding.Provider == "" {
		add("embedding.provider", "required")
	}
	if c.Embedding.Model == "" {
		add("embedding.model", "required")
	}
	if c.Embedding.Dimensions != 0 && (c.Embedding.Dimensions < 128 || c.Embedding.Dimensions > 4096) {
		add("embedding.dimensions", "must be in [128,4096] when set, got %d", c.Embedding.Dimensions)
	}

	if c.LLM.Provider == "" {
		add("llm.provider", "required")
	}
	if c.LLM.Model == "" {
		add("llm.model", "required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		add("llm.temperature", "must be in [0,2], got %v", c.LLM.Temperature)
	}

	switch c.VectorDB.Provider {
	case "memory":
		if c.VectorDB.DataDir == "" {
			add("vectordb.data_dir", "required for the memory provider")
		}
	case "pgvector":
		if c.VectorDB.DSN == "" {
			add("vectordb.dsn", "required for the pgvector provider")
		}
		if c.VectorDB.TablePrefix == "" {
			add("vectordb.table_prefix", "required for the pgvector provider")
		} else if !namespaceRe.MatchString(c.VectorDB.TablePrefix) {
			add("vectordb.table_prefix", "must match %s, got %q", namespaceRe.String(), c.VectorDB.TablePrefix)
		}
	case "":
		add("vectordb.provider", "required")
	default:
		add("vectordb.provider", "unknown provider %q, want memory or pgvector", c.VectorDB.Provider)
	}
	if c.VectorDB.Namespace == "" {
		add("vectordb.namespace", "required")
	} else if !namespaceRe.MatchString(c.VectorDB.Namespace) {
		add("vectordb.namespace", "must match %s, got %q", namespaceRe.String(), c.VectorDB.Namespace)
	}

	if c.Splitter.ChunkSize <= 0 {
		add("splitter.chunk_size", "must be positive, got %d", c.Splitter.ChunkSize)
	}
	if c.Splitter.ChunkOverlap < 0 || c.Splitter.ChunkOverlap >= c.Splitter.ChunkSize {
		add("splitter.chunk_overlap", "must be in [0,chunk_size), got %d", c.Splitter.ChunkOverlap)
	}

	if c.Cache.Enable {
		if c.Cache.MaxEntries <= 0 {
			add("cache.max_entries", "must be positive, got %d", c.Cache.MaxEntries)
		}
		if c.Cache.TTLSeconds <= 0 {
			add("cache.ttl_seconds", "must be positive, got %d", c.Cache.TTLSeconds)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Namespaces and table prefixes end up in file names and table names, so the
// charset is strict.
var namespaceRe = regexp.MustCompile(`^[a-z0-9_]+$`)
