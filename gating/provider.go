package gating

import (
	"context"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/jatengdev/govrag/common/logger"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/embedding"
)

// Provider decides whether a query belongs to the government-services domain
// before any retrieval spend.
type Provider interface {
	Classify(ctx context.Context, query string) Decision
}

// Decision is the gate's verdict for one query.
type Decision struct {
	Relevant   bool
	Reason     string
	Confidence float64
}

// Gate reasons, recorded in metrics and surfaced in the response envelope.
const (
	ReasonIrrelevantPattern   = "irrelevant_pattern"
	ReasonKeywordMatch        = "keyword_match"
	ReasonKeywordBelowGate    = "keyword_below_gate"
	ReasonEmbeddingMatch      = "embedding_match"
	ReasonEmbeddingBelowGate  = "embedding_below_gate"
	ReasonFallbackUnavailable = "fallback_unavailable"
)

type keywordGate struct {
	keywords  map[string]float64
	patterns  []*regexp.Regexp
	threshold float64
	fallback  bool
	embThresh float64
	canonical []string
	embedder  embedding.Provider

	mu          sync.Mutex
	canonicalVs [][]float32
}

// NewProvider builds the gate. The embedder is only used when the embedding
// fallback is enabled; canonical query vectors are computed lazily on the
// first inconclusive query.
func NewProvider(cfg config.GateConfig, embedder embedding.Provider) (Provider, error) {
	patterns := make([]*regexp.Regexp, 0, len(cfg.IrrelevantPatterns))
	for _, p := range cfg.IrrelevantPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}
	keywords := make(map[string]float64, len(cfg.Keywords))
	for term, w := range cfg.Keywords {
		keywords[strings.ToLower(term)] = w
	}
	return &keywordGate{
		keywords:  keywords,
		patterns:  patterns,
		threshold: cfg.MatchThreshold,
		fallback:  cfg.EmbeddingFallback,
		embThresh: cfg.EmbeddingThreshold,
		canonical: cfg.CanonicalQueries,
		embedder:  embedder,
	}, nil
}

// Classify is deterministic for a given configuration: the same query always
// yields the same decision, embedding fallback aside.
func (g *keywordGate) Classify(ctx context.Context, query string) Decision {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, re := range g.patterns {
		if re.MatchString(q) {
			return Decision{Relevant: false, Reason: ReasonIrrelevantPattern}
		}
	}

	var score float64
	for term, weight := range g.keywords {
		if strings.Contains(q, term) {
			score += weight
		}
	}
	if score >= g.threshold {
		return Decision{Relevant: true, Reason: ReasonKeywordMatch, Confidence: score}
	}

	if !g.fallback || g.embedder == nil {
		return Decision{Relevant: false, Reason: ReasonKeywordBelowGate, Confidence: score}
	}
	return g.classifyByEmbedding(ctx, query, score)
}

// classifyByEmbedding compares the query against canonical in-domain queries.
// When the embedder is unreachable the gate fails open: rejecting on infra
// trouble would silently drop legitimate questions.
func (g *keywordGate) classifyByEmbedding(ctx context.Context, query string, keywordScore float64) Decision {
	canonicalVs := g.canonicalVectors(ctx)
	if len(canonicalVs) == 0 {
		return Decision{Relevant: true, Reason: ReasonFallbackUnavailable, Confidence: keywordScore}
	}

	qv, err := g.embedder.GetEmbedding(ctx, query)
	if err != nil {
		logger.Warnf("gate: embedding query failed: %v", err)
		return Decision{Relevant: true, Reason: ReasonFallbackUnavailable, Confidence: keywordScore}
	}

	var best float64
	for _, cv := range canonicalVs {
		if s := cosine(qv, cv); s > best {
			best = s
		}
	}
	if best >= g.embThresh {
		return Decision{Relevant: true, Reason: ReasonEmbeddingMatch, Confidence: best}
	}
	return Decision{Relevant: false, Reason: ReasonEmbeddingBelowGate, Confidence: best}
}

// canonicalVectors returns the cached canonical query embeddings, computing
// them on first use. A failed attempt is not cached: the next inconclusive
// query retries, so a transient embedder outage does not disable the
// fallback for the process lifetime.
func (g *keywordGate) canonicalVectors(ctx context.Context) [][]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.canonicalVs != nil {
		return g.canonicalVs
	}
	vs := make([][]float32, 0, len(g.canonical))
	for _, c := range g.canonical {
		v, err := g.embedder.GetEmbedding(ctx, c)
		if err != nil {
			logger.Warnf("gate: embedding canonical query failed: %v", err)
			return nil
		}
		vs = append(vs, v)
	}
	g.canonicalVs = vs
	return vs
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
