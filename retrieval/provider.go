package retrieval

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jatengdev/govrag/common/logger"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/metrics"
	"github.com/jatengdev/govrag/retriever"
	"github.com/jatengdev/govrag/schema"
)

// Provider runs the retrieval stage: each query variant is searched in
// parallel and the hits are merged into one deduplicated candidate set.
type Provider interface {
	Retrieve(ctx context.Context, variants []string, m *metrics.QueryMetrics) ([]schema.SearchResult, error)
}

type defaultProvider struct {
	retriever retriever.Retriever
	cfg       config.RAGConfig
}

// NewProvider builds the retrieval stage around one retriever.
func NewProvider(r retriever.Retriever, cfg config.RAGConfig) Provider {
	return &defaultProvider{retriever: r, cfg: cfg}
}

// Retrieve searches all variants concurrently and merges by document ID.
// A document hit by several variants keeps its highest similarity; under the
// boost policy it additionally gains cfg.MultiVariantBoost per extra variant,
// capped at 1.0. The merged set is filtered by MinSimilarity, ordered by
// score descending with ID ascending as the tie break, and capped at
// TopK * CandidateCapMultiple.
//
// Any variant search error fails the whole stage: a partially searched set
// would silently narrow recall.
func (p *defaultProvider) Retrieve(ctx context.Context, variants []string, m *metrics.QueryMetrics) ([]schema.SearchResult, error) {
	perVariant := p.cfg.TopKPerVariant
	if perVariant <= 0 {
		perVariant = p.cfg.TopK
	}
	opts := schema.SearchOptions{TopK: perVariant, Threshold: p.cfg.MinSimilarity}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		merged   = make(map[string]*schema.SearchResult)
	)

	for _, variant := range variants {
		wg.Add(1)
		go func(variant string) {
			defer wg.Done()

			start := time.Now()
			results, err := p.retriever.Search(ctx, variant, opts)
			latency := time.Since(start).Milliseconds()

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.Warnf("retrieval: variant %q failed: %v", variant, err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}

			var top float64
			if len(results) > 0 {
				top = results[0].Score
			}
			if m != nil {
				m.AddVariantStats(variant, metrics.VariantStats{
					LatencyMs:   latency,
					ResultCount: len(results),
					TopScore:    top,
				})
			}

			for i := range results {
				r := results[i]
				if existing, ok := merged[r.Document.ID]; ok {
					existing.VariantHits++
					if r.Score > existing.Score {
						existing.Score = r.Score
						existing.Variant = variant
					}
				} else {
					r.Variant = variant
					r.VariantHits = 1
					merged[r.Document.ID] = &r
				}
			}
		}(variant)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]schema.SearchResult, 0, len(merged))
	for _, r := range merged {
		if p.cfg.MultiVariantPolicy == "boost" && r.VariantHits > 1 {
			r.Score += float64(r.VariantHits-1) * p.cfg.MultiVariantBoost
			if r.Score > 1.0 {
				r.Score = 1.0
			}
		}
		if r.Score < p.cfg.MinSimilarity {
			continue
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Document.ID < out[j].Document.ID
	})

	if m != nil {
		m.MergedCount = len(out)
	}

	limit := p.cfg.TopK * p.cfg.CandidateCapMultiple
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
