package post

import (
	"context"
	"fmt"
	"sort"

	"github.com/jatengdev/govrag/common/httpx"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

// Reranker rescores retrieval candidates against the original question and
// returns them in rerank order. Implementations must not fail the request
// when scoring is impossible: they pass candidates through with their
// retrieval score instead.
type Reranker interface {
	Rerank(ctx context.Context, query string, in []schema.SearchResult, topN int) ([]schema.RankedResult, error)
}

// NewReranker builds the configured reranker. When reranking is disabled a
// passthrough is returned so the pipeline shape stays uniform.
func NewReranker(cfg config.RerankConfig, client *httpx.Client) (Reranker, error) {
	if !cfg.Enable {
		return &passthroughReranker{}, nil
	}
	switch cfg.Provider {
	case "", "keyword":
		return newKeywordReranker(), nil
	case "model":
		return newModelReranker(cfg, client), nil
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", cfg.Provider)
	}
}

// passthroughReranker keeps retrieval order and reuses the similarity as the
// rerank score.
type passthroughReranker struct{}

func (p *passthroughReranker) Rerank(ctx context.Context, query string, in []schema.SearchResult, topN int) ([]schema.RankedResult, error) {
	out := make([]schema.RankedResult, 0, len(in))
	for _, r := range in {
		out = append(out, schema.RankedResult{SearchResult: r, RerankScore: r.Score})
	}
	sortRanked(out)
	return truncate(out, topN), nil
}

// sortRanked orders by rerank score descending, then retrieval score
// descending, then ID ascending. The full chain keeps output deterministic
// when scores collide.
func sortRanked(out []schema.RankedResult) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RerankScore != out[j].RerankScore {
			return out[i].RerankScore > out[j].RerankScore
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Document.ID < out[j].Document.ID
	})
}

func truncate(out []schema.RankedResult, topN int) []schema.RankedResult {
	if topN > 0 && len(out) > topN {
		return out[:topN]
	}
	return out
}

// ApplyFloor drops ranked results whose rerank score is below the floor.
// The input is already in rerank order, so this is a prefix scan.
func ApplyFloor(in []schema.RankedResult, floor float64) []schema.RankedResult {
	out := make([]schema.RankedResult, 0, len(in))
	for _, r := range in {
		if r.RerankScore >= floor {
			out = append(out, r)
		}
	}
	return out
}
