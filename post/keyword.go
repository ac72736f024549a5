package post

import (
	"context"
	"strings"

	"github.com/jatengdev/govrag/schema"
)

// keywordReranker is the local cross-check used when no external cross-encoder
// is deployed. It blends the retrieval similarity with lexical evidence:
// coverage of query terms in the document, early occurrence of the first
// term, and term frequency. Scores stay in [0,1].
type keywordReranker struct {
	baseWeight     float64
	coverageWeight float64
	positionBonus  float64
	frequencyStep  float64
}

func newKeywordReranker() *keywordReranker {
	return &keywordReranker{
		baseWeight:     0.6,
		coverageWeight: 0.3,
		positionBonus:  0.05,
		frequencyStep:  0.01,
	}
}

func (k *keywordReranker) Rerank(ctx context.Context, query string, in []schema.SearchResult, topN int) ([]schema.RankedResult, error) {
	terms := queryTerms(query)
	out := make([]schema.RankedResult, 0, len(in))
	for _, r := range in {
		out = append(out, schema.RankedResult{
			SearchResult: r,
			RerankScore:  k.score(terms, r),
		})
	}
	sortRanked(out)
	return truncate(out, topN), nil
}

func (k *keywordReranker) score(terms []string, r schema.SearchResult) float64 {
	score := k.baseWeight * r.Score
	if len(terms) == 0 {
		return clamp(score)
	}

	content := strings.ToLower(r.Document.Content)
	matched := 0
	totalOccurrences := 0
	for _, term := range terms {
		if n := strings.Count(content, term); n > 0 {
			matched++
			totalOccurrences += n
		}
	}
	score += k.coverageWeight * float64(matched) / float64(len(terms))

	// A hit in the opening of the chunk usually means the chunk is about the
	// topic rather than mentioning it in passing.
	if idx := strings.Index(content, terms[0]); idx >= 0 && idx < 100 {
		score += k.positionBonus
	}

	extra := totalOccurrences - matched
	if extra > 5 {
		extra = 5
	}
	if extra > 0 {
		score += k.frequencyStep * float64(extra)
	}
	return clamp(score)
}

// queryTerms drops short function words so coverage measures content terms.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "?!.,;:\"'()")
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
