package govrag

import (
	"strings"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

const previewChars = 160

// composeAnswer builds the response envelope from the generated text and the
// ranked evidence. The confidence tier follows the top rerank score; an empty
// evidence set is never anything but ConfidenceNone.
func composeAnswer(cfg config.ConfidenceConfig, question, text string, ranked []schema.RankedResult) *schema.Answer {
	ans := &schema.Answer{
		Question: question,
		Text:     text,
		Relevant: true,
		Reason:   schema.ReasonOK,
	}
	if len(ranked) == 0 {
		ans.Confidence = schema.ConfidenceNone
		ans.Reason = schema.ReasonNoResults
		ans.Attributions = []schema.Attribution{}
		return ans
	}

	top := ranked[0].RerankScore
	switch {
	case top >= cfg.High:
		ans.Confidence = schema.ConfidenceHigh
	case top >= cfg.Medium:
		ans.Confidence = schema.ConfidenceMedium
	default:
		ans.Confidence = schema.ConfidenceLow
	}

	limit := cfg.MaxAttributions
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	ans.Attributions = make([]schema.Attribution, 0, limit)
	for _, r := range ranked[:limit] {
		ans.Attributions = append(ans.Attributions, schema.Attribution{
			ChunkID:     r.Document.ID,
			Source:      r.Document.Source(),
			Score:       r.Score,
			RerankScore: r.RerankScore,
			Preview:     preview(r.Document.Content),
		})
	}
	return ans
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= previewChars {
		return content
	}
	cut := content[:previewChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
