package govrag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

func rankedDoc(id string, score, rerankScore float64) schema.RankedResult {
	return schema.RankedResult{
		SearchResult: schema.SearchResult{
			Document: schema.Document{
				ID:       id,
				Content:  "Isi dokumen " + id,
				Metadata: map[string]interface{}{"source": id + ".pdf"},
			},
			Score: score,
		},
		RerankScore: rerankScore,
	}
}

func confCfg() config.ConfidenceConfig {
	return config.ConfidenceConfig{High: 0.7, Medium: 0.5, MaxAttributions: 2}
}

func TestComposeConfidenceTiers(t *testing.T) {
	cases := []struct {
		top  float64
		want schema.Confidence
	}{
		{0.9, schema.ConfidenceHigh},
		{0.7, schema.ConfidenceHigh},
		{0.69, schema.ConfidenceMedium},
		{0.5, schema.ConfidenceMedium},
		{0.49, schema.ConfidenceLow},
		{0.1, schema.ConfidenceLow},
	}
	for _, tc := range cases {
		ans := composeAnswer(confCfg(), "q", "text", []schema.RankedResult{rankedDoc("a", tc.top, tc.top)})
		assert.Equalf(t, tc.want, ans.Confidence, "top score %v", tc.top)
		assert.Equal(t, schema.ReasonOK, ans.Reason)
	}
}

func TestComposeEmptyResultsNeverConfident(t *testing.T) {
	ans := composeAnswer(confCfg(), "q", "text", nil)
	assert.Equal(t, schema.ConfidenceNone, ans.Confidence)
	assert.Equal(t, schema.ReasonNoResults, ans.Reason)
	assert.NotNil(t, ans.Attributions)
	assert.Empty(t, ans.Attributions)
}

func TestComposeCapsAttributions(t *testing.T) {
	ans := composeAnswer(confCfg(), "q", "text", []schema.RankedResult{
		rankedDoc("a", 0.9, 0.9),
		rankedDoc("b", 0.8, 0.8),
		rankedDoc("c", 0.7, 0.7),
	})
	require.Len(t, ans.Attributions, 2)
	assert.Equal(t, "a", ans.Attributions[0].ChunkID)
	assert.Equal(t, "a.pdf", ans.Attributions[0].Source)
	assert.Equal(t, 0.9, ans.Attributions[0].RerankScore)
}

func TestPreviewTruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("persyaratan ", 30)
	p := preview(long)
	assert.LessOrEqual(t, len(p), previewChars+3)
	assert.True(t, strings.HasSuffix(p, "..."))
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(p, "..."), " "))
}

func TestPreviewCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", preview("a\n\n b\tc"))
}
