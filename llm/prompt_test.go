package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

func ranked(id, content string, score float64) schema.RankedResult {
	return schema.RankedResult{
		SearchResult: schema.SearchResult{
			Document: schema.Document{
				ID:       id,
				Content:  content,
				Metadata: map[string]interface{}{"source": id + ".pdf"},
			},
			Score: score,
		},
		RerankScore: score,
	}
}

func TestBuildOrdersExcerptsByRank(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{})
	prompt := b.Build("syarat izin usaha?", nil, []schema.RankedResult{
		ranked("a", "Persyaratan izin usaha.", 0.9),
		ranked("b", "Prosedur pendaftaran.", 0.7),
	})
	first := strings.Index(prompt, "[Sumber 1: a.pdf]")
	second := strings.Index(prompt, "[Sumber 2: b.pdf]")
	assert.True(t, first >= 0 && second > first)
	assert.Contains(t, prompt, "Pertanyaan: syarat izin usaha?")
}

func TestBuildTruncatesLongExcerpts(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{MaxExcerptChars: 50})
	long := strings.Repeat("x", 200)
	prompt := b.Build("q", nil, []schema.RankedResult{ranked("a", long, 0.9)})
	assert.Contains(t, prompt, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 51))
}

func TestBuildRespectsTokenBudget(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{MaxContextTokens: 30})
	big := strings.Repeat("informasi layanan perizinan ", 30)
	prompt := b.Build("q", nil, []schema.RankedResult{
		ranked("a", big, 0.9),
		ranked("b", big, 0.8),
		ranked("c", big, 0.7),
	})
	// The top excerpt always survives; later ones are cut by the budget.
	assert.Contains(t, prompt, "[Sumber 1: a.pdf]")
	assert.NotContains(t, prompt, "[Sumber 3: c.pdf]")
}

func TestBuildEmptyResultsAddsGuidance(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{})
	prompt := b.Build("q", nil, nil)
	assert.Contains(t, prompt, "tidak ditemukan")
	assert.NotContains(t, prompt, "Konteks dokumen")
}

func TestBuildIncludesHistory(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{})
	prompt := b.Build("lalu biayanya?", []schema.Turn{
		{Role: "user", Content: "Bagaimana cara mengurus izin usaha?"},
		{Role: "assistant", Content: "Melalui OSS."},
	}, nil)
	assert.Contains(t, prompt, "Riwayat percakapan:")
	assert.Contains(t, prompt, "Penanya: Bagaimana cara mengurus izin usaha?")
	assert.Contains(t, prompt, "Asisten: Melalui OSS.")
}

func TestCustomSystemInstruction(t *testing.T) {
	b := NewPromptBuilder(config.PromptConfig{SystemInstruction: "custom"})
	assert.Equal(t, "custom", b.System())
}
