package llm

import (
	"fmt"
	"strings"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
	"github.com/jatengdev/govrag/textsplitter"
)

// defaultSystemInstruction keeps the assistant grounded in the retrieved
// government-services context and honest when the context has nothing.
const defaultSystemInstruction = `Anda adalah asisten resmi DPMPTSP Provinsi Jawa Tengah.
Jawab pertanyaan HANYA berdasarkan konteks dokumen yang diberikan.
Jika konteks tidak memuat informasinya, katakan dengan jelas bahwa informasi tersebut tidak tersedia dalam dokumen dan sarankan menghubungi DPMPTSP Jawa Tengah secara langsung.
Jangan mengarang prosedur, persyaratan, biaya, atau tanggal.
Jawab dalam bahasa yang sama dengan pertanyaan (Bahasa Indonesia atau Inggris).`

// noContextGuidance replaces the context block when retrieval found nothing
// usable, so the model states the gap instead of improvising.
const noContextGuidance = `Tidak ada dokumen yang relevan untuk pertanyaan ini.
Nyatakan bahwa informasi tidak ditemukan dalam dokumen resmi dan arahkan penanya ke kanal resmi DPMPTSP Jawa Tengah.`

// PromptBuilder assembles the grounded prompt from ranked excerpts within a
// bounded budget.
type PromptBuilder struct {
	system           string
	maxExcerptChars  int
	maxContextTokens int
}

// NewPromptBuilder builds the assembler from configuration.
func NewPromptBuilder(cfg config.PromptConfig) *PromptBuilder {
	system := cfg.SystemInstruction
	if system == "" {
		system = defaultSystemInstruction
	}
	maxChars := cfg.MaxExcerptChars
	if maxChars <= 0 {
		maxChars = 1200
	}
	maxTokens := cfg.MaxContextTokens
	if maxTokens <= 0 {
		maxTokens = 1600
	}
	return &PromptBuilder{
		system:           system,
		maxExcerptChars:  maxChars,
		maxContextTokens: maxTokens,
	}
}

// System returns the system instruction for the completion call.
func (b *PromptBuilder) System() string { return b.system }

// Build renders the user prompt: prior turns, numbered source excerpts in
// rank order, then the question. Excerpts stop once the token budget is
// spent; the leading excerpt is always included even if it alone exceeds
// the budget.
func (b *PromptBuilder) Build(question string, history []schema.Turn, results []schema.RankedResult) string {
	var sb strings.Builder

	if len(history) > 0 {
		sb.WriteString("Riwayat percakapan:\n")
		for _, t := range history {
			role := "Penanya"
			if t.Role == "assistant" {
				role = "Asisten"
			}
			fmt.Fprintf(&sb, "%s: %s\n", role, strings.TrimSpace(t.Content))
		}
		sb.WriteString("\n")
	}

	if len(results) == 0 {
		sb.WriteString(noContextGuidance)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("Konteks dokumen:\n\n")
		used := 0
		for i, r := range results {
			excerpt := strings.TrimSpace(r.Document.Content)
			if len(excerpt) > b.maxExcerptChars {
				excerpt = excerpt[:b.maxExcerptChars] + "..."
			}
			block := fmt.Sprintf("[Sumber %d: %s]\n%s\n\n", i+1, sourceLabel(r), excerpt)
			cost := textsplitter.EstimateTokens(block)
			if i > 0 && used+cost > b.maxContextTokens {
				break
			}
			sb.WriteString(block)
			used += cost
		}
	}

	sb.WriteString("Pertanyaan: ")
	sb.WriteString(strings.TrimSpace(question))
	return sb.String()
}

func sourceLabel(r schema.RankedResult) string {
	if src := r.Document.Source(); src != "unknown" {
		return src
	}
	return r.Document.ID
}
