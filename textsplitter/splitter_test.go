package textsplitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s := New(200, 20)
	chunks := s.Split("Prosedur pengajuan izin usaha di Jawa Tengah.")
	assert.Len(t, chunks, 1)
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := New(100, 10)
	text := strings.Repeat("Persyaratan pendaftaran meliputi dokumen identitas dan akta pendirian. ", 20)
	chunks := s.Split(text)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		// Overlap can push a chunk slightly past the target.
		assert.LessOrEqual(t, len(c), 100+10+1)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := New(60, 20)
	text := strings.Repeat("kata ", 60)
	chunks := s.Split(text)
	assert.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.True(t, strings.HasPrefix(chunks[i], "kata"))
	}
}

func TestSplitEmpty(t *testing.T) {
	s := New(100, 10)
	assert.Nil(t, s.Split("   "))
}

func TestEstimateTokensNonZero(t *testing.T) {
	assert.Greater(t, EstimateTokens("Dinas Penanaman Modal dan Pelayanan Terpadu Satu Pintu"), 0)
	assert.Equal(t, 0, EstimateTokens(""))
}
