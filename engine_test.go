package govrag

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatengdev/govrag/cache"
	"github.com/jatengdev/govrag/common/logger"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/expand"
	"github.com/jatengdev/govrag/gating"
	"github.com/jatengdev/govrag/llm"
	"github.com/jatengdev/govrag/post"
	"github.com/jatengdev/govrag/retrieval"
	"github.com/jatengdev/govrag/retriever"
	"github.com/jatengdev/govrag/schema"
	"github.com/jatengdev/govrag/textsplitter"
	"github.com/jatengdev/govrag/vectordb"
)

func TestMain(m *testing.M) {
	logger.UseNop()
	os.Exit(m.Run())
}

// fakeEmbedder returns fixed vectors per text and a default otherwise.
type fakeEmbedder struct {
	vectors map[string][]float32
	def     []float32
	err     error
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.def, nil
}

// fakeGenerator records prompts and returns a canned answer.
type fakeGenerator struct {
	calls   int
	lastSys string
	lastMsg string
}

func (f *fakeGenerator) GenerateCompletion(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.lastSys = system
	f.lastMsg = prompt
	return "Jawaban berdasarkan dokumen.", nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.VectorDB.DataDir = t.TempDir()
	cfg.VectorDB.Namespace = "test"
	cfg.Embedding.APIKey = "test"
	cfg.LLM.APIKey = "test"
	cfg.Cache.Enable = true
	return cfg
}

func testEngine(t *testing.T, cfg *config.Config, emb *fakeEmbedder, gen *fakeGenerator) *Engine {
	t.Helper()
	store, err := vectordb.NewVectorStoreProvider(context.Background(), cfg.VectorDB)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	gate, err := gating.NewProvider(cfg.Gate, emb)
	require.NoError(t, err)
	reranker, err := post.NewReranker(cfg.Rerank, nil)
	require.NoError(t, err)

	e := &Engine{
		cfg:       cfg,
		gate:      gate,
		expander:  expand.New(cfg.Expansion),
		retrieval: retrieval.NewProvider(retriever.NewVectorRetriever(emb, store), cfg.RAG),
		reranker:  reranker,
		prompts:   llm.NewPromptBuilder(cfg.Prompt),
		generator: gen,
		embedder:  emb,
		store:     store,
		splitter:  textsplitter.New(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap),
	}
	if cfg.Cache.Enable {
		e.answers = cache.NewLRU(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}
	return e
}

func seedDocs(t *testing.T, e *Engine, docs []schema.Document) {
	t.Helper()
	require.NoError(t, e.store.AddDocs(context.Background(), docs))
}

func TestAskAnswersGroundedQuestion(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{
		vectors: map[string][]float32{
			"Apa syarat izin usaha di Jawa Tengah?": {1, 0},
		},
		def: []float32{0.9, 0.1},
	}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	seedDocs(t, e, []schema.Document{
		{
			ID:       "chunk-1",
			Content:  "Syarat izin usaha meliputi KTP, NPWP, dan akta pendirian perusahaan.",
			Metadata: map[string]interface{}{"source": "perizinan.pdf"},
			Vector:   []float32{1, 0},
		},
		{
			ID:       "chunk-2",
			Content:  "Statistik penduduk Jawa Tengah tahun 2023.",
			Metadata: map[string]interface{}{"source": "penduduk.pdf"},
			Vector:   []float32{0.7, 0.7},
		},
	})

	ans, err := e.Ask(context.Background(), "Apa syarat izin usaha di Jawa Tengah?", nil)
	require.NoError(t, err)

	assert.True(t, ans.Relevant)
	assert.Equal(t, schema.ReasonOK, ans.Reason)
	assert.Equal(t, "Jawaban berdasarkan dokumen.", ans.Text)
	require.NotEmpty(t, ans.Attributions)
	assert.Equal(t, "chunk-1", ans.Attributions[0].ChunkID)
	assert.Equal(t, "perizinan.pdf", ans.Attributions[0].Source)
	assert.NotEqual(t, schema.ConfidenceNone, ans.Confidence)
	assert.True(t, ans.Expanded)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastMsg, "Syarat izin usaha meliputi")
}

func TestAskRejectsOutOfScopeWithoutRetrieval(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)

	ans, err := e.Ask(context.Background(), "Bagaimana cuaca besok di Semarang?", nil)
	require.NoError(t, err)

	assert.False(t, ans.Relevant)
	assert.Equal(t, schema.ReasonOutOfScope, ans.Reason)
	assert.Equal(t, schema.ConfidenceNone, ans.Confidence)
	assert.Empty(t, ans.Attributions)
	assert.Equal(t, outOfScopeText, ans.Text)
	assert.Equal(t, 0, gen.calls)
}

func TestAskNoResultsSkipsGeneration(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	// Empty store.

	ans, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)

	assert.True(t, ans.Relevant)
	assert.Equal(t, schema.ReasonNoResults, ans.Reason)
	assert.Equal(t, schema.ConfidenceNone, ans.Confidence)
	assert.Empty(t, ans.Attributions)
	assert.Equal(t, noResultsText, ans.Text)
	assert.Equal(t, 0, gen.calls)
	// The skipped stage leaves no timing in the envelope.
	assert.Zero(t, ans.Timings.GenerateMs)
}

func TestAskNeverHighConfidenceBelowMedium(t *testing.T) {
	cfg := testConfig(t)
	cfg.RAG.MinSimilarity = 0.1
	cfg.Rerank.Enable = false // rerank score equals similarity
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	seedDocs(t, e, []schema.Document{
		{ID: "weak", Content: "Dokumen samar.", Vector: []float32{0.45, 0.9}},
	})

	ans, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)
	assert.Equal(t, schema.ConfidenceLow, ans.Confidence)
}

func TestAskPropagatesEmbeddingFailure(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{err: fmt.Errorf("%w: timeout", schema.ErrEmbeddingUnavailable)}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)

	_, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.ErrorIs(t, err, schema.ErrEmbeddingUnavailable)
	assert.Equal(t, 0, gen.calls)
}

func TestAskCacheHit(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	seedDocs(t, e, []schema.Document{
		{ID: "chunk-1", Content: "Syarat izin usaha.", Vector: []float32{1, 0}},
	})

	first, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := e.Ask(context.Background(), "apa syarat IZIN usaha?", nil)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, gen.calls)
}

func TestAskHistoryBypassesCache(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	seedDocs(t, e, []schema.Document{
		{ID: "chunk-1", Content: "Syarat izin usaha.", Vector: []float32{1, 0}},
	})

	_, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)

	history := []schema.Turn{{Role: "user", Content: "halo"}}
	ans, err := e.Ask(context.Background(), "Apa syarat izin usaha?", history)
	require.NoError(t, err)
	assert.False(t, ans.CacheHit)
	assert.Equal(t, 2, gen.calls)
}

func TestIngestThenSearchAndDelete(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)

	ids, err := e.IngestText(context.Background(), "Prosedur perizinan dimulai dari pendaftaran online.", "prosedur.txt")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	docs, err := e.ListChunks(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "prosedur.txt", docs[0].Source())

	ranked, err := e.SearchChunks(context.Background(), "prosedur perizinan", 5)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, ids[0], ranked[0].Document.ID)

	require.NoError(t, e.DeleteChunk(context.Background(), ids[0]))
	docs, err = e.ListChunks(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIngestPurgesAnswerCache(t *testing.T) {
	cfg := testConfig(t)
	emb := &fakeEmbedder{def: []float32{1, 0}}
	gen := &fakeGenerator{}
	e := testEngine(t, cfg, emb, gen)
	seedDocs(t, e, []schema.Document{
		{ID: "chunk-1", Content: "Syarat izin usaha.", Vector: []float32{1, 0}},
	})

	_, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)

	_, err = e.IngestText(context.Background(), "Peraturan baru tentang izin usaha.", "update.txt")
	require.NoError(t, err)

	ans, err := e.Ask(context.Background(), "Apa syarat izin usaha?", nil)
	require.NoError(t, err)
	assert.False(t, ans.CacheHit)
}
