// Package govrag implements a retrieval-and-grounding pipeline over the
// Central Java public-service document corpus: a domain gate, deterministic
// query expansion, vector retrieval, reranking, and grounded answer
// generation with source attributions and a confidence tier.
package govrag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jatengdev/govrag/cache"
	"github.com/jatengdev/govrag/common/httpx"
	"github.com/jatengdev/govrag/common/logger"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/embedding"
	"github.com/jatengdev/govrag/expand"
	"github.com/jatengdev/govrag/gating"
	"github.com/jatengdev/govrag/llm"
	"github.com/jatengdev/govrag/metrics"
	"github.com/jatengdev/govrag/post"
	"github.com/jatengdev/govrag/retrieval"
	"github.com/jatengdev/govrag/retriever"
	"github.com/jatengdev/govrag/schema"
	"github.com/jatengdev/govrag/textsplitter"
	"github.com/jatengdev/govrag/vectordb"
)

// outOfScopeText is returned without any retrieval or generation spend when
// the gate rejects a question.
const outOfScopeText = "Maaf, pertanyaan ini di luar cakupan layanan informasi DPMPTSP Provinsi Jawa Tengah. " +
	"Silakan ajukan pertanyaan seputar perizinan, penanaman modal, atau layanan publik di Jawa Tengah."

// noResultsText is returned when retrieval finds no grounded evidence above
// the configured floors. No model call is made: there is nothing to ground
// the generation on.
const noResultsText = "Informasi tersebut tidak ditemukan dalam dokumen resmi yang tersedia. " +
	"Silakan hubungi DPMPTSP Provinsi Jawa Tengah melalui kanal resmi untuk informasi lebih lanjut."

// Engine wires the pipeline stages behind one Ask entry point.
type Engine struct {
	cfg       *config.Config
	gate      gating.Provider
	expander  *expand.Expander
	retrieval retrieval.Provider
	reranker  post.Reranker
	prompts   *llm.PromptBuilder
	generator llm.Provider
	embedder  embedding.Provider
	store     vectordb.VectorStoreProvider
	splitter  *textsplitter.Splitter
	answers   cache.Cache
}

// NewEngine builds every stage from one validated configuration.
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	generator, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	store, err := vectordb.NewVectorStoreProvider(ctx, cfg.VectorDB)
	if err != nil {
		return nil, err
	}
	gate, err := gating.NewProvider(cfg.Gate, embedder)
	if err != nil {
		store.Close()
		return nil, err
	}
	httpClient := httpx.New(httpx.Options{
		TimeoutMs:    cfg.HTTP.TimeoutMs,
		Retries:      cfg.HTTP.Retry,
		BackoffMinMs: cfg.HTTP.BackoffMinMs,
	})
	reranker, err := post.NewReranker(cfg.Rerank, httpClient)
	if err != nil {
		store.Close()
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		gate:      gate,
		expander:  expand.New(cfg.Expansion),
		retrieval: retrieval.NewProvider(retriever.NewVectorRetriever(embedder, store), cfg.RAG),
		reranker:  reranker,
		prompts:   llm.NewPromptBuilder(cfg.Prompt),
		generator: generator,
		embedder:  embedder,
		store:     store,
		splitter:  textsplitter.New(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap),
	}
	if cfg.Cache.Enable {
		e.answers = cache.NewLRU(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}
	return e, nil
}

// Close releases the vector store.
func (e *Engine) Close() error { return e.store.Close() }

// Ask runs the full pipeline for one question. The returned envelope always
// carries the gate verdict, confidence tier, and reason code; an error is
// returned only when a required external call failed.
func (e *Engine) Ask(ctx context.Context, question string, history []schema.Turn) (*schema.Answer, error) {
	start := time.Now()
	m := metrics.NewQueryMetrics(question, e.store.Namespace())
	defer m.LogJSON()

	var cacheKey string
	if e.answers != nil && len(history) == 0 {
		cacheKey = cache.Key(e.store.Namespace(), question)
		if ans, ok := e.answers.Get(cacheKey); ok {
			ans.CacheHit = true
			ans.Timings.TotalMs = time.Since(start).Milliseconds()
			m.CacheHit = true
			m.Success = true
			m.TotalLatencyMs = ans.Timings.TotalMs
			return &ans, nil
		}
	}

	// Stage 1: domain gate.
	gateStart := time.Now()
	decision := e.gate.Classify(ctx, question)
	m.GateRelevant = decision.Relevant
	m.GateReason = decision.Reason
	m.GateConfidence = decision.Confidence
	m.GateLatencyMs = time.Since(gateStart).Milliseconds()

	if !decision.Relevant {
		ans := &schema.Answer{
			Question:     question,
			Text:         outOfScopeText,
			Attributions: []schema.Attribution{},
			Confidence:   schema.ConfidenceNone,
			Relevant:     false,
			Reason:       schema.ReasonOutOfScope,
		}
		e.finish(ans, m, start, gateStart, time.Time{}, time.Time{}, time.Time{})
		return ans, nil
	}

	// Stage 2: deterministic expansion.
	variants := e.expander.Expand(question)
	m.ExpansionEnabled = len(variants) > 1
	m.Variants = variants

	// Stage 3: retrieval across variants.
	retrieveStart := time.Now()
	candidates, err := e.retrieval.Retrieve(ctx, variants, m)
	m.RetrievalLatencyMs = time.Since(retrieveStart).Milliseconds()
	if err != nil {
		m.ErrorMsg = err.Error()
		m.TotalLatencyMs = time.Since(start).Milliseconds()
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	// Stage 4: rerank and floor.
	rerankStart := time.Now()
	ranked, err := e.reranker.Rerank(ctx, question, candidates, e.cfg.Rerank.TopN)
	if err != nil {
		m.ErrorMsg = err.Error()
		m.TotalLatencyMs = time.Since(start).Milliseconds()
		return nil, fmt.Errorf("rerank: %w", err)
	}
	if e.cfg.Rerank.Enable {
		ranked = post.ApplyFloor(ranked, e.cfg.Rerank.Floor)
	}
	m.RerankEnabled = e.cfg.Rerank.Enable
	m.RerankProvider = e.cfg.Rerank.Provider
	m.RerankCount = len(ranked)
	m.RerankLatencyMs = time.Since(rerankStart).Milliseconds()

	if len(ranked) > e.cfg.RAG.TopK {
		ranked = ranked[:e.cfg.RAG.TopK]
	}

	// Stage 5: grounded generation. With no usable evidence the pipeline
	// answers honestly without a model call, and the envelope records no
	// generation timing.
	var generateStart time.Time
	var text string
	if len(ranked) == 0 {
		text = noResultsText
	} else {
		generateStart = time.Now()
		prompt := e.prompts.Build(question, history, ranked)
		text, err = e.generator.GenerateCompletion(ctx, e.prompts.System(), prompt)
		if err != nil {
			m.ErrorMsg = err.Error()
			m.TotalLatencyMs = time.Since(start).Milliseconds()
			return nil, fmt.Errorf("generate: %w", err)
		}
	}

	ans := composeAnswer(e.cfg.Confidence, question, text, ranked)
	ans.Expanded = len(variants) > 1
	ans.Reranked = e.cfg.Rerank.Enable
	e.finish(ans, m, start, gateStart, retrieveStart, rerankStart, generateStart)

	if e.answers != nil && cacheKey != "" {
		e.answers.Set(cacheKey, *ans, 0)
	}
	return ans, nil
}

func (e *Engine) finish(ans *schema.Answer, m *metrics.QueryMetrics, start, gateStart, retrieveStart, rerankStart, generateStart time.Time) {
	now := time.Now()
	ans.Timings.GateMs = m.GateLatencyMs
	if !retrieveStart.IsZero() {
		ans.Timings.RetrieveMs = m.RetrievalLatencyMs
	}
	if !rerankStart.IsZero() {
		ans.Timings.RerankMs = m.RerankLatencyMs
	}
	if !generateStart.IsZero() {
		ans.Timings.GenerateMs = now.Sub(generateStart).Milliseconds()
	}
	ans.Timings.TotalMs = now.Sub(start).Milliseconds()

	m.GenerateLatencyMs = ans.Timings.GenerateMs
	m.Confidence = string(ans.Confidence)
	m.Reason = ans.Reason
	m.Success = true
	m.TotalLatencyMs = ans.Timings.TotalMs
	logger.Debugf("ask: reason=%s confidence=%s total_ms=%d", ans.Reason, ans.Confidence, ans.Timings.TotalMs)
}

// SearchChunks runs gate-free retrieval plus rerank for one query. It backs
// the search tool used for corpus inspection.
func (e *Engine) SearchChunks(ctx context.Context, query string, topK int) ([]schema.RankedResult, error) {
	if topK <= 0 {
		topK = e.cfg.RAG.TopK
	}
	variants := e.expander.Expand(query)
	candidates, err := e.retrieval.Retrieve(ctx, variants, nil)
	if err != nil {
		return nil, err
	}
	ranked, err := e.reranker.Rerank(ctx, query, candidates, topK)
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// IngestText splits a raw document into chunks, embeds each one, and upserts
// them into the store. It returns the stored chunk IDs.
func (e *Engine) IngestText(ctx context.Context, text, source string) ([]string, error) {
	chunks := e.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no content to ingest")
	}

	docs := make([]schema.Document, 0, len(chunks))
	ids := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := e.embedder.GetEmbedding(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		id := uuid.NewString()
		docs = append(docs, schema.Document{
			ID:      id,
			Content: chunk,
			Metadata: map[string]interface{}{
				"source":      source,
				"chunk_index": i,
			},
			Vector: vec,
		})
		ids = append(ids, id)
	}
	if err := e.store.AddDocs(ctx, docs); err != nil {
		return nil, err
	}
	if e.answers != nil {
		// The corpus changed; cached answers may now be stale.
		e.answers.Purge()
	}
	logger.Infof("ingest: stored %d chunks from %q", len(docs), source)
	return ids, nil
}

// ListChunks returns up to limit stored chunks ordered by ID.
func (e *Engine) ListChunks(ctx context.Context, limit int) ([]schema.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.store.ListDocs(ctx, limit)
}

// DeleteChunk removes one chunk and invalidates cached answers.
func (e *Engine) DeleteChunk(ctx context.Context, id string) error {
	if err := e.store.DeleteDoc(ctx, id); err != nil {
		return err
	}
	if e.answers != nil {
		e.answers.Purge()
	}
	return nil
}
