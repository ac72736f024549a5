package post

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jatengdev/govrag/common/httpx"
	"github.com/jatengdev/govrag/common/logger"
	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

// modelReranker posts candidates to an external cross-encoder service.
// Request body:
//
//	{"query":"...","documents":["..."],"model":"...","top_n":10}
//
// Response body:
//
//	{"results":[{"index":0,"relevance_score":0.92}]}
//
// On any transport or decode failure it degrades to the passthrough ordering
// instead of failing the request.
type modelReranker struct {
	endpoint string
	model    string
	apiKey   string
	client   *httpx.Client
}

func newModelReranker(cfg config.RerankConfig, client *httpx.Client) *modelReranker {
	if client == nil {
		client = httpx.New(httpx.Options{})
	}
	return &modelReranker{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   client,
	}
}

type modelRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model,omitempty"`
	TopN      int      `json:"top_n,omitempty"`
}

type modelRerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (m *modelReranker) Rerank(ctx context.Context, query string, in []schema.SearchResult, topN int) ([]schema.RankedResult, error) {
	if len(in) == 0 {
		return []schema.RankedResult{}, nil
	}

	docs := make([]string, 0, len(in))
	for _, r := range in {
		docs = append(docs, r.Document.Content)
	}
	body, err := json.Marshal(modelRerankRequest{
		Query:     query,
		Documents: docs,
		Model:     m.model,
		TopN:      topN,
	})
	if err != nil {
		return m.passthrough(query, in, topN)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return m.passthrough(query, in, topN)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		logger.Warnf("rerank: model call failed, passing through: %v", err)
		return m.passthrough(query, in, topN)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("rerank: model returned %d, passing through", resp.StatusCode)
		return m.passthrough(query, in, topN)
	}

	var decoded modelRerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || len(decoded.Results) == 0 {
		logger.Warnf("rerank: bad model response, passing through: %v", err)
		return m.passthrough(query, in, topN)
	}

	out := make([]schema.RankedResult, 0, len(decoded.Results))
	for _, res := range decoded.Results {
		if res.Index < 0 || res.Index >= len(in) {
			continue
		}
		out = append(out, schema.RankedResult{
			SearchResult: in[res.Index],
			RerankScore:  res.RelevanceScore,
		})
	}
	sortRanked(out)
	return truncate(out, topN), nil
}

func (m *modelReranker) passthrough(query string, in []schema.SearchResult, topN int) ([]schema.RankedResult, error) {
	p := &passthroughReranker{}
	return p.Rerank(context.Background(), query, in, topN)
}
