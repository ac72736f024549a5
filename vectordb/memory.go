package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

// memoryStore keeps all vectors in process memory and persists them as a file
// pair per namespace under the data directory: <ns>_vectors.json holds the
// embeddings, <ns>_docs.json the content and metadata. Search is an exhaustive
// cosine scan, which is fine for corpora in the low tens of thousands.
type memoryStore struct {
	mu        sync.RWMutex
	namespace string
	dataDir   string
	dim       int
	vectors   map[string][]float32
	docs      map[string]storedDoc
}

type storedDoc struct {
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func newMemoryStore(cfg config.VectorDBConfig) (*memoryStore, error) {
	s := &memoryStore{
		namespace: cfg.Namespace,
		dataDir:   cfg.DataDir,
		vectors:   make(map[string][]float32),
		docs:      make(map[string]storedDoc),
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *memoryStore) vectorsPath() string {
	return filepath.Join(s.dataDir, s.namespace+"_vectors.json")
}

func (s *memoryStore) docsPath() string {
	return filepath.Join(s.dataDir, s.namespace+"_docs.json")
}

func (s *memoryStore) load() error {
	if data, err := os.ReadFile(s.vectorsPath()); err == nil {
		if err := json.Unmarshal(data, &s.vectors); err != nil {
			return fmt.Errorf("parse %s: %w", s.vectorsPath(), err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if data, err := os.ReadFile(s.docsPath()); err == nil {
		if err := json.Unmarshal(data, &s.docs); err != nil {
			return fmt.Errorf("parse %s: %w", s.docsPath(), err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	for _, v := range s.vectors {
		s.dim = len(v)
		break
	}
	return nil
}

// persist writes both files atomically via temp-and-rename.
func (s *memoryStore) persist() error {
	if err := writeJSON(s.vectorsPath(), s.vectors); err != nil {
		return err
	}
	return writeJSON(s.docsPath(), s.docs)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *memoryStore) SearchDocs(ctx context.Context, vector []float32, opts schema.SearchOptions) ([]schema.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return []schema.SearchResult{}, nil
	}
	if s.dim != 0 && len(vector) != s.dim {
		return nil, &schema.DimensionMismatchError{Namespace: s.namespace, Want: s.dim, Got: len(vector)}
	}

	results := make([]schema.SearchResult, 0, len(s.vectors))
	for id, vec := range s.vectors {
		score := cosineSimilarity(vector, vec)
		if score < opts.Threshold {
			continue
		}
		doc := s.docs[id]
		results = append(results, schema.SearchResult{
			Document: schema.Document{
				ID:        id,
				Content:   doc.Content,
				Metadata:  doc.Metadata,
				CreatedAt: doc.CreatedAt,
			},
			Score: score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})
	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

func (s *memoryStore) AddDocs(ctx context.Context, docs []schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range docs {
		if len(d.Vector) == 0 {
			return fmt.Errorf("document %s has no vector", d.ID)
		}
		if s.dim != 0 && len(d.Vector) != s.dim {
			return &schema.DimensionMismatchError{Namespace: s.namespace, Want: s.dim, Got: len(d.Vector)}
		}
		if s.dim == 0 {
			s.dim = len(d.Vector)
		}
		created := d.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		s.vectors[d.ID] = d.Vector
		s.docs[d.ID] = storedDoc{Content: d.Content, Metadata: d.Metadata, CreatedAt: created}
	}
	return s.persist()
}

func (s *memoryStore) ListDocs(ctx context.Context, limit int) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]schema.Document, 0, len(ids))
	for _, id := range ids {
		d := s.docs[id]
		out = append(out, schema.Document{
			ID:        id,
			Content:   d.Content,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (s *memoryStore) DeleteDoc(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)
	delete(s.vectors, id)
	if len(s.vectors) == 0 {
		s.dim = 0
	}
	return s.persist()
}

func (s *memoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *memoryStore) Dimension(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim, nil
}

func (s *memoryStore) Namespace() string { return s.namespace }

func (s *memoryStore) Close() error { return nil }

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
