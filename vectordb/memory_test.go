package vectordb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

func memStore(t *testing.T, namespace string) *memoryStore {
	t.Helper()
	s, err := newMemoryStore(config.VectorDBConfig{
		Provider:  "memory",
		Namespace: namespace,
		DataDir:   t.TempDir(),
	})
	require.NoError(t, err)
	return s
}

func doc(id string, vec []float32) schema.Document {
	return schema.Document{
		ID:       id,
		Content:  "content of " + id,
		Metadata: map[string]interface{}{"source": id + ".pdf"},
		Vector:   vec,
	}
}

func TestSearchEmptyNamespace(t *testing.T) {
	s := memStore(t, "empty")
	results, err := s.SearchDocs(context.Background(), []float32{1, 0}, schema.SearchOptions{TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchOrdersByScoreThenID(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, []schema.Document{
		doc("b", []float32{1, 0}),
		doc("a", []float32{1, 0}),
		doc("c", []float32{0.5, 0.5}),
	}))

	results, err := s.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Identical scores break on ascending ID.
	assert.Equal(t, "a", results[0].Document.ID)
	assert.Equal(t, "b", results[1].Document.ID)
	assert.Equal(t, "c", results[2].Document.ID)
	assert.Greater(t, results[0].Score, results[2].Score)

	// Repeat search yields identical order.
	again, err := s.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestSearchThresholdFilters(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, []schema.Document{
		doc("near", []float32{1, 0}),
		doc("far", []float32{0, 1}),
	}))

	results, err := s.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 5, Threshold: 0.9})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Document.ID)

	// Raising the threshold never adds results.
	loose, err := s.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 5, Threshold: 0.1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(loose), len(results))
}

func TestSearchDimensionMismatch(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, []schema.Document{doc("a", []float32{1, 0, 0})}))

	_, err := s.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 5})
	var dimErr *schema.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)
}

func TestAddDocsRejectsMixedDimensions(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, []schema.Document{doc("a", []float32{1, 0})}))

	err := s.AddDocs(ctx, []schema.Document{doc("b", []float32{1, 0, 0})})
	var dimErr *schema.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
}

func TestNamespaceIsolationOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	mk := func(ns string) *memoryStore {
		s, err := newMemoryStore(config.VectorDBConfig{Provider: "memory", Namespace: ns, DataDir: dir})
		require.NoError(t, err)
		return s
	}

	dev := mk("dev")
	require.NoError(t, dev.AddDocs(ctx, []schema.Document{doc("only-dev", []float32{1, 0})}))

	prod := mk("prod")
	results, err := prod.SearchDocs(ctx, []float32{1, 0}, schema.SearchOptions{TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results)

	// A fresh handle on the same namespace sees persisted data.
	dev2 := mk("dev")
	n, err := dev2.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListAndDelete(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, []schema.Document{
		doc("b", []float32{1, 0}),
		doc("a", []float32{0, 1}),
	}))

	docs, err := s.ListDocs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "a.pdf", docs[0].Source())

	require.NoError(t, s.DeleteDoc(ctx, "a"))
	require.NoError(t, s.DeleteDoc(ctx, "missing"))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDimensionTracksStore(t *testing.T) {
	s := memStore(t, "prod")
	ctx := context.Background()

	dim, err := s.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, dim)

	require.NoError(t, s.AddDocs(ctx, []schema.Document{doc("a", []float32{1, 0, 0})}))
	dim, err = s.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)
}
