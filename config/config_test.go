package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	// Required fields a deployment must fill in.
	cfg.Embedding.APIKey = "test"
	cfg.LLM.APIKey = "test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.RAG.TopK = 0
	cfg.Confidence.High = 0.4 // below medium
	cfg.VectorDB.Provider = "milvus"

	err := cfg.Validate()
	require.Error(t, err)
	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(verrs), 3)
	assert.Contains(t, err.Error(), "rag.top_k")
	assert.Contains(t, err.Error(), "confidence")
	assert.Contains(t, err.Error(), "vectordb.provider")
}

func TestValidateProviderSpecific(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Provider = "pgvector"
	cfg.VectorDB.DSN = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectordb.dsn")

	cfg = Default()
	cfg.VectorDB.Provider = "memory"
	cfg.VectorDB.DataDir = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectordb.data_dir")
}

func TestValidateTablePrefixCharset(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Provider = "pgvector"
	cfg.VectorDB.DSN = "postgres://localhost/govrag"
	cfg.VectorDB.TablePrefix = `rag"; DROP TABLE x; --`
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectordb.table_prefix")
}

func TestValidateNamespaceCharset(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Namespace = "Prod Data"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectordb.namespace")
}

func TestValidateBadGatePattern(t *testing.T) {
	cfg := Default()
	cfg.Gate.IrrelevantPatterns = append(cfg.Gate.IrrelevantPatterns, `\b(unclosed`)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "irrelevant_patterns")
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := strings.Join([]string{
		"rag:",
		"  top_k: 12",
		"  min_similarity: 0.55",
		"vectordb:",
		"  provider: memory",
		"  namespace: staging",
		"  data_dir: /tmp/vectors",
		"llm:",
		"  model: gpt-4o",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.RAG.TopK)
	assert.Equal(t, 0.55, cfg.RAG.MinSimilarity)
	assert.Equal(t, "staging", cfg.VectorDB.Namespace)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	// Untouched sections keep defaults.
	assert.Equal(t, 5, cfg.Expansion.MaxVariants)
	assert.NotEmpty(t, cfg.Gate.Keywords)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag:\n  top_k: -2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rag.top_k")
}
