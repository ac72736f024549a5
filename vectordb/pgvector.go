package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/jatengdev/govrag/config"
	"github.com/jatengdev/govrag/schema"
)

// pgvectorStore backs a namespace with one Postgres table named
// <prefix>_<namespace>. The table is created on first write; cosine distance
// drives search ordering.
type pgvectorStore struct {
	pool      *pgxpool.Pool
	namespace string
	table     string
}

func newPGVectorStore(ctx context.Context, cfg config.VectorDBConfig) (*pgvectorStore, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &pgvectorStore{
		pool:      pool,
		namespace: cfg.Namespace,
		table:     cfg.TablePrefix + "_" + cfg.Namespace,
	}, nil
}

func (s *pgvectorStore) ensureTable(ctx context.Context, dim int) error {
	_, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         text PRIMARY KEY,
			content    text NOT NULL,
			metadata   jsonb,
			embedding  vector(%d) NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, s.table, dim))
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *pgvectorStore) SearchDocs(ctx context.Context, vector []float32, opts schema.SearchOptions) ([]schema.SearchResult, error) {
	dim, err := s.dimension(ctx)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return []schema.SearchResult{}, nil
	}
	if len(vector) != dim {
		return nil, &schema.DimensionMismatchError{Namespace: s.namespace, Want: dim, Got: len(vector)}
	}

	q := fmt.Sprintf(`
		SELECT id, content, metadata, created_at, 1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1, id ASC
		LIMIT $3`, s.table)
	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(vector), opts.Threshold, opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.table, err)
	}
	defer rows.Close()

	var results []schema.SearchResult
	for rows.Next() {
		var (
			doc     schema.Document
			rawMeta []byte
			score   float64
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &rawMeta, &doc.CreatedAt, &score); err != nil {
			return nil, err
		}
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", doc.ID, err)
			}
		}
		results = append(results, schema.SearchResult{Document: doc, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if results == nil {
		results = []schema.SearchResult{}
	}
	return results, nil
}

func (s *pgvectorStore) AddDocs(ctx context.Context, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}
	dim, err := s.dimension(ctx)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(docs[0].Vector)
		if err := s.ensureTable(ctx, dim); err != nil {
			return err
		}
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		if len(d.Vector) != dim {
			return &schema.DimensionMismatchError{Namespace: s.namespace, Want: dim, Got: len(d.Vector)}
		}
		meta, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", d.ID, err)
		}
		created := d.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		batch.Queue(fmt.Sprintf(`
			INSERT INTO %s (id, content, metadata, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding`, s.table),
			d.ID, d.Content, meta, pgvector.NewVector(d.Vector), created)
	}
	return s.pool.SendBatch(ctx, batch).Close()
}

func (s *pgvectorStore) ListDocs(ctx context.Context, limit int) ([]schema.Document, error) {
	if exists, err := s.tableExists(ctx); err != nil || !exists {
		return []schema.Document{}, err
	}
	q := fmt.Sprintf(`SELECT id, content, metadata, created_at FROM %s ORDER BY id LIMIT $1`, s.table)
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []schema.Document{}
	for rows.Next() {
		var (
			doc     schema.Document
			rawMeta []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &rawMeta, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *pgvectorStore) DeleteDoc(ctx context.Context, id string) error {
	if exists, err := s.tableExists(ctx); err != nil || !exists {
		return err
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	return err
}

func (s *pgvectorStore) Count(ctx context.Context) (int, error) {
	if exists, err := s.tableExists(ctx); err != nil || !exists {
		return 0, err
	}
	var n int
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)).Scan(&n)
	return n, err
}

func (s *pgvectorStore) Dimension(ctx context.Context) (int, error) {
	return s.dimension(ctx)
}

func (s *pgvectorStore) Namespace() string { return s.namespace }

func (s *pgvectorStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *pgvectorStore) tableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, s.table).Scan(&exists)
	return exists, err
}

// dimension reads the declared width of the embedding column, 0 when the
// table does not exist yet.
func (s *pgvectorStore) dimension(ctx context.Context) (int, error) {
	if exists, err := s.tableExists(ctx); err != nil || !exists {
		return 0, err
	}
	var dim int
	err := s.pool.QueryRow(ctx, `
		SELECT coalesce(a.atttypmod, 0)
		FROM pg_attribute a
		WHERE a.attrelid = to_regclass($1) AND a.attname = 'embedding'`, s.table).Scan(&dim)
	if err != nil {
		return 0, err
	}
	return dim, nil
}
