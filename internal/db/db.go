// Package db is the Postgres-backed index variant: chunk rows with
// pgvector embeddings, searched with the cosine distance operator. It
// honors the same build/search contract as the chromem-backed store.
package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"research-rag/internal/config"
	"research-rag/internal/embedding"
	"research-rag/internal/models"
	"research-rag/internal/vectorstore"
)

// Document is one indexed chunk row.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ChunkID       int       `bun:"chunk_id,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
}

// Connect opens the Postgres connection described by cfg.
func Connect(cfg *config.DatabaseConfig) (*bun.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is not configured")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// Store builds and searches the documents table.
type Store struct {
	db       *bun.DB
	embedder embedding.Embedder

	mu        sync.Mutex
	lastBuild string
}

func NewStore(db *bun.DB, embedder embedding.Embedder) *Store {
	return &Store{db: db, embedder: embedder}
}

// Build embeds chunks and replaces the documents table contents in a
// single transaction, so readers see the old corpus or the new one,
// never a mix. A rebuild with identical chunk content is a no-op.
func (s *Store) Build(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return vectorstore.ErrNoChunks
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := hashChunks(chunks)
	if key == s.lastBuild {
		log.Debug().Msg("identical chunk content already indexed, skipping rebuild")
		return nil
	}

	docs := make([]Document, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.EmbedQuery(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		docs[i] = Document{ChunkID: i, Content: chunk, Embedding: vec}
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewCreateTable().Model((*Document)(nil)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&docs).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}

	s.lastBuild = key
	log.Info().Int("chunks", len(docs)).Msg("postgres index built")
	return nil
}

// Search returns the min(k, corpus) chunks nearest to the query by
// cosine distance, ties broken by chunk insertion order.
func (s *Store) Search(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}

	count, err := s.db.NewSelect().Model((*Document)(nil)).Count(ctx)
	if err != nil {
		// a missing table means no corpus has been processed yet
		return nil, vectorstore.ErrIndexNotFound
	}
	if count == 0 {
		return nil, vectorstore.ErrIndexNotFound
	}
	if k > count {
		k = count
	}

	qv, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var rows []struct {
		Content string  `bun:"content"`
		Score   float32 `bun:"score"`
	}
	err = s.db.NewSelect().
		Model((*Document)(nil)).
		ColumnExpr("content").
		ColumnExpr("1 - (embedding <=> ?) AS score", qv).
		OrderExpr("embedding <=> ?", qv).
		OrderExpr("chunk_id ASC").
		Limit(k).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}

	chunks := make([]models.ScoredChunk, 0, len(rows))
	for _, r := range rows {
		chunks = append(chunks, models.ScoredChunk{Content: r.Content, Score: r.Score})
	}
	return chunks, nil
}

func hashChunks(chunks []string) string {
	hash := sha256.New()
	var lenBuf [8]byte
	for _, c := range chunks {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(c)))
		hash.Write(lenBuf[:])
		hash.Write([]byte(c))
	}
	return hex.EncodeToString(hash.Sum(nil))
}
