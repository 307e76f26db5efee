// Package vectorstore owns the persisted vector index: building it
// from chunks, persisting it atomically, loading it lazily, and
// serving exact nearest-neighbor search over it.
package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"research-rag/internal/embedding"
	"research-rag/internal/models"
)

var (
	// ErrIndexNotFound means a query was attempted before any index
	// was built or persisted.
	ErrIndexNotFound = errors.New("vector index not found, process documents first")

	// ErrNoChunks means Build was called with nothing to index.
	ErrNoChunks = errors.New("no chunks to index")
)

// Handle is one fully built, queryable index.
type Handle struct {
	collection *chromem.Collection
	size       int
}

// Size returns the number of chunks in the index.
func (h *Handle) Size() int { return h.size }

// Manager builds, persists, loads and queries the index. Builds with
// identical chunk content are memoized for the life of the process; a
// new build atomically replaces the persisted index.
type Manager struct {
	embedder     embedding.Embedder
	indexPath    string
	collection   string
	showProgress bool

	mu      sync.Mutex
	builds  map[string]*Handle
	current *Handle
}

// Option configures a Manager.
type Option func(*Manager)

// WithProgress shows a progress bar while embedding chunks.
func WithProgress() Option {
	return func(m *Manager) { m.showProgress = true }
}

func NewManager(embedder embedding.Embedder, indexPath, collection string, opts ...Option) *Manager {
	m := &Manager{
		embedder:   embedder,
		indexPath:  indexPath,
		collection: collection,
		builds:     make(map[string]*Handle),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) indexFile() string {
	return filepath.Join(m.indexPath, m.collection+".chromem")
}

func (m *Manager) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return m.embedder.EmbedQuery(ctx, text)
	}
}

// Build embeds chunks, assembles a fresh index and persists it,
// replacing any prior index. The swap is atomic: a concurrent reader
// sees either the old index or the new one, never a partial file.
// Rebuilding with identical chunk content reuses the memoized handle
// without recomputing embeddings.
func (m *Manager) Build(ctx context.Context, chunks []string) (*Handle, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := hashChunks(chunks)
	if h, ok := m.builds[key]; ok {
		log.Debug().Str("content_hash", key[:12]).Msg("reusing cached index build")
		m.current = h
		return h, nil
	}

	db := chromem.NewDB()
	col, err := db.CreateCollection(m.collection, nil, m.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	var bar *progressbar.ProgressBar
	if m.showProgress {
		bar = progressbar.Default(int64(len(chunks)), "embedding chunks")
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := m.embedder.EmbedQuery(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		docs = append(docs, chromem.Document{
			// zero-padded so lexicographic ID order is insertion order
			ID:        fmt.Sprintf("chunk-%06d", i),
			Content:   chunk,
			Embedding: vec,
		})
		if bar != nil {
			bar.Add(1)
		}
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	if err := m.persist(db); err != nil {
		return nil, err
	}

	h := &Handle{collection: col, size: len(docs)}
	m.builds[key] = h
	m.current = h
	log.Info().Int("chunks", len(docs)).Str("path", m.indexFile()).Msg("vector index built")
	return h, nil
}

// persist writes the index next to its final location and renames it
// into place, so an interrupted write never leaves a half-written
// index where Load would find it.
func (m *Manager) persist(db *chromem.DB) error {
	if err := os.MkdirAll(m.indexPath, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	tmp := m.indexFile() + ".tmp"
	if err := db.ExportToFile(tmp, false, "", m.collection); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("exporting index: %w", err)
	}
	if err := os.Rename(tmp, m.indexFile()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("swapping index into place: %w", err)
	}
	return nil
}

// Load returns the current index handle, reading the persisted index
// when none is in memory. It fails with ErrIndexNotFound when nothing
// has been built or persisted.
func (m *Manager) Load(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Manager) loadLocked(ctx context.Context) (*Handle, error) {
	if m.current != nil {
		return m.current, nil
	}

	if _, err := os.Stat(m.indexFile()); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(m.indexFile(), ""); err != nil {
		return nil, fmt.Errorf("importing index: %w", err)
	}
	col := db.GetCollection(m.collection, m.embeddingFunc())
	if col == nil {
		return nil, ErrIndexNotFound
	}

	h := &Handle{collection: col, size: col.Count()}
	m.current = h
	log.Debug().Int("chunks", h.size).Msg("vector index loaded")
	return h, nil
}

// Search embeds the query and returns the min(k, corpus) best chunks
// ordered by descending similarity, ties broken by insertion order.
func (m *Manager) Search(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}

	h, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return h.Search(ctx, m.embedder, query, k)
}

// Search runs the query against this specific handle.
func (h *Handle) Search(ctx context.Context, embedder embedding.Embedder, query string, k int) ([]models.ScoredChunk, error) {
	n := k
	if n > h.size {
		n = h.size
	}
	if n == 0 {
		return nil, nil
	}

	qv, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := h.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: qv,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})

	chunks := make([]models.ScoredChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, models.ScoredChunk{Content: r.Content, Score: r.Similarity})
	}
	return chunks, nil
}

// hashChunks derives a content address for a chunk sequence. Chunk
// lengths are mixed in so that concatenation boundaries matter.
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
