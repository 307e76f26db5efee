// Package splitter cuts raw document text into overlapping chunks for
// embedding and retrieval.
package splitter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChunking reports an unusable chunk size / overlap pair.
var ErrInvalidChunking = errors.New("invalid chunking configuration")

// separators in priority order. A chunk prefers to end at a paragraph
// break, then a line break, then a sentence end, then a word break,
// and only cuts mid-word when none of these fit.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter produces chunks of at most ChunkSize characters where each
// consecutive pair shares exactly ChunkOverlap characters. Splitting
// is deterministic and loses no characters: concatenating the chunks
// with the overlap removed reconstructs the input.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunking, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d must not be negative", ErrInvalidChunking, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidChunking, chunkOverlap, chunkSize)
	}
	return &Splitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

// Split returns the ordered chunk sequence for text. Empty or
// whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + s.ChunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}
		end = s.breakPoint(text, start, end)
		chunks = append(chunks, text[start:end])
		start = end - s.ChunkOverlap
	}
}

// breakPoint picks where the chunk starting at start should end, given
// the hard limit. It scans for the highest-priority separator whose
// last occurrence still leaves room for the next chunk to make
// progress past the overlap; with no separator in range it cuts at the
// limit.
func (s *Splitter) breakPoint(text string, start, limit int) int {
	// the chunk must end past the overlap region or the walk stalls
	minEnd := start + s.ChunkOverlap + 1
	if minEnd >= limit {
		return limit
	}
	window := text[minEnd:limit]
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return minEnd + i + len(sep)
		}
	}
	return limit
}
