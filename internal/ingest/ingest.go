// Package ingest runs the document processing pipeline: extract text
// from every source, flatten it in submission order, chunk it, and
// build the vector index. Per-document failures never abort the
// batch; they surface as warnings on the report.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"research-rag/internal/parser"
	"research-rag/internal/splitter"
)

// Builder builds the corpus index from an ordered chunk sequence.
type Builder interface {
	Build(ctx context.Context, chunks []string) error
}

// Downloader fetches a remote PDF to a local temporary file.
type Downloader interface {
	Fetch(url string) (string, error)
}

// Report is the aggregate outcome of one processing run. ChunkCount
// zero means nothing could be extracted at all, which is distinct
// from a partial run where some sources failed (Warnings non-empty)
// but chunks were still produced.
type Report struct {
	Sources    int
	Extracted  int
	ChunkCount int
	Warnings   []string
}

type Pipeline struct {
	builder    Builder
	downloader Downloader
	splitter   *splitter.Splitter
}

func NewPipeline(builder Builder, downloader Downloader, split *splitter.Splitter) *Pipeline {
	return &Pipeline{builder: builder, downloader: downloader, splitter: split}
}

type source struct {
	path  string
	url   string
	local bool
}

type extracted struct {
	text     string
	warnings []string
}

// Process extracts text from the given local files and remote URLs,
// chunks the combined text, and rebuilds the index. Sources are
// processed concurrently but the flattened text keeps submission
// order, so the resulting chunk sequence is deterministic. A run that
// extracts nothing returns a zero-chunk report without touching the
// existing index.
func (p *Pipeline) Process(ctx context.Context, paths, urls []string) (*Report, error) {
	sources := make([]source, 0, len(paths)+len(urls))
	for _, path := range paths {
		sources = append(sources, source{path: path, local: true})
	}
	for _, url := range urls {
		sources = append(sources, source{url: url})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no documents to process")
	}

	results := make([]extracted, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src source) {
			defer wg.Done()
			results[i] = p.extractOne(src)
		}(i, src)
	}
	wg.Wait()

	report := &Report{Sources: len(sources)}
	var text strings.Builder
	for _, res := range results {
		report.Warnings = append(report.Warnings, res.warnings...)
		if strings.TrimSpace(res.text) == "" {
			continue
		}
		report.Extracted++
		text.WriteString(res.text)
		text.WriteString("\n")
	}

	for _, w := range report.Warnings {
		log.Warn().Msg(w)
	}

	chunks := p.splitter.Split(text.String())
	if len(chunks) == 0 {
		log.Warn().Int("sources", report.Sources).Msg("no text could be extracted from the documents")
		return report, nil
	}

	if err := p.builder.Build(ctx, chunks); err != nil {
		return report, fmt.Errorf("building index: %w", err)
	}
	report.ChunkCount = len(chunks)
	log.Info().
		Int("sources", report.Sources).
		Int("extracted", report.Extracted).
		Int("chunks", report.ChunkCount).
		Msg("documents processed")
	return report, nil
}

func (p *Pipeline) extractOne(src source) extracted {
	path := src.path
	if !src.local {
		downloaded, err := p.downloader.Fetch(src.url)
		if err != nil {
			return extracted{warnings: []string{err.Error()}}
		}
		defer os.Remove(downloaded)
		path = downloaded
	}

	out, err := parser.Extract(path)
	if err != nil {
		return extracted{warnings: []string{fmt.Sprintf("%s: %v", path, err)}}
	}
	return extracted{text: out.Text, warnings: out.Warnings}
}
