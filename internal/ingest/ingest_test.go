package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"research-rag/internal/fetcher"
	"research-rag/internal/splitter"
)

type fakeBuilder struct {
	chunks []string
	calls  int
}

func (f *fakeBuilder) Build(_ context.Context, chunks []string) error {
	f.calls++
	f.chunks = chunks
	return nil
}

type fakeDownloader struct {
	files map[string]string // url -> local path
}

func (f *fakeDownloader) Fetch(url string) (string, error) {
	if path, ok := f.files[url]; ok {
		// hand out a copy, the pipeline deletes downloads when done
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		tmp, err := os.CreateTemp("", "ingest-test-*.txt")
		if err != nil {
			return "", err
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return "", err
		}
		return tmp.Name(), tmp.Close()
	}
	return "", &fetcher.DownloadError{URL: url, Reason: "content is not a PDF"}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newPipeline(t *testing.T, b Builder, d Downloader) *Pipeline {
	t.Helper()
	split, err := splitter.New(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	return NewPipeline(b, d, split)
}

func TestProcessLocalFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha document content")
	b := writeFile(t, dir, "b.txt", "beta document content")

	builder := &fakeBuilder{}
	p := newPipeline(t, builder, &fakeDownloader{})

	report, err := p.Process(context.Background(), []string{a, b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sources != 2 || report.Extracted != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.ChunkCount == 0 || builder.calls != 1 {
		t.Errorf("index not built: %+v, calls=%d", report, builder.calls)
	}

	joined := strings.Join(builder.chunks, "")
	if !strings.Contains(joined, "alpha") || !strings.Contains(joined, "beta") {
		t.Error("chunk content missing source text")
	}
}

func TestProcessKeepsSubmissionOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.txt", "2.txt", "3.txt", "4.txt"} {
		paths = append(paths, writeFile(t, dir, name, "document "+name))
	}

	builder := &fakeBuilder{}
	p := newPipeline(t, builder, &fakeDownloader{})

	var first []string
	for run := 0; run < 3; run++ {
		if _, err := p.Process(context.Background(), paths, nil); err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = append([]string(nil), builder.chunks...)
			continue
		}
		if len(builder.chunks) != len(first) {
			t.Fatalf("run %d produced %d chunks, want %d", run, len(builder.chunks), len(first))
		}
		for i := range first {
			if builder.chunks[i] != first[i] {
				t.Fatalf("run %d chunk %d differs", run, i)
			}
		}
	}

	text := strings.Join(first, "")
	if strings.Index(text, "document 1.txt") > strings.Index(text, "document 4.txt") {
		t.Error("flattened text is not in submission order")
	}
}

func TestProcessSkipsBadSources(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "usable text content")
	missing := filepath.Join(dir, "missing.txt")

	builder := &fakeBuilder{}
	p := newPipeline(t, builder, &fakeDownloader{})

	report, err := p.Process(context.Background(), []string{good, missing}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.ChunkCount == 0 {
		t.Error("good source should still produce chunks")
	}
	if len(report.Warnings) == 0 {
		t.Error("missing source should produce a warning")
	}
	if report.Extracted != 1 {
		t.Errorf("Extracted = %d, want 1", report.Extracted)
	}
}

func TestProcessFailedDownloadDoesNotBuild(t *testing.T) {
	builder := &fakeBuilder{}
	p := newPipeline(t, builder, &fakeDownloader{})

	report, err := p.Process(context.Background(), nil, []string{"https://example.com/page.html"})
	if err != nil {
		t.Fatal(err)
	}
	if builder.calls != 0 {
		t.Error("index must not be rebuilt when nothing was extracted")
	}
	if report.ChunkCount != 0 {
		t.Errorf("ChunkCount = %d, want 0", report.ChunkCount)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "not a PDF") {
		t.Errorf("warnings = %v", report.Warnings)
	}
}

func TestProcessMixedSources(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, "local.txt", "local file text")
	remote := writeFile(t, dir, "remote.txt", "remote file text")

	builder := &fakeBuilder{}
	d := &fakeDownloader{files: map[string]string{"https://example.com/doc": remote}}
	p := newPipeline(t, builder, d)

	report, err := p.Process(context.Background(), []string{local}, []string{"https://example.com/doc"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Extracted != 2 {
		t.Errorf("Extracted = %d, want 2", report.Extracted)
	}
	text := strings.Join(builder.chunks, "")
	if strings.Index(text, "local file text") > strings.Index(text, "remote file text") {
		t.Error("local sources must precede URL sources in the flattened text")
	}
}

func TestProcessNoSources(t *testing.T) {
	p := newPipeline(t, &fakeBuilder{}, &fakeDownloader{})
	if _, err := p.Process(context.Background(), nil, nil); err == nil {
		t.Error("expected error with no sources")
	}
}
