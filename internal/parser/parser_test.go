package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractText(t *testing.T) {
	path := writeFile(t, "notes.txt", "plain text content\nsecond line\n")
	out, err := Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "plain text content\nsecond line\n" {
		t.Errorf("unexpected text: %q", out.Text)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
}

func TestExtractMarkdown(t *testing.T) {
	path := writeFile(t, "paper.md", "# Title\n\nFirst paragraph with *emphasis*.\n\nSecond paragraph.\n")
	out, err := Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Title", "First paragraph with emphasis.", "Second paragraph."} {
		if !strings.Contains(out.Text, want) {
			t.Errorf("text %q missing %q", out.Text, want)
		}
	}
	if strings.Contains(out.Text, "#") || strings.Contains(out.Text, "*") {
		t.Errorf("markup leaked into extracted text: %q", out.Text)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "image.png", "\x89PNG")
	if _, err := Extract(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExtractCorruptedPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", "%PDF-1.4 this is not really a pdf body")
	out, err := Extract(path)
	if err != nil {
		t.Fatalf("corrupted PDF should not be an error, got %v", err)
	}
	if out.Text != "" {
		t.Errorf("expected no text from corrupted PDF, got %q", out.Text)
	}
	if len(out.Warnings) == 0 {
		t.Error("expected a warning for corrupted PDF")
	}
}

func TestExtractEmptyPDF(t *testing.T) {
	path := writeFile(t, "empty.pdf", "")
	out, err := Extract(path)
	if err != nil {
		t.Fatalf("empty file should not be an error, got %v", err)
	}
	if out.Text != "" || len(out.Warnings) == 0 {
		t.Errorf("expected empty text plus warning, got %q / %v", out.Text, out.Warnings)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
