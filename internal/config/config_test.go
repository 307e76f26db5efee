package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.RAG.ChunkSize != 2000 {
		t.Errorf("ChunkSize = %d, want 2000", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.RAG.ChunkOverlap)
	}
	if cfg.RAG.SearchK != 3 {
		t.Errorf("SearchK = %d, want 3", cfg.RAG.SearchK)
	}
	if cfg.RAG.SummaryK != 10 {
		t.Errorf("SummaryK = %d, want 10", cfg.RAG.SummaryK)
	}
	if cfg.LLM.QATemperature != 0.2 {
		t.Errorf("QATemperature = %v, want 0.2", cfg.LLM.QATemperature)
	}
	if cfg.LLM.SummarizationTemperature != 0.1 {
		t.Errorf("SummarizationTemperature = %v, want 0.1", cfg.LLM.SummarizationTemperature)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	// the credential is deliberately allowed to be empty at startup
	if cfg.LLM.Key != "" {
		t.Errorf("default key should be empty, got %q", cfg.LLM.Key)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 2000 {
		t.Errorf("ChunkSize = %d, want default 2000", cfg.RAG.ChunkSize)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rag:
  chunk_size: 1500
  chunk_overlap: 100
  search_k: 5
llm:
  model: some-model
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 1500 || cfg.RAG.ChunkOverlap != 100 || cfg.RAG.SearchK != 5 {
		t.Errorf("yaml values not applied: %+v", cfg.RAG)
	}
	if cfg.LLM.Model != "some-model" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	// untouched values keep their defaults
	if cfg.RAG.SummaryK != 10 {
		t.Errorf("SummaryK = %d, want default 10", cfg.RAG.SummaryK)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rag:\n  chunk_size: 1500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("EMBEDDING_MODEL", "env-model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want env override 1000", cfg.RAG.ChunkSize)
	}
	if cfg.Embedding.Model != "env-model" {
		t.Errorf("Embedding.Model = %q", cfg.Embedding.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"overlap >= size", func(c *Config) { c.RAG.ChunkOverlap = c.RAG.ChunkSize }, "chunk_overlap"},
		{"zero size", func(c *Config) { c.RAG.ChunkSize = 0 }, "chunk_size"},
		{"zero k", func(c *Config) { c.RAG.SearchK = 0 }, "search_k"},
		{"bad store", func(c *Config) { c.RAG.Store = "redis" }, "store"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}
