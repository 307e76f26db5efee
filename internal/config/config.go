package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the single configuration surface for the pipeline. It is
// loaded from an optional YAML file and overridden by environment
// variables; every value except the LLM credential has a default.
type Config struct {
	LLM       LLMConfig      `yaml:"llm"`
	Embedding LLMConfig      `yaml:"embedding"`
	RAG       RAGConfig      `yaml:"rag"`
	Database  DatabaseConfig `yaml:"database"`
	Arxiv     ArxivConfig    `yaml:"arxiv"`
}

// LLMConfig describes one model endpoint. The same shape is used for
// the inference model and the embedding model.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" (openai-compatible) or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`

	QATemperature            float64 `yaml:"qa_temperature"`
	SummarizationTemperature float64 `yaml:"summarization_temperature"`
	TimeoutSeconds           int     `yaml:"timeout_seconds"`
}

type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	SearchK      int    `yaml:"search_k"`
	SummaryK     int    `yaml:"summary_k"`
	IndexPath    string `yaml:"index_path"`
	Collection   string `yaml:"collection"`
	Store        string `yaml:"store"` // "chromem" or "postgres"
}

type DatabaseConfig struct {
	DSN        string `yaml:"dsn"`
	Password   string `yaml:"password"`
	VectorSize int    `yaml:"vector_size"`
	Debug      bool   `yaml:"debug"`
}

type ArxivConfig struct {
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:                 "openai",
			BaseURL:                  "https://openrouter.ai/api",
			Model:                    "meta-llama/llama-3.1-8b-instruct",
			QATemperature:            0.2,
			SummarizationTemperature: 0.1,
			TimeoutSeconds:           60,
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "nomic-embed-text",
		},
		RAG: RAGConfig{
			ChunkSize:    2000,
			ChunkOverlap: 200,
			SearchK:      3,
			SummaryK:     10,
			IndexPath:    "data/index",
			Collection:   "papers",
			Store:        "chromem",
		},
		Database: DatabaseConfig{
			VectorSize: 768,
		},
		Arxiv: ArxivConfig{
			BaseURL:    "http://export.arxiv.org/api/query",
			MaxResults: 5,
		},
	}
}

// Load reads the YAML file at path if it exists, applies environment
// overrides on top of the defaults, and validates the result. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.LLM.Key, "LLM_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setFloat(&c.LLM.QATemperature, "QA_TEMPERATURE")
	setFloat(&c.LLM.SummarizationTemperature, "SUMMARIZATION_TEMPERATURE")
	setInt(&c.LLM.TimeoutSeconds, "LLM_TIMEOUT_SECONDS")

	setString(&c.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	setString(&c.Embedding.Key, "EMBEDDING_API_KEY")
	setString(&c.Embedding.Model, "EMBEDDING_MODEL")

	setInt(&c.RAG.ChunkSize, "CHUNK_SIZE")
	setInt(&c.RAG.ChunkOverlap, "CHUNK_OVERLAP")
	setInt(&c.RAG.SearchK, "SIMILARITY_SEARCH_K")
	setString(&c.RAG.IndexPath, "INDEX_PATH")

	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.Database.Password, "DATABASE_PASSWORD")
}

// Validate rejects chunking and retrieval parameters the pipeline
// cannot honor. The LLM credential is deliberately not checked here;
// its absence only fails at call time.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative, got %d", c.RAG.ChunkOverlap)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.RAG.SearchK < 1 {
		return fmt.Errorf("search_k must be at least 1, got %d", c.RAG.SearchK)
	}
	if c.RAG.SummaryK < 1 {
		return fmt.Errorf("summary_k must be at least 1, got %d", c.RAG.SummaryK)
	}
	if c.RAG.Store != "chromem" && c.RAG.Store != "postgres" {
		return fmt.Errorf("unknown store %q", c.RAG.Store)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
