package llmservice

import (
	"context"
	"strings"
	"testing"

	"research-rag/internal/config"
)

func TestGenerateWithoutCredential(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Key = ""

	// construction must succeed: the missing key only fails at call time
	c := NewClient(&cfg.LLM)

	_, err := c.Generate(context.Background(), "prompt", 0.2)
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("Generate() = %v, want missing-credential error", err)
	}
}

func TestDefaultTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.TimeoutSeconds = 0
	c := NewClient(&cfg.LLM)
	if c.timeout <= 0 {
		t.Errorf("timeout = %v, want a positive default", c.timeout)
	}
}
