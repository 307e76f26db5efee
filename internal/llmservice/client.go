// Package llmservice wraps the inference model behind a single
// Generate call with a bounded timeout.
package llmservice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"research-rag/internal/config"
)

// Client calls the configured openai-compatible chat model. The
// underlying connection is created on first use so that a missing
// credential only fails when a call is actually made.
type Client struct {
	cfg     config.LLMConfig
	timeout time.Duration

	once sync.Once
	llm  *openai.LLM
	err  error
}

func NewClient(cfg *config.LLMConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{cfg: *cfg, timeout: timeout}
}

func (c *Client) init() (*openai.LLM, error) {
	c.once.Do(func() {
		if c.cfg.Key == "" {
			c.err = fmt.Errorf("LLM API key is not configured")
			return
		}
		c.llm, c.err = openai.New(
			openai.WithBaseURL(c.cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(c.cfg.Key, "Bearer ")),
			openai.WithModel(c.cfg.Model),
		)
	})
	return c.llm, c.err
}

// Generate sends one prompt and returns the model's reply. Calls are
// bounded by the configured timeout so a hung provider fails instead
// of blocking indefinitely.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	llm, err := c.init()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Debug().
		Str("model", c.cfg.Model).
		Float64("temperature", temperature).
		Int("prompt_chars", len(prompt)).
		Msg("calling LLM")

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := llm.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return res.Choices[0].Content, nil
}
