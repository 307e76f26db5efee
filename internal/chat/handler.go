// Package chat turns questions into grounded answers: it retrieves
// the best-matching chunks, assembles the prompt with the running
// conversation transcript, and calls the inference model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"research-rag/internal/config"
	"research-rag/internal/models"
	"research-rag/internal/vectorstore"
)

// Retriever serves similarity search over the current corpus index.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]models.ScoredChunk, error)
}

// Generator is the inference model call.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Handler answers questions and produces corpus summaries. Provider
// and retrieval failures never escape as errors: they become a
// descriptive answer string, and for questions that string is logged
// into the conversation like any other answer so the transcript stays
// continuous.
type Handler struct {
	retriever Retriever
	llm       Generator
	cfg       *config.Config
	history   *History
	sessionID string
}

func NewHandler(retriever Retriever, llm Generator, cfg *config.Config) *Handler {
	return &Handler{
		retriever: retriever,
		llm:       llm,
		cfg:       cfg,
		history:   NewHistory(),
		sessionID: uuid.NewString(),
	}
}

// History exposes the session conversation log.
func (h *Handler) History() *History {
	return h.history
}

// HandleQuery answers one question against the indexed corpus and
// appends the exchange to the conversation log.
func (h *Handler) HandleQuery(ctx context.Context, question string) string {
	answer := h.answer(ctx, question)
	h.history.Append(question, answer)
	return answer
}

func (h *Handler) answer(ctx context.Context, question string) string {
	docs, err := h.retriever.Search(ctx, question, h.cfg.RAG.SearchK)
	if err != nil {
		log.Warn().Err(err).Str("session", h.sessionID).Msg("retrieval failed")
		return fmt.Sprintf("Error processing query: %v", err)
	}

	prompt := fmt.Sprintf(models.QATemplate, h.history.Transcript(), joinChunks(docs), question)
	answer, err := h.llm.Generate(ctx, prompt, h.cfg.LLM.QATemperature)
	if err != nil {
		log.Warn().Err(err).Str("session", h.sessionID).Msg("LLM call failed")
		return fmt.Sprintf("Error processing query: %v", err)
	}
	return answer
}

// Summarize produces the structured whole-corpus report. It pulls a
// wide slice of the corpus with a broad query instead of a user
// question. With no index built it returns the fixed no-documents
// message without invoking the model.
func (h *Handler) Summarize(ctx context.Context) string {
	docs, err := h.retriever.Search(ctx, models.BroadSummaryQuery, h.cfg.RAG.SummaryK)
	if errors.Is(err, vectorstore.ErrIndexNotFound) {
		return models.NoDocumentsMessage
	}
	if err != nil {
		log.Warn().Err(err).Str("session", h.sessionID).Msg("retrieval failed")
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	if len(docs) == 0 {
		return models.NoDocumentsMessage
	}

	prompt := fmt.Sprintf(models.SummarizationTemplate, joinChunks(docs))
	summary, err := h.llm.Generate(ctx, prompt, h.cfg.LLM.SummarizationTemperature)
	if err != nil {
		log.Warn().Err(err).Str("session", h.sessionID).Msg("LLM call failed")
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return summary
}

func joinChunks(docs []models.ScoredChunk) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n\n")
}
