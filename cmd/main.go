package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"research-rag/internal/arxiv"
	"research-rag/internal/chat"
	"research-rag/internal/config"
	"research-rag/internal/db"
	"research-rag/internal/embedding"
	"research-rag/internal/fetcher"
	"research-rag/internal/helper"
	"research-rag/internal/ingest"
	"research-rag/internal/llmservice"
	"research-rag/internal/splitter"
	"research-rag/internal/vectorstore"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// .env is optional; environment variables win over the config file
	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	files := flag.String("file", "", "Comma-separated document files to process")
	urls := flag.String("url", "", "Comma-separated PDF URLs to download and process")
	search := flag.String("search", "", "Search arXiv for papers")
	download := flag.Bool("download", false, "With -search: download and process the results")
	query := flag.String("query", "", "Question to answer against the processed documents")
	summarize := flag.Bool("summarize", false, "Generate a structured summary of the processed documents")
	chatMode := flag.Bool("chat", false, "Interactive question/answer session")
	dryRun := flag.Bool("dry-run", false, "Extract and chunk only, do not build the index")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	app, err := newApp(cfg, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing pipeline")
	}

	ctx := context.Background()

	switch {
	case *search != "":
		app.searchPapers(ctx, *search, *download)
	case *files != "" || *urls != "":
		app.processDocuments(ctx, splitList(*files), splitList(*urls))
	case *query != "":
		fmt.Println(app.chat.HandleQuery(ctx, *query))
	case *summarize:
		fmt.Println(app.chat.Summarize(ctx))
	case *chatMode:
		app.chatLoop(ctx)
	default:
		flag.Usage()
	}
}

type app struct {
	cfg      *config.Config
	pipeline *ingest.Pipeline
	chat     *chat.Handler
	arxiv    *arxiv.Client
}

// store is the backend-independent view of the corpus index.
type store interface {
	ingest.Builder
	chat.Retriever
}

func newApp(cfg *config.Config, dryRun bool) (*app, error) {
	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		return nil, err
	}

	var idx store
	switch cfg.RAG.Store {
	case "postgres":
		conn, err := db.Connect(&cfg.Database)
		if err != nil {
			return nil, err
		}
		idx = db.NewStore(conn, embedder)
	default:
		idx = &chromemStore{vectorstore.NewManager(embedder, cfg.RAG.IndexPath, cfg.RAG.Collection, vectorstore.WithProgress())}
	}

	split, err := splitter.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	var builder ingest.Builder = idx
	if dryRun {
		builder = noopBuilder{}
	}

	dl := fetcher.New(30 * time.Second)
	return &app{
		cfg:      cfg,
		pipeline: ingest.NewPipeline(builder, dl, split),
		chat:     chat.NewHandler(idx, llmservice.NewClient(&cfg.LLM), cfg),
		arxiv:    arxiv.NewClient(cfg.Arxiv.BaseURL, cfg.Arxiv.MaxResults),
	}, nil
}

// chromemStore adapts the index manager to the builder interface the
// pipeline consumes.
type chromemStore struct {
	*vectorstore.Manager
}

func (s *chromemStore) Build(ctx context.Context, chunks []string) error {
	_, err := s.Manager.Build(ctx, chunks)
	return err
}

type noopBuilder struct{}

func (noopBuilder) Build(context.Context, []string) error { return nil }

func (a *app) processDocuments(ctx context.Context, files, urls []string) {
	report, err := a.pipeline.Process(ctx, files, urls)
	if err != nil {
		log.Fatal().Err(err).Msg("Error processing documents")
	}
	if report.ChunkCount == 0 {
		log.Warn().Msg("No text could be extracted from the documents")
	}
	helper.PrettyPrint(report)
}

func (a *app) searchPapers(ctx context.Context, query string, download bool) {
	papers, err := a.arxiv.Search(ctx, query, a.cfg.Arxiv.MaxResults)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching arXiv")
	}
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return
	}
	helper.PrettyPrint(papers)

	if !download {
		return
	}
	urls := make([]string, 0, len(papers))
	for _, p := range papers {
		if p.PDFURL != "" {
			urls = append(urls, p.PDFURL)
		}
	}
	a.processDocuments(ctx, nil, urls)
}

func (a *app) chatLoop(ctx context.Context) {
	fmt.Println("Ask questions about the processed documents.")
	fmt.Println("Commands: /summary, /clear, /exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "exit", "quit":
			return
		case "/clear":
			a.chat.History().Clear()
			fmt.Println("Conversation cleared.")
			continue
		case "/summary":
			fmt.Printf("\n%s\n\n", a.chat.Summarize(ctx))
			continue
		}
		fmt.Printf("\n%s\n\n", a.chat.HandleQuery(ctx, line))
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
