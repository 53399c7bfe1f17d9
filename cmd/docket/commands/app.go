// ABOUTME: Shared application wiring for CLI commands
// ABOUTME: Builds the store, pipeline, and orchestrator from environment config
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/lexhaven/docket/internal/config"
	"github.com/lexhaven/docket/internal/core"
	"github.com/lexhaven/docket/internal/extract"
	"github.com/lexhaven/docket/internal/llm"
	"github.com/lexhaven/docket/internal/storage/sqlite"
)

// app holds the wired components a command needs
type app struct {
	cfg          *config.Config
	store        *sqlite.Store
	client       *llm.Client
	ingestor     *core.Ingestor
	assembler    *core.ContextAssembler
	orchestrator *core.Orchestrator
}

// newApp loads configuration, opens storage, and wires the pipeline.
// requireAPIKey is false for commands that only read local state.
func newApp(requireAPIKey bool) (*app, error) {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := sqlite.NewStore(db)

	a := &app{cfg: cfg, store: store}
	a.assembler = core.NewContextAssembler(store, cfg.MaxCandidateChunks)

	if cfg.OpenAIKey == "" {
		if requireAPIKey {
			_ = store.Close()
			return nil, fmt.Errorf("OPENAI_API_KEY is required for this command")
		}
		return a, nil
	}

	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	a.client = client

	chunker := core.NewChunker(cfg.ChunkTargetLength, cfg.ChunkOverlapRatio)
	a.ingestor = core.NewIngestor(store, client, extract.NewPlainText(extract.DefaultMaxBytes), chunker, cfg.EmbeddingDimensions)
	a.orchestrator = core.NewOrchestrator(store, store, client, client, a.assembler, cfg.RetrievalTopK)

	return a, nil
}

// Close releases the app's resources
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}
