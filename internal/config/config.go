// ABOUTME: Centralized configuration for the Docket assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the document pipeline and chat service
type Config struct {
	// Chunking
	ChunkTargetLength int
	ChunkOverlapRatio float64

	// Retrieval
	EmbeddingDimensions int
	RetrievalTopK       int
	MaxCandidateChunks  int

	// Status polling
	PollInterval    time.Duration
	PollMaxAttempts int

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Server / storage
	ListenAddr string
	DBPath     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		ChunkTargetLength:   getEnvInt("CHUNK_TARGET_LENGTH", 1000),
		ChunkOverlapRatio:   getEnvFloat("CHUNK_OVERLAP_RATIO", 0.12),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),
		RetrievalTopK:       getEnvInt("RETRIEVAL_TOP_K", 5),
		MaxCandidateChunks:  getEnvInt("MAX_CANDIDATE_CHUNKS", 2000),
		PollInterval:        time.Duration(getEnvInt("POLL_INTERVAL_MS", 2000)) * time.Millisecond,
		PollMaxAttempts:     getEnvInt("POLL_MAX_ATTEMPTS", 30),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("DOCKET_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("DOCKET_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ListenAddr:          getEnv("DOCKET_LISTEN_ADDR", ":8080"),
		DBPath:              os.Getenv("DOCKET_DB_PATH"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkTargetLength < 100 {
		return fmt.Errorf("CHUNK_TARGET_LENGTH must be >= 100, got %d", c.ChunkTargetLength)
	}
	if c.ChunkOverlapRatio < 0 || c.ChunkOverlapRatio >= 0.5 {
		return fmt.Errorf("CHUNK_OVERLAP_RATIO must be in [0, 0.5), got %f", c.ChunkOverlapRatio)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", c.EmbeddingDimensions)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK)
	}
	if c.MaxCandidateChunks <= 0 {
		return fmt.Errorf("MAX_CANDIDATE_CHUNKS must be positive, got %d", c.MaxCandidateChunks)
	}
	if c.PollMaxAttempts <= 0 {
		return fmt.Errorf("POLL_MAX_ATTEMPTS must be positive, got %d", c.PollMaxAttempts)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
