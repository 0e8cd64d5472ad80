package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	ServiceAPIKey string

	// Structural adviser and summarizer
	AnthropicAPIKey string
	AnthropicModel  string
	AdviserTimeout  time.Duration
	AdviserRetries  int

	// Tree shape
	MaxDepth int

	// Tree store connection (optional)
	TreestoreURL    string
	TreestoreAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	ChunkSize    int
	ChunkOverlap int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		ServiceAPIKey: os.Getenv("STRUCTREE_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		AdviserTimeout:  envDuration("ADVISER_TIMEOUT", 60*time.Second),
		AdviserRetries:  envInt("ADVISER_RETRIES", 1),

		MaxDepth: envInt("MAX_DEPTH", 3),

		TreestoreURL:    os.Getenv("TREESTORE_URL"),
		TreestoreAPIKey: os.Getenv("TREESTORE_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		ChunkSize:    envInt("CHUNK_SIZE", 1500),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.AdviserRetries <= 0 {
		cfg.AdviserRetries = 1
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate rejects only configurations that cannot work at all. The adviser,
// summarizer, and tree store are optional capabilities: without an API key
// the engine runs rule-only, without a store URL results stay in memory.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("MAX_DEPTH must be at least 1, got %d", c.MaxDepth)
	}
	if c.TreestoreURL != "" && c.TreestoreAPIKey == "" {
		return fmt.Errorf("TREESTORE_API_KEY is required when TREESTORE_URL is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
