// Package config provides configuration loading and structs for the Tazune server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Answer    AnswerConfig    `yaml:"answer"`
	Guard     GuardConfig     `yaml:"guard"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of "s3", "disk", "memory".
	Backend string `yaml:"backend"`
	// Bucket and Region configure the s3 backend.
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	// Path configures the disk backend (root directory of documents).
	Path string `yaml:"path"`
}

// EmbeddingConfig holds embedding model settings. The configured model is
// pinned for the whole deployment: corpus vectors and query vectors must
// come from the same model or similarity scores are meaningless.
type EmbeddingConfig struct {
	// Provider is one of "openai" (OpenAI-compatible API) or "mock".
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BatchSize  int    `yaml:"batch_size"`
	CacheSize  int    `yaml:"cache_size"`
}

// SearchConfig holds chunking and retrieval settings.
type SearchConfig struct {
	ChunkSize          int     `yaml:"chunk_size"`
	ChunkOverlap       int     `yaml:"chunk_overlap"`
	TopK               int     `yaml:"top_k"`
	MaxContextChunks   int     `yaml:"max_context_chunks"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	BuildConcurrency   int     `yaml:"build_concurrency"`
}

// TopicRule is one entry of the keyword answer table: if the query contains
// any of Keywords (case-insensitive), Answer is returned.
type TopicRule struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// AnswerConfig selects and configures the answer generator.
type AnswerConfig struct {
	// Provider is one of "bedrock", "openai", "keyword".
	Provider       string `yaml:"provider"`
	Region         string `yaml:"region"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// NotFound is the fixed answer returned when the relevance gate trips.
	NotFound string `yaml:"not_found"`
	// Topics and Fallback configure the keyword provider.
	Topics   []TopicRule `yaml:"topics"`
	Fallback string      `yaml:"fallback"`
}

// GuardConfig holds per-session rate limiting and query safety settings.
type GuardConfig struct {
	MaxQueriesPerHour int      `yaml:"max_queries_per_hour"`
	MaxQueryLength    int      `yaml:"max_query_length"`
	BlockedPatterns   []string `yaml:"blocked_patterns"`
}

// CacheConfig holds corpus snapshot caching settings. A negative TTLSeconds
// disables caching: every query rebuilds the corpus from the store (correct
// but slow, acceptable only for small corpora).
type CacheConfig struct {
	TTLSeconds int  `yaml:"ttl_seconds"`
	WatchStore bool `yaml:"watch_store"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or if chunking settings
// are invalid (overlap must be smaller than chunk size).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Store.Path = expandPath(cfg.Store.Path, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would make the pipeline misbehave rather
// than merely perform badly.
func (c *Config) Validate() error {
	if c.Search.ChunkSize <= 0 {
		return fmt.Errorf("search.chunk_size must be positive, got %d", c.Search.ChunkSize)
	}
	if c.Search.ChunkOverlap < 0 || c.Search.ChunkOverlap >= c.Search.ChunkSize {
		return fmt.Errorf("search.chunk_overlap must be in [0, chunk_size), got overlap=%d size=%d",
			c.Search.ChunkOverlap, c.Search.ChunkSize)
	}
	switch c.Store.Backend {
	case "s3", "disk", "memory":
	default:
		return fmt.Errorf("store.backend must be s3, disk, or memory, got %q", c.Store.Backend)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
