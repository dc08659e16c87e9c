package config

// DefaultNotFound is returned when no retrieved chunk clears the relevance gate.
const DefaultNotFound = "I couldn't find relevant information in my documents to answer that question."

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "disk"
	}
	if cfg.Store.Region == "" {
		cfg.Store.Region = "us-east-1"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Search.ChunkSize == 0 {
		cfg.Search.ChunkSize = 500
	}
	if cfg.Search.ChunkOverlap == 0 {
		cfg.Search.ChunkOverlap = 50
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 3
	}
	if cfg.Search.MaxContextChunks == 0 {
		cfg.Search.MaxContextChunks = 2
	}
	if cfg.Search.RelevanceThreshold == 0 {
		cfg.Search.RelevanceThreshold = 0.15
	}
	if cfg.Search.BuildConcurrency == 0 {
		cfg.Search.BuildConcurrency = 4
	}
	if cfg.Answer.Provider == "" {
		cfg.Answer.Provider = "bedrock"
	}
	if cfg.Answer.Region == "" {
		cfg.Answer.Region = cfg.Store.Region
	}
	if cfg.Answer.Model == "" {
		switch cfg.Answer.Provider {
		case "openai":
			cfg.Answer.Model = "gpt-4o-mini"
		default:
			cfg.Answer.Model = "anthropic.claude-instant-v1"
		}
	}
	if cfg.Answer.APIKeyEnv == "" {
		cfg.Answer.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Answer.TimeoutSeconds == 0 {
		cfg.Answer.TimeoutSeconds = 30
	}
	if cfg.Answer.NotFound == "" {
		cfg.Answer.NotFound = DefaultNotFound
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Guard.MaxQueriesPerHour == 0 {
		cfg.Guard.MaxQueriesPerHour = 20
	}
	if cfg.Guard.MaxQueryLength == 0 {
		cfg.Guard.MaxQueryLength = 500
	}
	if cfg.Guard.BlockedPatterns == nil {
		cfg.Guard.BlockedPatterns = []string{
			"ignore previous instructions",
			"system prompt",
			"jailbreak",
		}
	}
}
