// Package main is the Tazune CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tazune/internal/answer"
	"github.com/hyperjump/tazune/internal/cli"
	"github.com/hyperjump/tazune/internal/config"
	"github.com/hyperjump/tazune/internal/corpus"
	"github.com/hyperjump/tazune/internal/embedding"
	"github.com/hyperjump/tazune/internal/extract"
	"github.com/hyperjump/tazune/internal/guard"
	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/internal/search"
	"github.com/hyperjump/tazune/internal/server"
	"github.com/hyperjump/tazune/internal/service"
	"github.com/hyperjump/tazune/internal/store"
	"github.com/hyperjump/tazune/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tazune/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "tazune server" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("tazune version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (corpus builds, retrieval scores, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}

	var watch *corpus.StoreWatcher
	if cfg.Cache.WatchStore && cfg.Store.Backend == "disk" {
		watch = corpus.NewStoreWatcher(cfg.Store.Path, components.Service.Refresh, logger)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start store watcher", zap.Error(err))
		}
		defer watch.Stop()
	}

	srv := server.NewServer(components.Service, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func runAsk() {
	askArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline locally)")
	topK := fs.Int("top-k", 0, "number of chunks to retrieve (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tazune ask [flags] <question>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(askArgs)

	question := buildQuery(fs.Args())
	if question == "" {
		fs.Usage()
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	query := models.AskQuery{Query: question, TopK: *topK}

	if *serverURL != "" {
		ans, err := askViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, ans, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	svc, logger := localService(*configPath)
	defer logger.Sync()
	ans, err := svc.Ask(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, ans, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSearch() {
	searchArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline locally)")
	topK := fs.Int("top-k", 0, "number of chunks to retrieve (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tazune search [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(searchArgs)

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fs.Usage()
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	query := models.AskQuery{Query: queryStr, TopK: *topK}

	var results []models.SearchResult
	if *serverURL != "" {
		results, err = searchViaHTTP(*serverURL, query)
	} else {
		var svc *service.AskService
		var logger *zap.Logger
		svc, logger = localService(*configPath)
		defer logger.Sync()
		results, err = svc.Search(context.Background(), query)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline locally)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var stats models.CorpusStats
	if *serverURL != "" {
		stats, err = statusViaHTTP(*serverURL)
	} else {
		var svc *service.AskService
		var logger *zap.Logger
		svc, logger = localService(*configPath)
		defer logger.Sync()
		stats, err = svc.Stats(context.Background())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStats(os.Stdout, stats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// localService builds the full pipeline in-process for one-shot commands.
func localService(configPath string) (*service.AskService, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components.Service, logger
}

func askViaHTTP(serverURL string, query models.AskQuery) (*models.Answer, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var ans models.Answer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &ans, nil
}

func searchViaHTTP(serverURL string, query models.AskQuery) ([]models.SearchResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Results []models.SearchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Results, nil
}

func statusViaHTTP(serverURL string) (models.CorpusStats, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return models.CorpusStats{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return models.CorpusStats{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var stats models.CorpusStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return models.CorpusStats{}, fmt.Errorf("decode response: %w", err)
	}
	return stats, nil
}

// Components holds initialized services.
type Components struct {
	Store    store.Store
	Embedder embedding.Embedder
	Service  *service.AskService
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := newStore(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	if cfg.Embedding.CacheSize > 0 {
		embedder = embedding.NewCachedEmbedder(embedder, cfg.Embedding.CacheSize)
	}

	generator, err := newGenerator(ctx, &cfg.Answer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	logger.Info("components initialized",
		zap.String("store", cfg.Store.Backend),
		zap.String("embedding_model", embedder.ModelID()),
		zap.String("generator", generator.Name()),
	)

	chunker, err := corpus.NewChunker(cfg.Search.ChunkSize, cfg.Search.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking settings: %w", err)
	}
	builder := corpus.NewBuilder(st, extract.NewExtractor(), embedder, chunker,
		corpus.WithLogger(logger),
		corpus.WithConcurrency(cfg.Search.BuildConcurrency),
	)
	cache := corpus.NewCache(builder, time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)

	assembler := answer.NewAssembler(generator, answer.AssemblerConfig{
		Threshold:        cfg.Search.RelevanceThreshold,
		MaxContextChunks: cfg.Search.MaxContextChunks,
		Timeout:          time.Duration(cfg.Answer.TimeoutSeconds) * time.Second,
		NotFound:         cfg.Answer.NotFound,
	}, logger)

	svc := service.New(
		cache,
		search.NewSearcher(embedder, logger),
		assembler,
		guard.NewFilter(cfg.Guard.BlockedPatterns, cfg.Guard.MaxQueryLength),
		guard.NewRateLimiter(cfg.Guard.MaxQueriesPerHour),
		cfg.Search.TopK,
		service.WithLogger(logger),
	)

	return &Components{Store: st, Embedder: embedder, Service: svc}, nil
}

func newStore(ctx context.Context, cfg *config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "s3":
		return store.NewS3Store(ctx, cfg.Bucket, cfg.Region)
	case "disk":
		return store.NewDiskStore(cfg.Path)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newEmbedder(cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimensions), nil
	case "openai", "":
		return embedding.NewRemoteEmbedder(embedding.RemoteConfig{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			BatchSize: cfg.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func newGenerator(ctx context.Context, cfg *config.AnswerConfig) (answer.Generator, error) {
	switch cfg.Provider {
	case "bedrock", "":
		return answer.NewBedrockGenerator(ctx, cfg.Model, cfg.Region)
	case "openai":
		return answer.NewOpenAIGenerator(answer.OpenAIConfig{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
		})
	case "keyword":
		return answer.NewKeywordGenerator(cfg.Topics, cfg.Fallback), nil
	default:
		return nil, fmt.Errorf("unknown answer provider %q", cfg.Provider)
	}
}

func printUsage() {
	fmt.Println(`tazune - Document question answering over your own files

Usage:
  tazune server [flags]           Start the HTTP server
  tazune ask [flags] <question>   Ask a question against the corpus
  tazune search [flags] <query>   Retrieve the most relevant chunks
  tazune status [flags]           Show corpus contents
  tazune version                  Show version
  tazune help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/tazune/config.yaml)
  --debug            Enable debug logging (corpus builds, retrieval scores, etc.)

Ask / Search Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to run the pipeline locally.
  --top-k int        Number of chunks to retrieve (0 = configured default)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for local mode.
  --output string    Output format: text or json (default: text)

Examples:
  tazune server
  tazune ask "what is the vacation policy?"
  tazune ask what is the vacation policy        # same as above
  tazune search --top-k 5 onboarding checklist
  tazune search --output json "expense reports"  # structured JSON for other apps
  tazune status
  tazune status --output json`)
}
