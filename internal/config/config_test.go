package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Search.ChunkSize != 500 || cfg.Search.ChunkOverlap != 50 {
		t.Errorf("chunking defaults: size=%d overlap=%d", cfg.Search.ChunkSize, cfg.Search.ChunkOverlap)
	}
	if cfg.Search.RelevanceThreshold != 0.15 {
		t.Errorf("relevance threshold default: %f", cfg.Search.RelevanceThreshold)
	}
	if cfg.Search.MaxContextChunks != 2 {
		t.Errorf("max context chunks default: %d", cfg.Search.MaxContextChunks)
	}
	if cfg.Guard.MaxQueriesPerHour != 20 || cfg.Guard.MaxQueryLength != 500 {
		t.Errorf("guard defaults: %d/%d", cfg.Guard.MaxQueriesPerHour, cfg.Guard.MaxQueryLength)
	}
	if cfg.Answer.NotFound == "" {
		t.Error("not-found answer default missing")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
store:
  backend: disk
  path: ./docs
search:
  chunk_size: 200
  chunk_overlap: 20
answer:
  provider: keyword
  topics:
    - keywords: ["lambda", "serverless"]
      answer: "Lambda runs code without servers."
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug not parsed")
	}
	if cfg.Search.ChunkSize != 200 || cfg.Search.ChunkOverlap != 20 {
		t.Errorf("chunking: size=%d overlap=%d", cfg.Search.ChunkSize, cfg.Search.ChunkOverlap)
	}
	if cfg.Store.Path != filepath.Join(dir, "docs") {
		t.Errorf("store path not expanded relative to config dir: %s", cfg.Store.Path)
	}
	if len(cfg.Answer.Topics) != 1 || len(cfg.Answer.Topics[0].Keywords) != 2 {
		t.Errorf("topics not parsed: %+v", cfg.Answer.Topics)
	}
	// Defaults still fill the rest.
	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: %d", cfg.Server.Port)
	}
}

func TestLoad_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
search:
  chunk_size: 50
  chunk_overlap: 50
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("overlap == size should be rejected")
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: ftp\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unknown backend should be rejected")
	}
}
