package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"what is the vacation policy", "-top-k", "5"},
			expected: []string{"-top-k", "5", "what is the vacation policy"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-top-k", "5", "what is the vacation policy"},
			expected: []string{"-top-k", "5", "what is the vacation policy"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"what is the vacation policy"},
			expected: []string{"what is the vacation policy"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-output", "json"},
			expected: []string{"-output", "json", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"onboarding"}, "onboarding"},
		{"multiple words", []string{"vacation", "policy"}, "vacation policy"},
		{"single quoted phrase", []string{"vacation policy"}, "vacation policy"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	if _, err := parseOutputFormat("yaml"); err == nil {
		t.Error("unknown format should error")
	}
	for _, valid := range []string{"text", "json"} {
		if _, err := parseOutputFormat(valid); err != nil {
			t.Errorf("parseOutputFormat(%q) = %v", valid, err)
		}
	}
}

func TestLoadConfig_CwdFallback(t *testing.T) {
	dir := t.TempDir()
	cfgBody := []byte("store:\n  backend: memory\nembedding:\n  provider: mock\nanswer:\n  provider: keyword\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), cfgBody, 0o644); err != nil {
		t.Fatal(err)
	}
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend = %q, want memory", cfg.Store.Backend)
	}
	want := filepath.Join(dir, "config.yaml")
	if resolved != want {
		t.Errorf("resolved path = %q, want %q", resolved, want)
	}
}
