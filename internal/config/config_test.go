package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Lexicon.StopWords) != 7 {
		t.Errorf("expected 7 stop-word sources, got %d", len(cfg.Lexicon.StopWords))
	}
	if cfg.Input.Path != "Input.xlsx" {
		t.Errorf("expected input 'Input.xlsx', got %q", cfg.Input.Path)
	}
	if cfg.Output.TextDir != "extracted_texts" {
		t.Errorf("expected text_dir 'extracted_texts', got %q", cfg.Output.TextDir)
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.Extractor != "text" {
		t.Errorf("expected extractor 'text', got %q", cfg.Fetch.Extractor)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
output:
  path: results.csv
fetch:
  timeout: 5s
  extractor: readability
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Output.Path != "results.csv" {
		t.Errorf("expected output 'results.csv', got %q", cfg.Output.Path)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Output.TextDir != "extracted_texts" {
		t.Errorf("expected default text_dir, got %q", cfg.Output.TextDir)
	}
	if cfg.Lexicon.Positive != "MasterDictionary/positive-words.txt" {
		t.Errorf("expected default positive list, got %q", cfg.Lexicon.Positive)
	}
}

func TestParseRejectsUnknownExtractor(t *testing.T) {
	_, err := parse([]byte("fetch:\n  extractor: magic\n"))
	if err == nil {
		t.Fatal("expected error for unknown extractor")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Lexicon.Negative == "" {
		t.Error("expected negative list to be populated from file")
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	got, err := ResolveConfigPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %q, got %q", path, got)
	}
}

func TestResolveConfigPathMissingExplicit(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
