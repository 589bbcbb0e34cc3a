package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"MARKDOC_CONFIG", "PORT", "MARKDOC_API_KEY", "LOG_FORMAT",
	"MAX_INPUT_BYTES", "MAX_UPLOAD_BYTES", "MAX_BATCH_DOCUMENTS",
	"BATCH_CONCURRENCY", "DEFAULT_SECTION_SIZE", "DEFAULT_SECTION_OVERLAP",
	"STATS_WINDOW", "RENDER_CACHE_TTL", "PDF_FALLBACK_PDFTOTEXT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markdoc.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MARKDOC_API_KEY", "secret")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("MAX_INPUT_BYTES", "2048")
	t.Setenv("BATCH_CONCURRENCY", "3")
	t.Setenv("STATS_WINDOW", "2m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("expected api key, got %q", cfg.APIKey)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected log format text, got %q", cfg.LogFormat)
	}
	if cfg.MaxInputBytes != 2048 {
		t.Errorf("expected 2048, got %d", cfg.MaxInputBytes)
	}
	if cfg.BatchConcurrency != 3 {
		t.Errorf("expected 3, got %d", cfg.BatchConcurrency)
	}
	if cfg.StatsWindow != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.StatsWindow)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestLoad_InvalidAndNonPositiveFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_BATCH_DOCUMENTS", "lots")
	t.Setenv("BATCH_CONCURRENCY", "0")
	t.Setenv("DEFAULT_SECTION_SIZE", "-5")
	t.Setenv("RENDER_CACHE_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := Defaults()
	if cfg.MaxBatchDocuments != d.MaxBatchDocuments {
		t.Errorf("expected %d, got %d", d.MaxBatchDocuments, cfg.MaxBatchDocuments)
	}
	if cfg.BatchConcurrency != d.BatchConcurrency {
		t.Errorf("expected %d, got %d", d.BatchConcurrency, cfg.BatchConcurrency)
	}
	if cfg.DefaultSectionSize != d.DefaultSectionSize {
		t.Errorf("expected %d, got %d", d.DefaultSectionSize, cfg.DefaultSectionSize)
	}
	if cfg.RenderCacheTTL != d.RenderCacheTTL {
		t.Errorf("expected %s, got %s", d.RenderCacheTTL, cfg.RenderCacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port = "7000"
log_format = "text"

[limits]
max_input_bytes = 4096
max_batch_documents = 10

[sections]
size = 200
overlap = 0

[stats]
window = "1h"

[pdf]
fallback_pdftotext = false
`)
	t.Setenv("MARKDOC_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("expected env to override file port, got %q", cfg.Port)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected text, got %q", cfg.LogFormat)
	}
	if cfg.MaxInputBytes != 4096 || cfg.MaxBatchDocuments != 10 {
		t.Errorf("expected limits from file, got %d/%d", cfg.MaxInputBytes, cfg.MaxBatchDocuments)
	}
	if cfg.DefaultSectionSize != 200 || cfg.DefaultSectionOverlap != 0 {
		t.Errorf("expected sections 200/0, got %d/%d", cfg.DefaultSectionSize, cfg.DefaultSectionOverlap)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.StatsWindow)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.MaxUploadBytes != Defaults().MaxUploadBytes {
		t.Errorf("expected unset key to keep default, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "prot = \"80\"\n", "unknown keys: prot"},
		{"bad duration", "[cache]\nttl = \"forever\"\n", "cache.ttl"},
		{"bad syntax", "port = \n", "parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port not a number", func(c *Config) { c.Port = "http" }, false},
		{"port out of range", func(c *Config) { c.Port = "70000" }, false},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"overlap too large", func(c *Config) { c.DefaultSectionOverlap = c.DefaultSectionSize }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
