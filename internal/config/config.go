package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer-token checks.
	APIKey string

	// Logging: "json" or "text".
	LogFormat string

	// Request limits
	MaxInputBytes     int64
	MaxUploadBytes    int64
	MaxBatchDocuments int

	// Batch rendering
	BatchConcurrency int

	// Sectioning defaults
	DefaultSectionSize    int
	DefaultSectionOverlap int

	// Parse latency window
	StatsWindow time.Duration

	// Rendered output cache
	RenderCacheTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                  "8090",
		LogFormat:             "json",
		MaxInputBytes:         1 << 20,  // 1MB
		MaxUploadBytes:        50 << 20, // 50MB
		MaxBatchDocuments:     100,
		BatchConcurrency:      8,
		DefaultSectionSize:    400,
		DefaultSectionOverlap: 40,
		StatsWindow:           15 * time.Minute,
		RenderCacheTTL:        10 * time.Minute,
		PDFFallbackPdftotext:  true,
	}
}

// Load reads the configuration from the environment. When MARKDOC_CONFIG
// names a TOML file, that file is read first and the environment overrides
// it; a broken file is reported through the returned error.
func Load() (Config, error) {
	if path := os.Getenv("MARKDOC_CONFIG"); path != "" {
		return LoadFile(path)
	}
	cfg := Defaults()
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// fileConfig mirrors the TOML layout. Pointer fields tell unset keys apart
// from zero values.
type fileConfig struct {
	Port      *string `toml:"port"`
	APIKey    *string `toml:"api_key"`
	LogFormat *string `toml:"log_format"`

	Limits struct {
		MaxInputBytes     *int64 `toml:"max_input_bytes"`
		MaxUploadBytes    *int64 `toml:"max_upload_bytes"`
		MaxBatchDocuments *int   `toml:"max_batch_documents"`
	} `toml:"limits"`

	Batch struct {
		Concurrency *int `toml:"concurrency"`
	} `toml:"batch"`

	Sections struct {
		Size    *int `toml:"size"`
		Overlap *int `toml:"overlap"`
	} `toml:"sections"`

	Stats struct {
		Window *string `toml:"window"`
	} `toml:"stats"`

	Cache struct {
		TTL *string `toml:"ttl"`
	} `toml:"cache"`

	PDF struct {
		FallbackPdftotext *bool `toml:"fallback_pdftotext"`
	} `toml:"pdf"`
}

// LoadFile reads a TOML config file over the defaults, then applies the
// environment on top.
func LoadFile(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Defaults()
	if err := fc.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	set(&cfg.Port, fc.Port)
	set(&cfg.APIKey, fc.APIKey)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.MaxInputBytes, fc.Limits.MaxInputBytes)
	set(&cfg.MaxUploadBytes, fc.Limits.MaxUploadBytes)
	set(&cfg.MaxBatchDocuments, fc.Limits.MaxBatchDocuments)
	set(&cfg.BatchConcurrency, fc.Batch.Concurrency)
	set(&cfg.DefaultSectionSize, fc.Sections.Size)
	set(&cfg.DefaultSectionOverlap, fc.Sections.Overlap)
	set(&cfg.PDFFallbackPdftotext, fc.PDF.FallbackPdftotext)

	if fc.Stats.Window != nil {
		d, err := time.ParseDuration(*fc.Stats.Window)
		if err != nil {
			return fmt.Errorf("stats.window: %w", err)
		}
		cfg.StatsWindow = d
	}
	if fc.Cache.TTL != nil {
		d, err := time.ParseDuration(*fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		cfg.RenderCacheTTL = d
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("MARKDOC_API_KEY", c.APIKey)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)

	c.MaxInputBytes = envInt64("MAX_INPUT_BYTES", c.MaxInputBytes)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.MaxBatchDocuments = envInt("MAX_BATCH_DOCUMENTS", c.MaxBatchDocuments)

	c.BatchConcurrency = envInt("BATCH_CONCURRENCY", c.BatchConcurrency)

	c.DefaultSectionSize = envInt("DEFAULT_SECTION_SIZE", c.DefaultSectionSize)
	c.DefaultSectionOverlap = envInt("DEFAULT_SECTION_OVERLAP", c.DefaultSectionOverlap)

	c.StatsWindow = envDuration("STATS_WINDOW", c.StatsWindow)
	c.RenderCacheTTL = envDuration("RENDER_CACHE_TTL", c.RenderCacheTTL)

	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)
}

// normalize resets out-of-range values to their defaults.
func (c *Config) normalize() {
	d := Defaults()
	if c.MaxInputBytes <= 0 {
		c.MaxInputBytes = d.MaxInputBytes
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxBatchDocuments <= 0 {
		c.MaxBatchDocuments = d.MaxBatchDocuments
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = d.BatchConcurrency
	}
	if c.DefaultSectionSize <= 0 {
		c.DefaultSectionSize = d.DefaultSectionSize
	}
	if c.DefaultSectionOverlap < 0 {
		c.DefaultSectionOverlap = d.DefaultSectionOverlap
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = d.StatsWindow
	}
	if c.RenderCacheTTL <= 0 {
		c.RenderCacheTTL = d.RenderCacheTTL
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.DefaultSectionOverlap >= c.DefaultSectionSize {
		return fmt.Errorf("DEFAULT_SECTION_OVERLAP (%d) must be smaller than DEFAULT_SECTION_SIZE (%d)",
			c.DefaultSectionOverlap, c.DefaultSectionSize)
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
