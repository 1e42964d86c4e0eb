// Package config provides configuration loading and structs for the TezYab
// gateway.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/render"
	"github.com/pajuhan/tezyab/internal/search"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Search  SearchConfig  `yaml:"search"`
}

// ServerConfig holds HTTP gateway settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig holds how to reach the search backend.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the backend request timeout as a duration.
func (b *BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SearchConfig holds the default pipeline options applied to searches that
// do not override them per request.
type SearchConfig struct {
	TopK            int    `yaml:"top_k"`
	ParserMode      string `yaml:"parser_mode"`
	UseExpand       *bool  `yaml:"use_expand"`
	UseOr           bool   `yaml:"use_or"`
	HighlightPolicy string `yaml:"highlight_policy"`
	CEKey           string `yaml:"ce_key"`
}

// UseExpandOrDefault returns whether query expansion is requested; defaults
// to true when unset.
func (s *SearchConfig) UseExpandOrDefault() bool {
	if s.UseExpand != nil {
		return *s.UseExpand
	}
	return true
}

// Options converts the configured defaults into pipeline options.
func (s *SearchConfig) Options() search.Options {
	return search.Options{
		TopK:            s.TopK,
		ParserMode:      models.ParserMode(s.ParserMode),
		UseBM25:         true,
		UseExpand:       s.UseExpandOrDefault(),
		UseOrFallback:   s.UseOr,
		HighlightPolicy: render.HighlightPolicy(s.HighlightPolicy),
		CEKey:           s.CEKey,
	}
}

// Load reads and parses the config file at path, applies defaults, and
// validates enum fields.
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the pipeline cannot act on.
func (c *Config) Validate() error {
	if !models.ParserMode(c.Search.ParserMode).Valid() {
		return fmt.Errorf("search.parser_mode must be %q or %q, got %q",
			models.ParserLLM, models.ParserRule, c.Search.ParserMode)
	}
	if !render.HighlightPolicy(c.Search.HighlightPolicy).Valid() {
		return fmt.Errorf("search.highlight_policy must be %q or %q, got %q",
			render.HighlightOriginal, render.HighlightOriginalPlusExpansion, c.Search.HighlightPolicy)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	return nil
}
