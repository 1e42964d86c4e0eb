package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pajuhan/tezyab/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
backend:
  base_url: "http://search.internal:5000"
search:
  top_k: 20
  parser_mode: "rule"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Backend.BaseURL != "http://search.internal:5000" {
		t.Errorf("unexpected backend url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Search.TopK != 20 || cfg.Search.ParserMode != "rule" {
		t.Errorf("unexpected search config: %+v", cfg.Search)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port default = %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("backend default = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout().Seconds() != 30 {
		t.Errorf("timeout default = %v", cfg.Backend.Timeout())
	}
	if cfg.Search.TopK != 10 || cfg.Search.ParserMode != "llm" {
		t.Errorf("search defaults = %+v", cfg.Search)
	}
	if !cfg.Search.UseExpandOrDefault() {
		t.Error("use_expand should default to true when unset")
	}
	if cfg.Search.UseOr {
		t.Error("use_or should default to false")
	}
}

func TestLoad_useExpandExplicitFalse(t *testing.T) {
	path := writeConfig(t, `
search:
  use_expand: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.UseExpandOrDefault() {
		t.Error("explicit use_expand: false must stick")
	}
}

func TestLoad_rejectsBadEnums(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad parser mode", "search:\n  parser_mode: \"magic\"\n"},
		{"bad highlight policy", "search:\n  highlight_policy: \"both\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSearchConfig_Options(t *testing.T) {
	path := writeConfig(t, `
search:
  top_k: 15
  use_or: true
  highlight_policy: "original_plus_expansion"
  ce_key: "bge-base"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.Search.Options()
	if !opts.UseBM25 {
		t.Error("use_bm25 is always true on the wire")
	}
	if !opts.UseOrFallback || opts.TopK != 15 || opts.CEKey != "bge-base" {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.HighlightPolicy != render.HighlightOriginalPlusExpansion {
		t.Errorf("policy = %q", opts.HighlightPolicy)
	}
}
