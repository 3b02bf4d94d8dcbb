package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfarr/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Providers.Audnexus.BaseURL != "https://api.audnex.us" {
		t.Fatalf("unexpected audnexus default: %q", cfg.Providers.Audnexus.BaseURL)
	}
	if cfg.Scan.Parallelism <= 0 {
		t.Fatal("default parallelism must be positive")
	}
	if cfg.Providers.LanguageFilter != "all" {
		t.Fatalf("language filter default = %q", cfg.Providers.LanguageFilter)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[providers.audnexus]
base_url = "https://audnexus.example.com/"
request_timeout = 5

[scanner]
roots = ["` + dir + `/books"]
extensions = ["M4B", ".mp3"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Providers.Audnexus.BaseURL != "https://audnexus.example.com" {
		t.Fatalf("base url not trimmed: %q", cfg.Providers.Audnexus.BaseURL)
	}
	if cfg.Scanner.Extensions[0] != ".m4b" || cfg.Scanner.Extensions[1] != ".mp3" {
		t.Fatalf("extensions not normalized: %v", cfg.Scanner.Extensions)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			wantSub: "logging.format",
		},
		{
			name:    "abs enabled without url",
			content: "[audiobookshelf]\nenabled = true\ntoken = \"tok\"\n",
			wantSub: "audiobookshelf.url",
		},
		{
			name:    "zero parallelism",
			content: "[scan]\nparallelism = 0\n",
			wantSub: "scan.parallelism",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantSub, err)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected sample format: %q", cfg.Logging.Format)
	}
}
