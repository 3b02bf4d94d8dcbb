package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Provider contains the connection settings for one metadata provider.
type Provider struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Providers contains configuration for the metadata provider clients.
type Providers struct {
	Audnexus    Provider `toml:"audnexus"`
	GoogleBooks Provider `toml:"google_books"`
	OpenLibrary Provider `toml:"openlibrary"`
	// LanguageFilter restricts provider results to one language code, or
	// "all" to disable filtering.
	LanguageFilter string `toml:"language_filter"`
}

// Audiobookshelf contains configuration for the library manager integration.
type Audiobookshelf struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Scanner contains configuration for the filesystem audiobook scanner.
type Scanner struct {
	// Roots are the directories walked for audiobook files.
	Roots []string `toml:"roots"`
	// Extensions lists the audio file extensions considered audiobooks.
	Extensions []string `toml:"extensions"`
}

// Notifications contains configuration for push notifications.
type Notifications struct {
	// NtfyTopic is the full ntfy topic URL. Empty disables notifications.
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Scan contains configuration for batch matching runs.
type Scan struct {
	// Parallelism bounds concurrent scoring within one author's batch.
	Parallelism int `toml:"parallelism"`
}

// Config encapsulates all configuration values for shelfarr.
//
// Configuration sections by subsystem:
//   - Paths: catalog database and log directories
//   - Providers: metadata provider endpoints and language filtering
//   - Audiobookshelf: library manager connection
//   - Scanner: filesystem roots and file extensions
//   - Scan: batch matching parallelism
//   - Logging: log format and level
type Config struct {
	Paths          Paths          `toml:"paths"`
	Providers      Providers      `toml:"providers"`
	Audiobookshelf Audiobookshelf `toml:"audiobookshelf"`
	Scanner        Scanner        `toml:"scanner"`
	Scan           Scan           `toml:"scan"`
	Notifications  Notifications  `toml:"notifications"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfarr/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	for i, root := range c.Scanner.Roots {
		if c.Scanner.Roots[i], err = expandPath(root); err != nil {
			return fmt.Errorf("scanner.roots[%d]: %w", i, err)
		}
	}
	for i, ext := range c.Scanner.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Scanner.Extensions[i] = ext
	}
	c.Providers.Audnexus.BaseURL = strings.TrimRight(strings.TrimSpace(c.Providers.Audnexus.BaseURL), "/")
	c.Providers.GoogleBooks.BaseURL = strings.TrimRight(strings.TrimSpace(c.Providers.GoogleBooks.BaseURL), "/")
	c.Providers.OpenLibrary.BaseURL = strings.TrimRight(strings.TrimSpace(c.Providers.OpenLibrary.BaseURL), "/")
	c.Audiobookshelf.URL = strings.TrimRight(strings.TrimSpace(c.Audiobookshelf.URL), "/")
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Providers.LanguageFilter == "" {
		c.Providers.LanguageFilter = "all"
	}
	return nil
}

// EnsureDirectories creates the configured data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the catalog database location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// WriteSample writes the annotated sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
