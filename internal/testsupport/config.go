package testsupport

import (
	"path/filepath"
	"testing"

	"shelfarr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scanner.Roots = []string{filepath.Join(base, "audiobooks")}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAudiobookshelf enables the library manager integration against the
// provided server URL.
func WithAudiobookshelf(url, token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audiobookshelf.Enabled = true
		b.cfg.Audiobookshelf.URL = url
		b.cfg.Audiobookshelf.Token = token
	}
}

// WithScannerRoot replaces the scanner roots on the test config.
func WithScannerRoot(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scanner.Roots = []string{path}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
