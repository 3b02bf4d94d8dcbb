package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateAudiobookshelf(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateProviders() error {
	for _, provider := range []struct {
		name string
		cfg  Provider
	}{
		{"providers.audnexus", c.Providers.Audnexus},
		{"providers.google_books", c.Providers.GoogleBooks},
		{"providers.openlibrary", c.Providers.OpenLibrary},
	} {
		if provider.cfg.BaseURL == "" {
			return fmt.Errorf("%s.base_url must be set", provider.name)
		}
		if provider.cfg.RequestTimeout <= 0 {
			return fmt.Errorf("%s.request_timeout must be positive", provider.name)
		}
	}
	return nil
}

func (c *Config) validateAudiobookshelf() error {
	if !c.Audiobookshelf.Enabled {
		return nil
	}
	if c.Audiobookshelf.URL == "" {
		return errors.New("audiobookshelf.url must be set when audiobookshelf.enabled is true")
	}
	if c.Audiobookshelf.Token == "" {
		return errors.New("audiobookshelf.token must be set when audiobookshelf.enabled is true")
	}
	if c.Audiobookshelf.RequestTimeout <= 0 {
		return errors.New("audiobookshelf.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Parallelism <= 0 {
		return errors.New("scan.parallelism must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
