package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
	"shelfarr/internal/library"
	"shelfarr/internal/logging"
	"shelfarr/internal/providers/audnexus"
	"shelfarr/internal/providers/googlebooks"
	"shelfarr/internal/providers/openlibrary"
	"shelfarr/internal/reconcile"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withStore opens the catalog store for the duration of one command.
func (c *commandContext) withStore(fn func(*config.Config, *catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// withService opens the store and builds the scan service around it.
func (c *commandContext) withService(fn func(*config.Config, *catalog.Store, *reconcile.Service) error) error {
	return c.withStore(func(cfg *config.Config, store *catalog.Store) error {
		logger, err := c.ensureLogger()
		if err != nil {
			return err
		}
		sources, err := buildSources(cfg)
		if err != nil {
			return err
		}
		return fn(cfg, store, reconcile.New(store, sources, cfg, logger))
	})
}

// buildSources constructs one client per configured metadata provider.
func buildSources(cfg *config.Config) ([]reconcile.Source, error) {
	var sources []reconcile.Source

	if base := cfg.Providers.Audnexus.BaseURL; base != "" {
		client, err := audnexus.New(base, audnexus.WithTimeout(providerTimeout(cfg.Providers.Audnexus)))
		if err != nil {
			return nil, fmt.Errorf("audnexus client: %w", err)
		}
		sources = append(sources, client)
	}
	if base := cfg.Providers.GoogleBooks.BaseURL; base != "" {
		client, err := googlebooks.New(base, googlebooks.WithTimeout(providerTimeout(cfg.Providers.GoogleBooks)))
		if err != nil {
			return nil, fmt.Errorf("google books client: %w", err)
		}
		sources = append(sources, client)
	}
	if base := cfg.Providers.OpenLibrary.BaseURL; base != "" {
		client, err := openlibrary.New(base, openlibrary.WithTimeout(providerTimeout(cfg.Providers.OpenLibrary)))
		if err != nil {
			return nil, fmt.Errorf("openlibrary client: %w", err)
		}
		sources = append(sources, client)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no metadata providers configured")
	}
	return sources, nil
}

func providerTimeout(p config.Provider) time.Duration {
	return time.Duration(p.RequestTimeout) * time.Second
}

// libraryClient returns the Audiobookshelf client, or nil when the
// integration is disabled.
func libraryClient(cfg *config.Config) (*library.Client, error) {
	if !cfg.Audiobookshelf.Enabled {
		return nil, nil
	}
	return library.New(
		cfg.Audiobookshelf.URL,
		cfg.Audiobookshelf.Token,
		library.WithTimeout(time.Duration(cfg.Audiobookshelf.RequestTimeout)*time.Second),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
