// Package config loads, normalizes, and validates shelfarr configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: catalog and log directories, provider endpoints, the
// Audiobookshelf connection, and filesystem scan roots.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
