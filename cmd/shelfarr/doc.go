// Package main hosts the shelfarr CLI entrypoint and command graph.
//
// The Cobra-based command tree covers author tracking, provider scans,
// single-item match evaluation, duplicate author review and merging, book
// curation, and configuration scaffolding. It centralizes configuration
// resolution, catalog store access, and logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
