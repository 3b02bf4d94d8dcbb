// Package logging constructs the application's slog loggers and provides
// typed attribute helpers so call sites stay terse and consistent.
//
// Two handler formats are supported: a compact console handler for
// interactive use and a JSON handler for machine consumption. Output can fan
// out to stdout/stderr and a log file simultaneously.
package logging
