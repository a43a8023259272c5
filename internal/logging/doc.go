// Package logging constructs the slog loggers used across subsync.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. NewFromConfig additionally tees
// events into a log file under the configured log directory.
package logging
