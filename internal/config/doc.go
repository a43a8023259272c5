// Package config loads, normalizes, and validates subsync configuration.
//
// It supplies defaults, expands tilde paths, and reads the TOML file at
// ~/.config/subsync/config.toml (or an explicit path). Obtain settings
// through this package so downstream code receives sanitized paths and
// validated values.
package config
