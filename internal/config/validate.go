package config

import (
	"fmt"
	"strings"
)

// normalize expands paths and canonicalizes string values in place.
func (c *Config) normalize() error {
	logDir, err := ExpandPath(c.LogDir)
	if err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}
	c.LogDir = logDir

	if strings.TrimSpace(c.History.Path) != "" {
		historyPath, err := ExpandPath(c.History.Path)
		if err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
		c.History.Path = historyPath
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	exts := make([]string, 0, len(c.Sync.SupportedExtensions))
	for _, ext := range c.Sync.SupportedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Sync.SupportedExtensions = exts

	return nil
}

// Validate rejects configurations the engine cannot honor.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}

	if c.Sync.DefaultGrowth < 1.0 {
		return fmt.Errorf("sync.default_growth: minimum growth factor is 1.0, got %g", c.Sync.DefaultGrowth)
	}

	if len(c.Sync.SupportedExtensions) == 0 {
		return fmt.Errorf("sync.supported_extensions: at least one extension is required")
	}

	return nil
}
