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

// Sync holds the knobs of the synchronization engine itself.
type Sync struct {
	SupportedExtensions []string `toml:"supported_extensions"`
	DefaultGrowth       float64  `toml:"default_growth"`
	AssumeYes           bool     `toml:"assume_yes"`
	StrictGuard         bool     `toml:"strict_guard"`
}

// History configures the optional run journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config centralizes every setting the CLI needs.
type Config struct {
	LogDir    string  `toml:"log_dir"`
	LogLevel  string  `toml:"log_level"`
	LogFormat string  `toml:"log_format"`
	Sync      Sync    `toml:"sync"`
	History   History `toml:"history"`
}

// Default returns the repository defaults before any file or environment
// overrides.
func Default() *Config {
	return &Config{
		LogDir:    "~/.local/share/subsync/logs",
		LogLevel:  "info",
		LogFormat: "console",
		Sync: Sync{
			SupportedExtensions: []string{".srt"},
			DefaultGrowth:       1.0,
		},
		History: History{},
	}
}

// Load reads configuration from the given path, or from the default
// location when path is empty. It returns the config, the resolved path,
// whether the file existed, and any error. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, string, bool, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	exists := false

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		exists = true
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply.
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return cfg, resolved, exists, nil
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/subsync/config.toml")
}

// ExpandPath resolves a leading tilde against the user's home directory and
// returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}

// CreateSample writes the embedded sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config %s: %w", target, err)
	}
	return nil
}

// EnsureDirectories creates the directories the tool writes into.
func (c *Config) EnsureDirectories() error {
	if c.LogDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", c.LogDir, err)
	}
	return nil
}

// HistoryPath returns the journal location, defaulting into the log dir.
func (c *Config) HistoryPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.LogDir, "history.db")
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return ExpandPath(path)
	}
	return DefaultConfigPath()
}
