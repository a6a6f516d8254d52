package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	stateFileName = "mdt8.json"
	indexFileName = "mdt8.db"
)

// Config is resolved once per invocation from the environment, then
// overridden by command-line flags.
type Config struct {
	StatePath  string `env:"MDT8_CONFIG"`
	IndexPath  string `env:"MDT8_INDEX"`
	JournalDir string `env:"MDT8_JOURNAL_DIR"`
	LogLevel   string `env:"MDT8_LOG_LEVEL" envDefault:"warn"`
	ConfigHome string `env:"XDG_CONFIG_HOME"`
}

// Overrides carries flag values; empty fields leave the environment value.
type Overrides struct {
	StatePath  string
	JournalDir string
	Verbose    bool
}

func New(overrides Overrides) (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(overrides.StatePath) != "" {
		cfg.StatePath = overrides.StatePath
	}
	if strings.TrimSpace(overrides.JournalDir) != "" {
		cfg.JournalDir = overrides.JournalDir
	}
	if overrides.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.StatePath == "" {
		path, err := DefaultStatePath(cfg.ConfigHome)
		if err != nil {
			return Config{}, err
		}
		cfg.StatePath = path
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = filepath.Join(filepath.Dir(cfg.StatePath), indexFileName)
	}
	return cfg, nil
}

// DefaultStatePath places the state file in configHome, falling back to
// ~/.config when it is empty.
func DefaultStatePath(configHome string) (string, error) {
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, stateFileName), nil
}
