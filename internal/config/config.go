// Package config handles configuration loading for claude-viewer.
// It supports JSON config files, environment variables, and sensible defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pbrown/claude-viewer/internal/annotations"
)

// Config holds the configuration for claude-viewer.
type Config struct {
	TranscriptDir string `json:"transcript_dir"` // Transcript JSONL files, default: ~/.claude/projects/-root
	DataDir       string `json:"data_dir"`       // Annotation documents and log, default: ~/.local/state/claude-viewer
	StaticDir     string `json:"static_dir"`     // Prebuilt front-end bundle, default: ~/.config/claude-viewer/dist
	Addr          string `json:"addr"`           // Listen address, default: :8000
	DebugLevel    int    `json:"debug_level"`    // Debug level 0-3, from CLAUDE_VIEWER_DEBUG
}

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

// DefaultPath returns the config file consulted when no --config is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "claude-viewer", "config.json")
}

// Load reads configuration from the given JSON file path,
// applies defaults for missing values, and overrides with environment variables.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	// If file doesn't exist, that's fine - we'll use defaults

	applyDefaults(cfg)

	// Env vars take highest precedence
	applyEnvOverrides(cfg)

	if cfg.DebugLevel < 0 {
		cfg.DebugLevel = 0
	}
	if cfg.DebugLevel > 3 {
		cfg.DebugLevel = 3
	}

	return cfg, nil
}

// NamesPath returns the display-name document location.
func (c *Config) NamesPath() string {
	return filepath.Join(c.DataDir, annotations.NamesFile)
}

// ArchivedPath returns the archived-set document location.
func (c *Config) ArchivedPath() string {
	return filepath.Join(c.DataDir, annotations.ArchivedFile)
}

func applyDefaults(cfg *Config) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "/root"
	}

	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = filepath.Join(homeDir, ".claude", "projects", "-root")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(homeDir, ".local", "state", "claude-viewer")
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = filepath.Join(homeDir, ".config", "claude-viewer", "dist")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
}

// applyEnvOverrides overrides config values with environment variables.
// Priority: CLAUDE_VIEWER_* > generic names (CLAUDE_PROJECTS_DIR, PORT)
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CLAUDE_VIEWER_TRANSCRIPTS"); val != "" {
		cfg.TranscriptDir = val
	} else if val := os.Getenv("CLAUDE_PROJECTS_DIR"); val != "" {
		cfg.TranscriptDir = val
	}

	if val := os.Getenv("CLAUDE_VIEWER_DATA"); val != "" {
		cfg.DataDir = val
	}

	if val := os.Getenv("CLAUDE_VIEWER_STATIC"); val != "" {
		cfg.StaticDir = val
	}

	if val := os.Getenv("CLAUDE_VIEWER_ADDR"); val != "" {
		cfg.Addr = val
	} else if val := strings.TrimSpace(os.Getenv("PORT")); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			cfg.Addr = ":" + val
		}
	}

	if val := os.Getenv("CLAUDE_VIEWER_DEBUG"); val != "" {
		if level, err := strconv.Atoi(val); err == nil {
			cfg.DebugLevel = level
		}
	}
}
