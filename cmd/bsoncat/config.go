package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("failed to read config file")
	errConfigInvalid      = errors.New("invalid config file")
)

// Config holds bsoncat's tunables: everything that is not a per-invocation
// flag or positional argument.
type Config struct {
	Pretty      bool   `json:"pretty,omitempty"`
	HistoryFile string `json:"history_file,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// ConfigFileName is the project-local config file name.
const ConfigFileName = ".bsoncatrc"

// DefaultConfig returns bsoncat's built-in defaults.
func DefaultConfig() Config {
	return Config{
		Pretty: false,
	}
}

// ConfigSources tracks which config files were loaded, for diagnostics.
type ConfigSources struct {
	Global  string
	Project string
}

// getGlobalConfigPath returns $XDG_CONFIG_HOME/bsoncat/config.json, falling
// back to ~/.config/bsoncat/config.json.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "bsoncat", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bsoncat", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "bsoncat", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest
// wins): defaults, global user config, project config (or an explicit
// config file), CLI flag overrides.
func LoadConfig(workDir, configPath string, cliOverrides Config, hasPrettyOverride bool, env []string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalCfg, globalPath, err := loadConfigLayer(getGlobalConfigPath(env), false)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	var projectFile string

	var mustExist bool

	if configPath != "" {
		projectFile = configPath
		if !filepath.IsAbs(projectFile) {
			projectFile = filepath.Join(workDir, projectFile)
		}

		mustExist = true
	} else {
		projectFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	projectCfg, projectPath, err := loadConfigLayer(projectFile, mustExist)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if hasPrettyOverride {
		cfg.Pretty = cliOverrides.Pretty
	}

	return cfg, sources, nil
}

// loadConfigLayer loads a single JSONC config file. A missing optional file
// is not an error; a missing required (mustExist) file is.
func loadConfigLayer(path string, mustExist bool) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled, not untrusted input
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}

			return Config{}, "", nil
		}

		return Config{}, "", fmt.Errorf("%w: %s", errConfigFileRead, path)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, path, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Pretty {
		base.Pretty = true
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	return base
}

// FormatConfig renders cfg as formatted JSON, for `bsoncat --show-config`.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
