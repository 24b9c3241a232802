package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends selectable in Config.Backend.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by OpenStorage for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Config holds application configuration.
type Config struct {
	Backend         string `json:"backend" envconfig:"BACKEND"`
	DataDir         string `json:"dataDir" envconfig:"DATA_DIR"`
	ChromePath      string `json:"chromePath" envconfig:"CHROME_PATH"`
	Headless        bool   `json:"headless" envconfig:"HEADLESS"`
	WindowWidth     int    `json:"windowWidth" envconfig:"WINDOW_WIDTH"`
	WindowHeight    int    `json:"windowHeight" envconfig:"WINDOW_HEIGHT"`
	LogLevel        string `json:"logLevel" envconfig:"LOG_LEVEL"`
	LogFile         string `json:"logFile" envconfig:"LOG_FILE"`
	LogDevelopment  bool   `json:"logDevelopment" envconfig:"LOG_DEV"`
	BackgroundAudio bool   `json:"backgroundAudio" envconfig:"BACKGROUND_AUDIO"`
}

// envPrefix namespaces environment overrides, e.g. YUEDU_CHROME_PATH.
const envPrefix = "YUEDU"

// DefaultConfig returns the default configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Backend:         BackendSQLite,
		DataDir:         dir,
		WindowWidth:     430,
		WindowHeight:    932,
		LogLevel:        "info",
		LogFile:         filepath.Join(dir, "yuedu.log"),
		BackgroundAudio: true,
	}
}

// LoadConfig reads config from the JSON file, then applies YUEDU_* environment
// overrides. Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: keep defaults even if the file can't be created
		_ = SaveConfig(path, &config)
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig(filepath.Dir(path))
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.LogFile == "" {
		config.LogFile = defaults.LogFile
	}
	if config.WindowWidth <= 0 || config.WindowHeight <= 0 {
		config.WindowWidth, config.WindowHeight = defaults.WindowWidth, defaults.WindowHeight
	}

	return &config, nil
}

// applyEnv overrides config fields with any YUEDU_* variables that are set.
// envconfig only touches fields whose variable is present because no field
// declares a default tag.
func applyEnv(config *Config) error {
	if err := envconfig.Process(envPrefix, config); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigDir returns the default config directory: ~/.config/yuedu
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "yuedu"), nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/yuedu/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
