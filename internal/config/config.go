package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultMaxInput is the longest line the game will parse.
const DefaultMaxInput = 1000

// Config holds the application configuration.
type Config struct {
	WorldFile      string `yaml:"world_file"`
	SaveDir        string `yaml:"save_dir"`
	SavePath       string `yaml:"save_db"`
	TranscriptPath string `yaml:"transcript"`
	MetricsAddr    string `yaml:"metrics_addr"`
	MaxInputLength int    `yaml:"max_input"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty), then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		SaveDir:        ".saves",
		MaxInputLength: DefaultMaxInput,
		LogLevel:       "info",
		LogFormat:      "text",
		GeminiModel:    "gemini-2.5-flash",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	envString(&cfg.WorldFile, "ZPARSE_WORLD")
	envString(&cfg.SaveDir, "ZPARSE_SAVE_DIR")
	envString(&cfg.SavePath, "ZPARSE_SAVE_DB")
	envString(&cfg.TranscriptPath, "ZPARSE_TRANSCRIPT")
	envString(&cfg.MetricsAddr, "ZPARSE_METRICS_ADDR")
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.LogFormat, "LOG_FORMAT")
	envString(&cfg.LogFile, "LOG_FILE")
	envString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	envString(&cfg.GeminiModel, "GEMINI_MODEL")

	if v := os.Getenv("ZPARSE_MAX_INPUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: ZPARSE_MAX_INPUT: %w", err)
		}
		cfg.MaxInputLength = n
	}
	if cfg.MaxInputLength <= 0 {
		return nil, fmt.Errorf("config: max input length must be positive, got %d", cfg.MaxInputLength)
	}

	if cfg.SavePath == "" {
		cfg.SavePath = filepath.Join(cfg.SaveDir, "saves.db")
	}
	if cfg.TranscriptPath == "" {
		cfg.TranscriptPath = filepath.Join(cfg.SaveDir, "transcript.db")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.SaveDir, "game.log")
	}
	return cfg, nil
}

// NarratorEnabled reports whether a Gemini key is configured.
func (c *Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != ""
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}
