package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/metadata"
	"gopkg.in/yaml.v3"
)

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// EnvConfigPath names the environment variable holding the config file path
	EnvConfigPath = "PNGINFO_CONFIG"

	// files larger than this are not configuration
	maxConfigFileSize = 1 << 20
)

// Config is the configuration shared by the command line tools
type Config struct {
	LogConfig    LogConfig    `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ViewerConfig ViewerConfig `json:"viewer_config,omitempty" yaml:"viewer_config,omitempty"`
	RenderConfig RenderConfig `json:"render_config,omitempty" yaml:"render_config,omitempty"`
}

type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"min=0"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"min=0"`
}

func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// ViewerConfig holds the field lists and parsing settings used by the views
type ViewerConfig struct {
	DisplayFields    []string `json:"display_fields,omitempty" yaml:"display_fields,omitempty" validate:"min=1,dive,required"`
	CompareFields    []string `json:"compare_fields,omitempty" yaml:"compare_fields,omitempty" validate:"min=1,dive,required"`
	TextEncoderClass string   `json:"text_encoder_class,omitempty" yaml:"text_encoder_class,omitempty" validate:"required"`
	// Filter is the default prompt filter expression, empty for none
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

func NewDefaultViewerConfig() ViewerConfig {
	return ViewerConfig{
		DisplayFields:    append([]string(nil), differ.DefaultDisplayFields...),
		CompareFields:    append([]string(nil), differ.DefaultCompareFields...),
		TextEncoderClass: metadata.DefaultTextEncoderClass,
	}
}

// RenderConfig controls terminal output
type RenderConfig struct {
	NoColor    bool `json:"no_color" yaml:"no_color"`
	InlineDiff bool `json:"inline_diff" yaml:"inline_diff"`
	Width      int  `json:"width,omitempty" yaml:"width,omitempty" validate:"omitempty,min=20"`
}

func NewDefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NoColor:    false,
		InlineDiff: false,
		Width:      0,
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		LogConfig:    NewDefaultLogConfig(),
		ViewerConfig: NewDefaultViewerConfig(),
		RenderConfig: NewDefaultRenderConfig(),
	}
}

// GetConfigPath determines the configuration file path.
// Priority:
// 1. the path given on the command line
// 2. PNGINFO_CONFIG environment variable
// 3. pnginfo.yaml, pnginfo.yml, pnginfo.json in the current working directory
// 4. the same names in the executable's directory
func GetConfigPath(providedPath string) string {
	if providedPath != "" {
		return providedPath
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	locations := []string{}
	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, cwd)
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		if len(locations) == 0 || locations[0] != exeDir {
			locations = append(locations, exeDir)
		}
	}

	for _, loc := range locations {
		for _, file := range []string{"pnginfo.yaml", "pnginfo.yml", "pnginfo.json"} {
			path := filepath.Join(loc, file)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Load reads the configuration from providedPath or the default locations and validates it.
// Defaults are returned when no configuration file exists.
func Load(providedPath string) (*Config, error) {
	cfg := NewDefaultConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", filePath, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is too large (%d bytes)", filePath, info.Size())
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseConfigContent(data []byte, filePath string, cfg *Config) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
