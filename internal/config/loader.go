package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Loader handles loading and parsing of config.yaml files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	Errors []error
}

// fileConfig mirrors the on-disk layout. Pointer fields distinguish
// "unset" from zero values so defaults survive partial files.
type fileConfig struct {
	LogLevel     *string                   `yaml:"logLevel"`
	HistoryLimit *int                      `yaml:"historyLimit"`
	Features     map[string]map[string]any `yaml:"features"`
	Prefs        map[string]any            `yaml:"prefs"`
}

// LoadFromFile loads configuration from a config.yaml file.
// Returns the configuration and any non-fatal errors encountered.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
			return &LoadResult{
				Config: DefaultConfig(),
				Errors: []error{},
			}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return l.LoadFromString(string(content))
}

// LoadFromString loads configuration from a YAML string.
func (l *Loader) LoadFromString(source string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(source), &fc); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
		// Continue with defaults on parse errors
		return result, nil
	}

	l.applyFileConfig(&fc, result)

	for _, err := range result.Errors {
		l.logger.Warn("config error", zap.Error(err))
	}

	return result, nil
}

func (l *Loader) applyFileConfig(fc *fileConfig, result *LoadResult) {
	cfg := result.Config

	if fc.LogLevel != nil {
		if validLogLevels[*fc.LogLevel] {
			cfg.LogLevel = *fc.LogLevel
		} else {
			result.Errors = append(result.Errors, fmt.Errorf("invalid logLevel %q", *fc.LogLevel))
		}
	}

	if fc.HistoryLimit != nil {
		if *fc.HistoryLimit > 0 {
			cfg.HistoryLimit = *fc.HistoryLimit
		} else {
			result.Errors = append(result.Errors, fmt.Errorf("historyLimit must be positive, got %d", *fc.HistoryLimit))
		}
	}

	for name, vars := range fc.Features {
		merged, ok := cfg.Features[name]
		if !ok {
			merged = make(map[string]any, len(vars))
			cfg.Features[name] = merged
		}
		for k, v := range vars {
			merged[k] = v
		}
		if enabled, ok := merged["enabled"]; ok {
			if _, isBool := enabled.(bool); !isBool {
				result.Errors = append(result.Errors, fmt.Errorf("features.%s.enabled must be a boolean, got %T", name, enabled))
			}
		}
	}

	// Invalid preference values are kept as-is: consumers treat them
	// as "feature inactive" rather than silently using a default.
	for key, value := range fc.Prefs {
		cfg.Prefs[key] = value
	}
	if n, err := cfg.GetInt(PrefTabGroupsMinSearchLength); err != nil {
		result.Errors = append(result.Errors, err)
	} else if n < 0 {
		result.Errors = append(result.Errors, fmt.Errorf("%s must not be negative, got %d", PrefTabGroupsMinSearchLength, n))
	}
}
