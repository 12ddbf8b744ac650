// Package config provides configuration management for tabgroups.
// It handles loading and parsing of config.yaml files, exposes feature
// flags and preferences to providers, and keeps a live Store that can be
// swapped when the file is reloaded.
package config

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

const (
	// FeatureTabGroups gates the tab group quick actions.
	FeatureTabGroups = "tabGroups"

	// PrefTabGroupsMinSearchLength is the minimum trimmed query length
	// before tab group actions are offered.
	PrefTabGroupsMinSearchLength = "tabGroups.minSearchLength"

	// DefaultHistoryLimit is the number of picks listed by default.
	DefaultHistoryLimit = 20
)

var (
	// ErrPrefNotFound is returned when a preference key is not set.
	ErrPrefNotFound = errors.New("preference not found")

	// ErrPrefType is returned when a preference holds a value of the wrong type.
	ErrPrefType = errors.New("preference has wrong type")
)

// Config holds all configuration read from config.yaml.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// HistoryLimit is how many recent picks the CLI lists
	HistoryLimit int

	// Features maps a feature name to its variables, e.g. tabGroups.enabled
	Features map[string]map[string]any

	// Prefs holds preference values keyed by dotted name
	Prefs map[string]any
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		HistoryLimit: DefaultHistoryLimit,
		Features: map[string]map[string]any{
			FeatureTabGroups: {"enabled": true},
		},
		Prefs: map[string]any{
			PrefTabGroupsMinSearchLength: 1,
		},
	}
}

// GetFeatureVariable returns a variable of a feature, or false if unset.
func (c *Config) GetFeatureVariable(feature, variable string) (any, bool) {
	if c.Features == nil {
		return nil, false
	}
	vars, ok := c.Features[feature]
	if !ok {
		return nil, false
	}
	value, ok := vars[variable]
	return value, ok
}

// FeatureEnabled reports whether the feature has enabled set to true.
// Anything other than a boolean true counts as disabled.
func (c *Config) FeatureEnabled(feature string) bool {
	value, ok := c.GetFeatureVariable(feature, "enabled")
	if !ok {
		return false
	}
	enabled, ok := value.(bool)
	return ok && enabled
}

// GetInt returns an integer preference.
func (c *Config) GetInt(key string) (int, error) {
	if c.Prefs == nil {
		return 0, fmt.Errorf("%w: %s", ErrPrefNotFound, key)
	}
	value, ok := c.Prefs[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPrefNotFound, key)
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v <= math.MaxInt {
			return int(v), nil
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is %T, want integer", ErrPrefType, key, value)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := &Config{
		LogLevel:     c.LogLevel,
		HistoryLimit: c.HistoryLimit,
		Features:     make(map[string]map[string]any, len(c.Features)),
		Prefs:        make(map[string]any, len(c.Prefs)),
	}
	for name, vars := range c.Features {
		copied := make(map[string]any, len(vars))
		for k, v := range vars {
			copied[k] = v
		}
		clone.Features[name] = copied
	}
	for k, v := range c.Prefs {
		clone.Prefs[k] = v
	}
	return clone
}

// Store holds the current configuration and is safe for concurrent use.
// Readers always see the latest configuration passed to Replace.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewStore creates a Store. A nil config is replaced by the defaults.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{cfg: cfg}
}

// Config returns a copy of the current configuration.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Replace swaps in a new configuration.
func (s *Store) Replace(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// FeatureEnabled reports whether a feature is enabled in the current configuration.
func (s *Store) FeatureEnabled(feature string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.FeatureEnabled(feature)
}

// GetInt returns an integer preference from the current configuration.
func (s *Store) GetInt(key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.GetInt(key)
}
