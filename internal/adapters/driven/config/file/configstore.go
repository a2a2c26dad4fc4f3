// Package file loads pyref configuration from a TOML file. All values
// are plain scalars or durations; no core logic depends on how they
// were loaded, and a missing file means default behaviour.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// fileConfig mirrors the TOML layout of ~/.pyref/config.toml.
type fileConfig struct {
	Cache struct {
		InventoryTTLDays  int `toml:"inventory_ttl_days"`
		ResultTTLHours    int `toml:"result_ttl_hours"`
		DiscoveryTTLHours int `toml:"discovery_ttl_hours"`
		MemorySize        int `toml:"memory_size"`
	} `toml:"cache"`

	Network struct {
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		GitHubToken           string `toml:"github_token"`
	} `toml:"network"`

	Discovery struct {
		Auto *bool `toml:"auto"`
	} `toml:"discovery"`

	Breaker struct {
		FailureThreshold    int `toml:"failure_threshold"`
		SuccessThreshold    int `toml:"success_threshold"`
		TimeoutSeconds      int `toml:"timeout_seconds"`
		ResetTimeoutSeconds int `toml:"reset_timeout_seconds"`
	} `toml:"breaker"`

	Libraries map[string]struct {
		InventoryURL string `toml:"inventory_url"`
		BaseURL      string `toml:"base_url"`
	} `toml:"libraries"`
}

// ConfigStore is a TOML-backed settings source. Load may be called
// again at any time (the serve loop does, on file-change events).
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings
}

// NewConfigStore creates a config store reading configDir/config.toml.
// If configDir is empty, defaults to ~/.pyref.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".pyref")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: domain.DefaultSettings(),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the config file location, whether or not it exists.
func (s *ConfigStore) Path() string { return s.filePath }

// Load re-reads the config file. A missing file resets to defaults.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.mu.Lock()
			s.settings = domain.DefaultSettings()
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	s.mu.Lock()
	s.settings = cfg.toSettings()
	s.mu.Unlock()
	return nil
}

// Settings returns the current settings snapshot with defaults
// applied.
func (s *ConfigStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (c fileConfig) toSettings() domain.Settings {
	set := domain.Settings{
		InventoryTTL:   time.Duration(c.Cache.InventoryTTLDays) * 24 * time.Hour,
		ResultTTL:      time.Duration(c.Cache.ResultTTLHours) * time.Hour,
		DiscoveryTTL:   time.Duration(c.Cache.DiscoveryTTLHours) * time.Hour,
		RequestTimeout: time.Duration(c.Network.RequestTimeoutSeconds) * time.Second,
		GitHubToken:    c.Network.GitHubToken,
		MemoryCacheSize: c.Cache.MemorySize,
		AutoDiscovery:   true,
		Breaker: domain.BreakerConfig{
			FailureThreshold: c.Breaker.FailureThreshold,
			SuccessThreshold: c.Breaker.SuccessThreshold,
			Timeout:          time.Duration(c.Breaker.TimeoutSeconds) * time.Second,
			ResetTimeout:     time.Duration(c.Breaker.ResetTimeoutSeconds) * time.Second,
		},
	}
	if c.Discovery.Auto != nil {
		set.AutoDiscovery = *c.Discovery.Auto
	}
	if len(c.Libraries) > 0 {
		set.Libraries = make(map[string]domain.LibraryOverride, len(c.Libraries))
		for name, lib := range c.Libraries {
			set.Libraries[name] = domain.LibraryOverride{
				InventoryURL: lib.InventoryURL,
				BaseURL:      lib.BaseURL,
			}
		}
	}
	return set.WithDefaults()
}
