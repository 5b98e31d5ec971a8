// hot-reload.go: dynamic tuning with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// HotConfig provides dynamic tuning reload capabilities using Argus.
// It watches a configuration file and automatically updates the set's
// runtime tuning knobs when changes are detected.
type HotConfig struct {
	set     Set
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger is not read by NewHotConfig; HotConfig writes no log lines of
	// its own. Applied tuning is logged through the set's logger.
	Logger Logger
}

// tunable is the runtime-tuning seam between HotConfig and the set
// implementation.
type tunable interface {
	applyTuning(maxProbe, expansionFactor int)
}

// applyTuning installs new values for the hot-applicable knobs. Readers
// pick them up on their next probe pass or expansion.
func (s *hashSet) applyTuning(maxProbe, expansionFactor int) {
	atomic.StoreInt32(&s.maxProbe, int32(maxProbe))               // #nosec G115 - range-checked by parser
	atomic.StoreInt32(&s.expansionFactor, int32(expansionFactor)) // #nosec G115 - range-checked by parser
	s.logger.Info("tuning applied", "max_probe", maxProbe, "expansion_factor", expansionFactor)
}

// NewHotConfig creates a new hot-reloadable tuning watcher for a set.
//
// Example configuration file (YAML):
//
//	set:
//	  max_probe: 100
//	  expansion_factor: 4
//
// Supported configuration keys:
//   - set.max_probe (int): probe length before the accurate load check (1-10000)
//   - set.expansion_factor (int): capacity multiplier per expansion (2-16)
//
// Structural keys (num_threads, initial_capacity, chunk_size) are parsed
// into GetConfig for inspection but require set reconstruction and are
// not applied dynamically.
func NewHotConfig(set Set, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig{
		set:      set,
		OnReload: opts.OnReload,
		config:   DefaultConfig(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
// Note: The watcher monitors file changes at the configured PollInterval.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
// Returns any error from stopping the watcher.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	hc.applyChanges(newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseIntInRange extracts an integer within the specified range [min, max].
// Supports both int and float64 types.
func parseIntInRange(value interface{}, min, max int) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= min && v <= max {
			return v, true
		}
	case float64:
		if v >= float64(min) && v <= float64(max) {
			return int(v), true
		}
	}
	return 0, false
}

// parseConfig extracts set configuration from Argus config data.
func (hc *HotConfig) parseConfig(data map[string]interface{}) Config {
	config := DefaultConfig()

	// Extract set section - Argus might nest it or provide it directly
	setSection, ok := data["set"].(map[string]interface{})
	if !ok {
		// Try if the whole data IS the set section
		if _, hasMaxProbe := data["max_probe"]; hasMaxProbe {
			setSection = data
		} else {
			return config
		}
	}

	if maxProbe, ok := parseIntInRange(setSection["max_probe"], 1, 10_000); ok {
		config.MaxProbe = maxProbe
	}

	if factor, ok := parseIntInRange(setSection["expansion_factor"], 2, 16); ok {
		config.ExpansionFactor = factor
	}

	// Structural knobs: parsed for inspection only
	if numThreads, ok := parsePositiveInt(setSection["num_threads"]); ok {
		config.NumThreads = numThreads
	}
	if capacity, ok := parsePositiveInt(setSection["initial_capacity"]); ok {
		config.InitialCapacity = capacity
	}
	if chunkSize, ok := parsePositiveInt(setSection["chunk_size"]); ok {
		config.ChunkSize = chunkSize
	}

	return config
}

// applyChanges applies tuning changes to the running set. Structural
// changes (NumThreads, InitialCapacity, ChunkSize) require rebuilding the
// set and are not applied here.
func (hc *HotConfig) applyChanges(config Config) {
	if t, ok := hc.set.(tunable); ok {
		t.applyTuning(config.MaxProbe, config.ExpansionFactor)
	}
}
