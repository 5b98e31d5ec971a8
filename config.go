// config.go: configuration for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the set.
type Config struct {
	// NumThreads is the maximum number of threads that will ever operate
	// on the set; every call supplies a tid in [0, NumThreads).
	// Default: runtime.GOMAXPROCS(0).
	NumThreads int

	// InitialCapacity is the cell count of the first generation. The first
	// expansion starts once inserts into it exceed half this count.
	// Default: DefaultInitialCapacity.
	InitialCapacity int

	// MaxProbe is the probe length after which an insert confirms the
	// cheap load estimate with an accurate counter read before expanding.
	// Default: DefaultMaxProbe. Hot-reloadable via HotConfig.
	MaxProbe int

	// ExpansionFactor multiplies max(population, capacity) to size a new
	// generation. Must be >= 2. Default: DefaultExpansionFactor.
	// Hot-reloadable via HotConfig.
	ExpansionFactor int

	// ChunkSize is the number of old cells migrated per work-stealing
	// claim. Default: DefaultChunkSize.
	ChunkSize int

	// Logger is used for expansion events and boundary rejections.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metric latencies.
	// If nil, a default implementation is used. Default: system time.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	// Use this to integrate with OpenTelemetry, Prometheus, or other
	// monitoring systems.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies sensible defaults.
// It is automatically called by New, so you typically don't need to call
// it manually; it is public so the normalized configuration can be
// inspected before creating a set.
//
// Default values applied:
//   - NumThreads: runtime.GOMAXPROCS(0) if 0
//   - InitialCapacity: DefaultInitialCapacity (16,384) if 0
//   - MaxProbe: DefaultMaxProbe (100) if <= 0
//   - ExpansionFactor: DefaultExpansionFactor (4) if < 2
//   - ChunkSize: DefaultChunkSize (4,096) if <= 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
//
// Negative NumThreads or InitialCapacity cannot be normalized and yield a
// structured error.
func (c *Config) Validate() error {
	if c.NumThreads < 0 {
		return NewErrInvalidNumThreads(c.NumThreads)
	}
	if c.NumThreads == 0 {
		c.NumThreads = runtime.GOMAXPROCS(0)
	}

	if c.InitialCapacity < 0 {
		return NewErrInvalidCapacity(c.InitialCapacity)
	}
	if c.InitialCapacity == 0 {
		c.InitialCapacity = DefaultInitialCapacity
	}

	if c.MaxProbe <= 0 {
		c.MaxProbe = DefaultMaxProbe
	}

	if c.ExpansionFactor < 2 {
		c.ExpansionFactor = DefaultExpansionFactor
	}

	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumThreads:       runtime.GOMAXPROCS(0),
		InitialCapacity:  DefaultInitialCapacity,
		MaxProbe:         DefaultMaxProbe,
		ExpansionFactor:  DefaultExpansionFactor,
		ChunkSize:        DefaultChunkSize,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides ~121x faster time access compared to time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
