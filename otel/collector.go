// collector.go: OpenTelemetry MetricsCollector for xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements xanthos.MetricsCollector using OpenTelemetry.
//
// This collector records set operations to OpenTelemetry metrics, enabling
// enterprise-grade observability with automatic percentile calculation and
// multi-backend support.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
//
// Performance: Minimal overhead (<100ns per operation), allocation-free after initialization.
type OTelMetricsCollector struct {
	insertLatency metric.Int64Histogram // InsertIfAbsent latency histogram
	eraseLatency  metric.Int64Histogram // Erase latency histogram
	probeSteps    metric.Int64Histogram // Probe length per operation

	inserts          metric.Int64Counter // Inserts that changed the set
	insertNoops      metric.Int64Counter // Inserts that found the key present
	erases           metric.Int64Counter // Erases that changed the set
	eraseNoops       metric.Int64Counter // Erases that found the key absent
	expansions       metric.Int64Counter // Generation installations
	migratedKeys     metric.Int64Counter // Live keys copied between generations
	migrationRetries metric.Int64Counter // Operations republished on a new generation
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/xanthos"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// This is useful for distinguishing metrics from multiple set instances
// or integrating with existing OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Parameters:
//   - provider: OpenTelemetry MeterProvider. Must not be nil.
//   - opts: Optional configuration options (meter name, etc.)
//
// The collector creates Int64Histograms for latencies and probe lengths
// and Int64Counters for operation outcomes, expansions and migration
// activity. All instruments are thread-safe and lock-free.
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/xanthos",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)

	collector := &OTelMetricsCollector{}

	var err error
	collector.insertLatency, err = meter.Int64Histogram(
		"xanthos_insert_latency_ns",
		metric.WithDescription("Latency of InsertIfAbsent operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.eraseLatency, err = meter.Int64Histogram(
		"xanthos_erase_latency_ns",
		metric.WithDescription("Latency of Erase operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.probeSteps, err = meter.Int64Histogram(
		"xanthos_probe_steps",
		metric.WithDescription("Linear probe length per operation"),
	)
	if err != nil {
		return nil, err
	}

	collector.inserts, err = meter.Int64Counter(
		"xanthos_inserts_total",
		metric.WithDescription("Total number of inserts that changed the set"),
	)
	if err != nil {
		return nil, err
	}

	collector.insertNoops, err = meter.Int64Counter(
		"xanthos_insert_noops_total",
		metric.WithDescription("Total number of inserts that found the key already present"),
	)
	if err != nil {
		return nil, err
	}

	collector.erases, err = meter.Int64Counter(
		"xanthos_erases_total",
		metric.WithDescription("Total number of erases that changed the set"),
	)
	if err != nil {
		return nil, err
	}

	collector.eraseNoops, err = meter.Int64Counter(
		"xanthos_erase_noops_total",
		metric.WithDescription("Total number of erases that found the key absent"),
	)
	if err != nil {
		return nil, err
	}

	collector.expansions, err = meter.Int64Counter(
		"xanthos_expansions_total",
		metric.WithDescription("Total number of generation installations"),
	)
	if err != nil {
		return nil, err
	}

	collector.migratedKeys, err = meter.Int64Counter(
		"xanthos_migrated_keys_total",
		metric.WithDescription("Total number of live keys copied between generations"),
	)
	if err != nil {
		return nil, err
	}

	collector.migrationRetries, err = meter.Int64Counter(
		"xanthos_migration_retries_total",
		metric.WithDescription("Total number of operations republished against a new generation"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordInsert records an InsertIfAbsent operation.
//
// Records latency to the insert histogram and increments the changed or
// no-op counter depending on the outcome.
//
// Thread-safety: Safe for concurrent use.
// Performance: ~50-100ns overhead, allocation-free.
func (c *OTelMetricsCollector) RecordInsert(latencyNs int64, added bool) {
	ctx := context.Background()
	c.insertLatency.Record(ctx, latencyNs)
	if added {
		c.inserts.Add(ctx, 1)
	} else {
		c.insertNoops.Add(ctx, 1)
	}
}

// RecordErase records an Erase operation.
//
// Records latency to the erase histogram and increments the changed or
// no-op counter depending on the outcome.
//
// Thread-safety: Safe for concurrent use.
// Performance: ~50-100ns overhead, allocation-free.
func (c *OTelMetricsCollector) RecordErase(latencyNs int64, removed bool) {
	ctx := context.Background()
	c.eraseLatency.Record(ctx, latencyNs)
	if removed {
		c.erases.Add(ctx, 1)
	} else {
		c.eraseNoops.Add(ctx, 1)
	}
}

// RecordProbeLength records the number of probe steps an operation took.
// The operation kind is not attached as an attribute to keep the record
// allocation-free; use separate collectors per set when the split matters.
func (c *OTelMetricsCollector) RecordProbeLength(steps int, operation string) {
	c.probeSteps.Record(context.Background(), int64(steps))
}

// RecordExpansion records the installation of a new generation.
func (c *OTelMetricsCollector) RecordExpansion(oldCapacity, newCapacity int) {
	c.expansions.Add(context.Background(), 1)
}

// RecordMigratedChunk records the completion of one migration chunk.
func (c *OTelMetricsCollector) RecordMigratedChunk(liveKeys int) {
	c.migratedKeys.Add(context.Background(), int64(liveKeys))
}

// RecordMigrationRetry records an operation restarting on a newer generation.
func (c *OTelMetricsCollector) RecordMigrationRetry(operation string) {
	c.migrationRetries.Add(context.Background(), 1)
}
