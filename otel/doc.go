// Package otel provides OpenTelemetry integration for xanthos set metrics.
//
// This package implements the xanthos.MetricsCollector interface using
// OpenTelemetry, enabling enterprise-grade observability with automatic
// percentile calculation (p50, p95, p99) and multi-backend support
// (Prometheus, Jaeger, DataDog, Grafana).
//
// # Features
//
//   - Automatic percentile calculation via OTEL Histograms (p50, p95, p99, p99.9)
//   - Insert/erase outcome tracking with counters
//   - Probe length distribution (all operation kinds share one histogram)
//   - Expansion and migration monitoring
//   - Thread-safe, lock-free implementation
//   - Compatible with any OTEL backend (Prometheus, Jaeger, DataDog, etc.)
//   - Optional: separate module, no impact on core xanthos performance
//
// # Usage
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup OTEL with Prometheus exporter
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	// Create collector
//	collector, _ := xanthosotel.NewOTelMetricsCollector(provider)
//
//	// Configure xanthos set
//	set, _ := xanthos.New(xanthos.Config{
//	    NumThreads:       8,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - xanthos_insert_latency_ns: Histogram of InsertIfAbsent latencies in nanoseconds
//   - xanthos_erase_latency_ns: Histogram of Erase latencies in nanoseconds
//   - xanthos_probe_steps: Histogram of probe lengths per operation
//   - xanthos_inserts_total: Counter of inserts that changed the set
//   - xanthos_insert_noops_total: Counter of inserts that found the key present
//   - xanthos_erases_total: Counter of erases that changed the set
//   - xanthos_erase_noops_total: Counter of erases that found the key absent
//   - xanthos_expansions_total: Counter of generation installations
//   - xanthos_migrated_keys_total: Counter of live keys copied between generations
//   - xanthos_migration_retries_total: Counter of operations republished on a new generation
//
// All metrics are automatically aggregated by the OTEL SDK and can be exported
// to any OTEL-compatible backend. Histograms automatically calculate percentiles.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel
