// Package xanthos provides a concurrent, lock-free set of 32-bit integer
// keys with cooperative table expansion.
//
// # Overview
//
// Xanthos is designed for write-heavy multi-threaded workloads with focus on:
//   - Concurrency: lock-free linear probing using single-word CAS
//   - Scalability: tid-striped counters keep the sizing estimate off the
//     coherence hot path
//   - Cooperative growth: whichever threads touch the set complete an
//     in-progress expansion in work-stealing chunks
//   - Observability: Logger and MetricsCollector interfaces (OpenTelemetry
//     integration in the optional separate xanthos/otel package)
//
// # Features
//
//   - Open addressing with tombstone deletion: a single atomic 32-bit word
//     per cell, no per-key allocation
//   - Chunk-claim migration: old and new tables coexist while every helper
//     thread claims 4096-cell chunks and re-inserts the live keys
//   - Migration marking: the high bit freezes old cells so mutations and
//     copies never race on a payload
//   - Retry-on-migrated: operations that observe a frozen cell republish
//     against the successor generation
//   - Structured errors: rich validation context with error codes
//   - Hot-reloadable tuning: max_probe and expansion_factor via Argus
//
// # Quick Start
//
//	import "github.com/agilira/xanthos"
//
//	func main() {
//	    set, err := xanthos.New(xanthos.Config{
//	        NumThreads:      8,
//	        InitialCapacity: 1 << 16,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Each worker goroutine owns a distinct tid in [0, NumThreads).
//	    var wg sync.WaitGroup
//	    for tid := 0; tid < 8; tid++ {
//	        wg.Add(1)
//	        go func(tid int) {
//	            defer wg.Done()
//	            for k := int32(1); k <= 1000; k++ {
//	                set.InsertIfAbsent(tid, int32(tid)*1000+k)
//	            }
//	        }(tid)
//	    }
//	    wg.Wait()
//
//	    fmt.Println(set.SumOfKeys()) // quiescent checksum
//	}
//
// # Key Domain
//
// Keys are int32 values in [1, 0x7FFFFFFE]. The two excluded encodings are
// structural: 0 is the empty cell and 0x7FFFFFFF the tombstone, while the
// top bit is the migration mark. Out-of-range keys are rejected at the
// boundary; use KeyInRange to validate input with a structured error.
//
// # Thread Identity
//
// The set is sized for a fixed number of callers declared at construction.
// Every operation takes a stable tid in [0, NumThreads) that indexes the
// striped counters; two goroutines must never share a tid concurrently.
// This is the caller's contract, checked only at the array boundary.
//
// # Expansion
//
// An insert that sees the insert counter above half the capacity (or that
// has probed past MaxProbe with the estimate confirmed) publishes a new
// generation sized at ExpansionFactor times max(population, capacity).
// From that moment every operation on the set helps migrate the old cells:
// chunks are claimed with a fetch-add, each chunk is first frozen by
// setting the mark bit on every cell, then its live payloads are
// re-inserted into the new table. Tombstones are purged by this copy.
// The old array is released only after every chunk has drained.
//
// Erase never grows the table, but every erase probe step helps an
// expansion that is already running.
//
// # Quiescent Operations
//
// SumOfKeys and PrintDiagnostics walk the table without synchronization
// and are meaningful only while no mutator is active. They exist as the
// checksum and debugging surface of the benchmark protocol.
//
// # Error Handling
//
// Hot-path operations report outcomes in their boolean return and never
// allocate errors. Construction and validation use structured errors:
//
//	set, err := xanthos.New(cfg)
//	if err != nil {
//	    if xanthos.IsConfigError(err) {
//	        log.Fatalf("bad config: %v (%s)", err, xanthos.GetErrorCode(err))
//	    }
//	    log.Fatal(err)
//	}
//
// # Observability
//
// Built-in stats tracking:
//
//	stats := set.Stats()
//	fmt.Printf("inserts: %d, erases: %d, expansions: %d\n",
//	    stats.Inserts, stats.Erases, stats.Expansions)
//	fmt.Printf("load factor: %.1f%%\n", stats.LoadFactor())
//
// Enterprise observability with OpenTelemetry (optional):
//
//	import xanthosotel "github.com/agilira/xanthos/otel"
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := xanthosotel.NewOTelMetricsCollector(provider)
//
//	set, _ := xanthos.New(xanthos.Config{
//	    NumThreads:       8,
//	    MetricsCollector: collector, // optional, zero overhead if unset
//	})
//
// The core xanthos package has zero OTEL dependencies. The xanthos/otel
// package is a separate module.
//
// # Hot Reload
//
// The probe and expansion tuning knobs can follow a configuration file at
// runtime via Argus:
//
//	hc, err := xanthos.NewHotConfig(set, xanthos.HotConfigOptions{
//	    ConfigPath: "/etc/myapp/xanthos.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer hc.Stop()
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos
