// Package xanthos provides a concurrent, lock-free, expandable set of
// 32-bit integer keys.
//
// Xanthos stores keys in a single open-addressed table of atomic 32-bit
// cells and grows cooperatively: any thread that notices the table is
// overloaded installs a larger generation, and every thread that touches
// the set afterwards helps migrate the old cells in fixed-size chunks.
//
// Example usage:
//
//	set, err := xanthos.New(xanthos.Config{
//		NumThreads:      8,
//		InitialCapacity: 1 << 16,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	set.InsertIfAbsent(tid, 42)
//	set.Erase(tid, 42)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

const (
	// Version of Xanthos set library
	Version = "v0.1.0-dev"

	// DefaultInitialCapacity is the default initial number of cells
	DefaultInitialCapacity = 16_384

	// DefaultMaxProbe is the default probe length after which an insert
	// confirms the load estimate with an accurate counter read
	DefaultMaxProbe = 100

	// DefaultExpansionFactor is the default capacity multiplier applied
	// when a new generation is created
	DefaultExpansionFactor = 4

	// DefaultChunkSize is the default number of old cells migrated per
	// work-stealing claim
	DefaultChunkSize = 4096
)

// Cell sentinels. A cell is a single 32-bit word: EMPTY, TOMBSTONE, or a
// live key in [MinKey, MaxKey]. The mark bit overlays all three encodings;
// once set, the cell is frozen for the rest of its generation's life.
const (
	cellEmpty     uint32 = 0
	cellTombstone uint32 = 0x7FFFFFFF
	cellMark      uint32 = 0x80000000

	// MinKey is the smallest storable key.
	MinKey int32 = 1

	// MaxKey is the largest storable key. The values above it are reserved
	// for the tombstone sentinel and the migration mark bit.
	MaxKey int32 = 0x7FFFFFFE
)
