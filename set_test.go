// set_test.go: core semantics of insert, erase, contains and checksum
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"
)

func newTestSet(t *testing.T, numThreads, initialCapacity int) Set {
	t.Helper()
	set, err := New(Config{NumThreads: numThreads, InitialCapacity: initialCapacity})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return set
}

// TestSet_SingleThreadedSmallTable inserts and erases a handful of keys in
// a tiny table and checks the checksum after every step.
func TestSet_SingleThreadedSmallTable(t *testing.T) {
	set := newTestSet(t, 1, 8)

	for _, k := range []int32{1, 2, 3, 4} {
		if !set.InsertIfAbsent(0, k) {
			t.Fatalf("InsertIfAbsent(%d) = false, want true", k)
		}
	}
	if sum := set.SumOfKeys(); sum != 10 {
		t.Fatalf("SumOfKeys() = %d, want 10", sum)
	}

	if !set.Erase(0, 2) {
		t.Fatal("Erase(2) = false, want true")
	}
	if sum := set.SumOfKeys(); sum != 8 {
		t.Fatalf("SumOfKeys() after erase = %d, want 8", sum)
	}

	if !set.InsertIfAbsent(0, 2) {
		t.Fatal("re-InsertIfAbsent(2) = false, want true")
	}
	if sum := set.SumOfKeys(); sum != 10 {
		t.Fatalf("SumOfKeys() after re-insert = %d, want 10", sum)
	}
}

// TestSet_DuplicateInsert verifies the second insert of a key is a no-op.
func TestSet_DuplicateInsert(t *testing.T) {
	set := newTestSet(t, 1, 64)

	if !set.InsertIfAbsent(0, 42) {
		t.Fatal("first InsertIfAbsent(42) = false, want true")
	}
	if set.InsertIfAbsent(0, 42) {
		t.Fatal("second InsertIfAbsent(42) = true, want false")
	}
	if sum := set.SumOfKeys(); sum != 42 {
		t.Fatalf("SumOfKeys() = %d, want 42", sum)
	}
}

// TestSet_EraseAbsent verifies erasing an absent key has no effect.
func TestSet_EraseAbsent(t *testing.T) {
	set := newTestSet(t, 1, 64)

	if set.Erase(0, 7) {
		t.Fatal("Erase(7) on empty set = true, want false")
	}

	set.InsertIfAbsent(0, 9)
	if set.Erase(0, 7) {
		t.Fatal("Erase(7) = true, want false")
	}
	if sum := set.SumOfKeys(); sum != 9 {
		t.Fatalf("SumOfKeys() = %d, want 9", sum)
	}
}

// TestSet_InsertEraseInsert verifies the insert/erase/insert law.
func TestSet_InsertEraseInsert(t *testing.T) {
	set := newTestSet(t, 1, 64)

	if !set.InsertIfAbsent(0, 5) {
		t.Fatal("InsertIfAbsent(5) = false, want true")
	}
	if !set.Erase(0, 5) {
		t.Fatal("Erase(5) = false, want true")
	}
	if !set.InsertIfAbsent(0, 5) {
		t.Fatal("re-InsertIfAbsent(5) = false, want true")
	}
	if !set.Contains(0, 5) {
		t.Fatal("Contains(5) = false, want true")
	}
}

// TestSet_CollisionChain forces three keys onto the same probe start and
// verifies tombstone traversal on re-insert.
func TestSet_CollisionChain(t *testing.T) {
	const capacity = 8
	set := newTestSet(t, 1, capacity)
	hs := set.(*hashSet)

	// find three distinct keys sharing a probe start
	target := probeStart(1, capacity)
	var keys []int32
	for k := int32(1); len(keys) < 3 && k < 1<<20; k++ {
		if probeStart(k, capacity) == target {
			keys = append(keys, k)
		}
	}
	if len(keys) < 3 {
		t.Fatal("could not find colliding keys")
	}

	var want int64
	for _, k := range keys {
		if !set.InsertIfAbsent(0, k) {
			t.Fatalf("InsertIfAbsent(%d) = false, want true", k)
		}
		want += int64(k)
	}

	b := keys[1]
	if !set.Erase(0, b) {
		t.Fatalf("Erase(%d) = false, want true", b)
	}
	if !set.InsertIfAbsent(0, b) {
		t.Fatalf("re-InsertIfAbsent(%d) = false, want true", b)
	}
	if sum := set.SumOfKeys(); sum != want {
		t.Fatalf("SumOfKeys() = %d, want %d", sum, want)
	}

	// the tombstone was traversed, not reclaimed: b sits past it now
	gen := hs.currentGen()
	var tombstones int
	for i := range gen.data {
		if payload(gen.data[i]) == cellTombstone {
			tombstones++
		}
	}
	if tombstones != 1 {
		t.Fatalf("tombstones = %d, want 1", tombstones)
	}
}

// TestSet_Contains covers present, absent and erased keys.
func TestSet_Contains(t *testing.T) {
	set := newTestSet(t, 1, 64)

	if set.Contains(0, 11) {
		t.Fatal("Contains(11) on empty set = true, want false")
	}
	set.InsertIfAbsent(0, 11)
	if !set.Contains(0, 11) {
		t.Fatal("Contains(11) = false, want true")
	}
	set.Erase(0, 11)
	if set.Contains(0, 11) {
		t.Fatal("Contains(11) after erase = true, want false")
	}
}

// TestSet_BoundaryRejection verifies out-of-range keys and tids are
// refused without touching the table.
func TestSet_BoundaryRejection(t *testing.T) {
	set := newTestSet(t, 2, 64)

	rejected := []struct {
		name string
		tid  int
		key  int32
	}{
		{"key zero", 0, 0},
		{"key negative", 0, -5},
		{"key tombstone", 0, 0x7FFFFFFF},
		{"tid negative", -1, 10},
		{"tid too large", 2, 10},
	}
	for _, tc := range rejected {
		if set.InsertIfAbsent(tc.tid, tc.key) {
			t.Errorf("%s: InsertIfAbsent = true, want false", tc.name)
		}
		if set.Erase(tc.tid, tc.key) {
			t.Errorf("%s: Erase = true, want false", tc.name)
		}
		if set.Contains(tc.tid, tc.key) {
			t.Errorf("%s: Contains = true, want false", tc.name)
		}
	}

	stats := set.Stats()
	if stats.Rejected != uint64(len(rejected)*3) {
		t.Errorf("Rejected = %d, want %d", stats.Rejected, len(rejected)*3)
	}
	if sum := set.SumOfKeys(); sum != 0 {
		t.Errorf("SumOfKeys() = %d, want 0", sum)
	}
}

// TestSet_MaxKey verifies the extremes of the legal key range are stored.
func TestSet_MaxKey(t *testing.T) {
	set := newTestSet(t, 1, 64)

	if !set.InsertIfAbsent(0, MinKey) {
		t.Fatal("InsertIfAbsent(MinKey) = false, want true")
	}
	if !set.InsertIfAbsent(0, MaxKey) {
		t.Fatal("InsertIfAbsent(MaxKey) = false, want true")
	}
	if sum := set.SumOfKeys(); sum != int64(MinKey)+int64(MaxKey) {
		t.Fatalf("SumOfKeys() = %d, want %d", sum, int64(MinKey)+int64(MaxKey))
	}
	if !set.Erase(0, MaxKey) {
		t.Fatal("Erase(MaxKey) = false, want true")
	}
}

// TestSet_LenAndCapacity exercises the approximate size accessors.
func TestSet_LenAndCapacity(t *testing.T) {
	set := newTestSet(t, 1, 128)

	if set.Capacity() != 128 {
		t.Fatalf("Capacity() = %d, want 128", set.Capacity())
	}
	for k := int32(1); k <= 10; k++ {
		set.InsertIfAbsent(0, k)
	}
	if set.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", set.Len())
	}
	set.Erase(0, 3)
	if set.Len() != 9 {
		t.Fatalf("Len() after erase = %d, want 9", set.Len())
	}
}

// TestSet_Stats verifies the lifetime counters.
func TestSet_Stats(t *testing.T) {
	set := newTestSet(t, 1, 128)

	for k := int32(1); k <= 20; k++ {
		set.InsertIfAbsent(0, k)
	}
	set.InsertIfAbsent(0, 1) // no-op
	set.Erase(0, 1)
	set.Erase(0, 1) // no-op

	stats := set.Stats()
	if stats.Inserts != 20 {
		t.Errorf("Inserts = %d, want 20", stats.Inserts)
	}
	if stats.Erases != 1 {
		t.Errorf("Erases = %d, want 1", stats.Erases)
	}
	if stats.Size != 19 {
		t.Errorf("Size = %d, want 19", stats.Size)
	}
	if stats.Capacity != 128 {
		t.Errorf("Capacity = %d, want 128", stats.Capacity)
	}
	if lf := stats.LoadFactor(); lf < 14.0 || lf > 15.5 {
		t.Errorf("LoadFactor() = %f, want ~14.8", lf)
	}
}

// TestSet_MarkedCellForcesRestart checks the probe engine's reaction to a
// frozen cell without going through a full expansion.
func TestSet_MarkedCellForcesRestart(t *testing.T) {
	gen := newGeneration(16, 1, DefaultChunkSize)
	hs := &hashSet{
		numThreads:      1,
		chunkSize:       DefaultChunkSize,
		logger:          NoOpLogger{},
		timeProvider:    &systemTimeProvider{},
		metrics:         NoOpMetricsCollector{},
		maxProbe:        DefaultMaxProbe,
		expansionFactor: DefaultExpansionFactor,
	}

	key := int32(77)
	idx := probeStart(key, gen.capacity)
	gen.data[idx] = cellMark // frozen EMPTY

	if _, r := hs.insertOn(gen, 0, key); r != restartMigrated {
		t.Errorf("insertOn over marked cell: restart = %v, want restartMigrated", r)
	}
	if _, r := hs.eraseOn(gen, 0, key); r != restartMigrated {
		t.Errorf("eraseOn over marked cell: restart = %v, want restartMigrated", r)
	}
	if _, r := hs.containsOn(gen, key); r != restartMigrated {
		t.Errorf("containsOn over marked cell: restart = %v, want restartMigrated", r)
	}
}
