// set.go: core lock-free expandable hash set implementation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync/atomic"
	"unsafe"
)

// restart tells the retry loop why a probe pass gave up on a generation.
type restart int

const (
	restartNone restart = iota
	// restartExpanded: this operation started an expansion; the current
	// generation has (or is about to have) a successor.
	restartExpanded
	// restartMigrated: the probe observed a migration mark; the cell is
	// frozen and the operation must republish on the successor.
	restartMigrated
)

// hashSet implements Set with open addressing, linear probing, tombstone
// deletion and cooperative chunk-claim expansion.
type hashSet struct {
	// Configuration (immutable after creation)
	numThreads   int
	chunkSize    uint32
	logger       Logger
	timeProvider TimeProvider
	metrics      MetricsCollector

	// Tuning knobs, hot-reloadable via HotConfig
	maxProbe        int32
	expansionFactor int32

	// current points at the live *generation. CAS publication of a
	// successor is the single global ordering point for retries.
	current unsafe.Pointer

	// Atomic statistics counters
	insertCount  uint64
	eraseCount   uint64
	rejected     uint64
	expansions   uint64
	retries      uint64
	migratedKeys uint64
}

// New creates a set for at most config.NumThreads concurrent callers.
// The configuration is validated and defaulted in place; an unusable
// configuration yields a structured error and no set.
//
// The set needs no teardown: it owns no goroutines, timers or file
// handles, so dropping the last reference is enough. Callers must be
// quiescent by then; in-flight operations are not waited for.
func New(config Config) (Set, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &hashSet{
		numThreads:      config.NumThreads,
		chunkSize:       uint32(config.ChunkSize), // #nosec G115 - validated positive
		logger:          config.Logger,
		timeProvider:    config.TimeProvider,
		metrics:         config.MetricsCollector,
		maxProbe:        int32(config.MaxProbe),        // #nosec G115 - validated positive
		expansionFactor: int32(config.ExpansionFactor), // #nosec G115 - validated >= 2
	}

	gen := newGeneration(uint32(config.InitialCapacity), config.NumThreads, s.chunkSize) // #nosec G115 - validated non-negative
	atomic.StorePointer(&s.current, unsafe.Pointer(gen))
	return s, nil
}

// currentGen snapshots the live generation.
func (s *hashSet) currentGen() *generation {
	return (*generation)(atomic.LoadPointer(&s.current))
}

// admit validates tid and key at the boundary. Violations are caller
// bugs; they are rejected with a log line rather than a panic so a single
// misbehaving caller cannot take the process down.
func (s *hashSet) admit(tid int, key int32, op string) bool {
	if tid < 0 || tid >= s.numThreads {
		atomic.AddUint64(&s.rejected, 1)
		s.logger.Warn("operation rejected", "op", op, "reason", "invalid tid",
			"tid", tid, "num_threads", s.numThreads)
		return false
	}
	if key < MinKey || key > MaxKey {
		atomic.AddUint64(&s.rejected, 1)
		s.logger.Warn("operation rejected", "op", op, "reason", "key out of range", "key", key)
		return false
	}
	return true
}

// InsertIfAbsent adds key to the set using lock-free linear probing.
func (s *hashSet) InsertIfAbsent(tid int, key int32) bool {
	if !s.admit(tid, key, "insert") {
		return false
	}

	start := s.timeProvider.Now()
	added := s.insert(tid, key)
	s.metrics.RecordInsert(s.timeProvider.Now()-start, added)

	if added {
		atomic.AddUint64(&s.insertCount, 1)
	}
	return added
}

// insert is the retry loop around one probe pass per generation. The
// source expressed retry-on-migration as tail recursion; an iterative
// reload of current avoids stack growth under pathological contention.
func (s *hashSet) insert(tid int, key int32) bool {
	for {
		t := s.currentGen()
		ok, r := s.insertOn(t, tid, key)
		switch r {
		case restartNone:
			return ok
		case restartMigrated:
			atomic.AddUint64(&s.retries, 1)
			s.metrics.RecordMigrationRetry("insert")
		}
		// restartExpanded falls through to reload current
	}
}

// insertOn runs one linear-probe pass for key over generation t.
func (s *hashSet) insertOn(t *generation, tid int, key int32) (bool, restart) {
	home := probeStart(key, t.capacity)
	k := uint32(key)

	for j := uint32(0); j < t.capacity; j++ {
		if s.expandAsNeeded(tid, t, j) {
			return false, restartExpanded
		}

		index := home + j
		if index >= t.capacity {
			index -= t.capacity
		}

		found := atomic.LoadUint32(&t.data[index])
		if marked(found) {
			return false, restartMigrated
		}

		switch found {
		case k:
			s.metrics.RecordProbeLength(int(j)+1, "insert")
			return false, restartNone
		case cellEmpty:
			if atomic.CompareAndSwapUint32(&t.data[index], cellEmpty, k) {
				t.inserts.inc(tid)
				s.metrics.RecordProbeLength(int(j)+1, "insert")
				return true, restartNone
			}
			// lost the cell; it is no longer empty, so decide from what
			// it became and keep probing past it otherwise
			found = atomic.LoadUint32(&t.data[index])
			if marked(found) {
				return false, restartMigrated
			}
			if found == k {
				s.metrics.RecordProbeLength(int(j)+1, "insert")
				return false, restartNone
			}
		}
		// occupied by another key or a tombstone: tombstones are
		// traversed, never reclaimed; the next migration purges them
	}
	return false, restartNone
}

// Erase removes key from the set. Erase never triggers an expansion, but
// every probe step helps one that is in progress.
func (s *hashSet) Erase(tid int, key int32) bool {
	if !s.admit(tid, key, "erase") {
		return false
	}

	start := s.timeProvider.Now()
	removed := s.erase(tid, key)
	s.metrics.RecordErase(s.timeProvider.Now()-start, removed)

	if removed {
		atomic.AddUint64(&s.eraseCount, 1)
	}
	return removed
}

func (s *hashSet) erase(tid int, key int32) bool {
	for {
		t := s.currentGen()
		ok, r := s.eraseOn(t, tid, key)
		if r == restartNone {
			return ok
		}
		atomic.AddUint64(&s.retries, 1)
		s.metrics.RecordMigrationRetry("erase")
	}
}

func (s *hashSet) eraseOn(t *generation, tid int, key int32) (bool, restart) {
	home := probeStart(key, t.capacity)
	k := uint32(key)

	for j := uint32(0); j < t.capacity; j++ {
		s.helpExpansion(tid, t)

		index := home + j
		if index >= t.capacity {
			index -= t.capacity
		}

		found := atomic.LoadUint32(&t.data[index])
		if marked(found) {
			return false, restartMigrated
		}

		switch found {
		case cellEmpty:
			// linear probing terminates at EMPTY: the key is absent
			s.metrics.RecordProbeLength(int(j)+1, "erase")
			return false, restartNone
		case k:
			if atomic.CompareAndSwapUint32(&t.data[index], k, cellTombstone) {
				t.deletes.inc(tid)
				s.metrics.RecordProbeLength(int(j)+1, "erase")
				return true, restartNone
			}
			found = atomic.LoadUint32(&t.data[index])
			if marked(found) {
				return false, restartMigrated
			}
			if found == cellTombstone {
				// another thread erased it first
				s.metrics.RecordProbeLength(int(j)+1, "erase")
				return false, restartNone
			}
		}
	}
	return false, restartNone
}

// Contains reports whether key is currently in the set.
func (s *hashSet) Contains(tid int, key int32) bool {
	if !s.admit(tid, key, "contains") {
		return false
	}

	for {
		t := s.currentGen()
		s.helpExpansion(tid, t)

		found, r := s.containsOn(t, key)
		if r == restartNone {
			return found
		}
		atomic.AddUint64(&s.retries, 1)
		s.metrics.RecordMigrationRetry("contains")
	}
}

func (s *hashSet) containsOn(t *generation, key int32) (bool, restart) {
	home := probeStart(key, t.capacity)
	k := uint32(key)

	for j := uint32(0); j < t.capacity; j++ {
		index := home + j
		if index >= t.capacity {
			index -= t.capacity
		}

		found := atomic.LoadUint32(&t.data[index])
		if marked(found) {
			return false, restartMigrated
		}
		switch found {
		case cellEmpty:
			s.metrics.RecordProbeLength(int(j)+1, "contains")
			return false, restartNone
		case k:
			s.metrics.RecordProbeLength(int(j)+1, "contains")
			return true, restartNone
		}
	}
	return false, restartNone
}

// SumOfKeys returns the arithmetic sum of all keys in the set. Quiescent
// only: the walk takes no snapshot, so concurrent mutators make the
// result meaningless as a checksum.
func (s *hashSet) SumOfKeys() int64 {
	t := s.currentGen()
	var sum int64
	for i := range t.data {
		v := payload(atomic.LoadUint32(&t.data[i]))
		if live(v) {
			sum += int64(v)
		}
	}
	return sum
}

// Len returns the approximate number of keys in the set.
func (s *hashSet) Len() int {
	return int(s.currentGen().population())
}

// Capacity returns the cell count of the current generation.
func (s *hashSet) Capacity() int {
	return int(s.currentGen().capacity)
}

// Stats returns set statistics. Size and Capacity describe the current
// generation; the counters cover the set's whole lifetime.
func (s *hashSet) Stats() SetStats {
	t := s.currentGen()
	return SetStats{
		Inserts:      atomic.LoadUint64(&s.insertCount),
		Erases:       atomic.LoadUint64(&s.eraseCount),
		Rejected:     atomic.LoadUint64(&s.rejected),
		Expansions:   atomic.LoadUint64(&s.expansions),
		Retries:      atomic.LoadUint64(&s.retries),
		MigratedKeys: atomic.LoadUint64(&s.migratedKeys),
		Size:         int(t.population()),
		Capacity:     int(t.capacity),
	}
}
