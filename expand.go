// expand.go: cooperative table expansion and chunk migration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// expandAsNeeded is consulted on every insert probe step. It first lends
// a hand to any migration already in progress, then checks the load
// estimate: the cheap striped read on every step, confirmed by a full
// re-read once the probe has run past maxProbe.
//
// The estimate counts inserts only, not inserts minus deletes, matching
// the source algorithm. A heavily churned table therefore expands even
// when its true population is low; the migration that follows purges the
// accumulated tombstones, and the successor is sized at factor times
// max(surviving population, old capacity).
func (s *hashSet) expandAsNeeded(tid int, t *generation, j uint32) bool {
	s.helpExpansion(tid, t)

	threshold := int64(t.capacity / 2)
	if t.inserts.get() > threshold ||
		(j > uint32(atomic.LoadInt32(&s.maxProbe)) && t.inserts.getAccurate() > threshold) {
		s.startExpansion(tid, t)
		return true
	}
	return false
}

// startExpansion installs a successor for t unless someone already has.
// The publishing thread is responsible for releasing the predecessor's
// cell array, and may do so only after migration has fully drained.
func (s *hashSet) startExpansion(tid int, t *generation) {
	if s.currentGen() == t {
		n := newSuccessor(t, int(atomic.LoadInt32(&s.expansionFactor)), s.numThreads)

		if atomic.CompareAndSwapPointer(&s.current, unsafe.Pointer(t), unsafe.Pointer(n)) {
			atomic.AddUint64(&s.expansions, 1)
			s.metrics.RecordExpansion(int(t.capacity), int(n.capacity))
			s.logger.Info("expansion started",
				"old_capacity", t.capacity,
				"new_capacity", n.capacity,
				"population", t.population(),
				"chunks", n.totalChunks)

			s.helpExpansion(tid, n)
			n.releaseOld()
			s.logger.Debug("migration drained", "capacity", n.capacity)
		}
		// lost the race: n was never published and is dropped here
	}
	s.helpExpansion(tid, s.currentGen())
}

// helpExpansion claims and migrates outstanding chunks of t's
// predecessor, then waits until every claimed chunk is done. On return
// the new generation holds all live keys, so callers may probe t.
//
// A nil old buffer means either no migration or one that has already
// drained and been released; both allow returning immediately.
func (s *hashSet) helpExpansion(tid int, t *generation) {
	total := t.totalChunks
	if total == 0 || atomic.LoadInt32(&t.chunksDone) >= total {
		return
	}

	ob := t.loadOld()
	if ob == nil {
		return
	}

	for atomic.LoadInt32(&t.chunksClaimed) < total {
		myChunk := atomic.AddInt32(&t.chunksClaimed, 1) - 1
		if myChunk < total {
			s.migrate(tid, t, ob, myChunk)
			atomic.AddInt32(&t.chunksDone, 1)
		}
	}

	// every chunk is claimed; wait for the claimants to finish
	for atomic.LoadInt32(&t.chunksDone) < total {
		runtime.Gosched()
	}
}

// migrate moves one chunk of the old array into t. Marking first freezes
// every cell in the chunk; the frozen payloads are then re-inserted.
func (s *hashSet) migrate(tid int, t *generation, ob *oldBuffer, chunk int32) {
	old := ob.cells
	lo := uint32(chunk) * t.chunkSize
	hi := lo + t.chunkSize
	if hi > t.oldCapacity {
		hi = t.oldCapacity
	}

	// phase 1: mark. CAS until the observed value sticks with the mark
	// bit set; from then on the cell is immutable for the rest of the
	// old generation's life.
	for i := lo; i < hi; i++ {
		for {
			v := atomic.LoadUint32(&old[i])
			if atomic.CompareAndSwapUint32(&old[i], v, v|cellMark) {
				break
			}
		}
	}

	// phase 2: copy. The chunk is safe when both frozen boundary cells
	// are EMPTY: no probe sequence can then cross into this chunk's
	// keys, so the re-inserts cannot contend and plain stores suffice.
	safe := (lo == 0 || payload(atomic.LoadUint32(&old[lo-1])) == cellEmpty) &&
		(hi == t.oldCapacity || payload(atomic.LoadUint32(&old[hi])) == cellEmpty)

	liveKeys := 0
	for i := lo; i < hi; i++ {
		v := payload(atomic.LoadUint32(&old[i]))
		if live(v) {
			if s.insertHelper(t, tid, v, safe) {
				liveKeys++
			}
		}
	}

	atomic.AddUint64(&s.migratedKeys, uint64(liveKeys))
	s.metrics.RecordMigratedChunk(liveKeys)
}

// insertHelper inserts a migrated key into t's cell array. Expansion
// checks and mark checks are disabled here: the destination is the
// freshly published generation and migration must make progress without
// re-triggering itself. A key that is already present in the destination
// is silently dropped and reported as false. A destination CAS
// failure is resolved by probing onward, never by restarting the chunk.
// Probe exhaustion returns false silently.
func (s *hashSet) insertHelper(t *generation, tid int, key uint32, safe bool) bool {
	home := probeStart(int32(key), t.capacity) // #nosec G115 - migrated payloads are valid keys

	for j := uint32(0); j < t.capacity; j++ {
		index := home + j
		if index >= t.capacity {
			index -= t.capacity
		}

		found := atomic.LoadUint32(&t.data[index])
		if found == key {
			return false
		}
		if found != cellEmpty {
			continue
		}

		if safe {
			atomic.StoreUint32(&t.data[index], key)
			t.inserts.inc(tid)
			return true
		}

		if atomic.CompareAndSwapUint32(&t.data[index], cellEmpty, key) {
			t.inserts.inc(tid)
			return true
		}
		if atomic.LoadUint32(&t.data[index]) == key {
			return false
		}
		// another migrated key took the cell; keep probing
	}
	return false
}
