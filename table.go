// table.go: table generations and cell encoding
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync/atomic"
	"unsafe"
)

// oldBuffer wraps the predecessor generation's cell array so the borrow
// can be handed off and released through a single atomic pointer.
type oldBuffer struct {
	cells []uint32
}

// generation is one version of the cell array plus its migration state.
// At most two generations are live at once: the current one and its
// predecessor, still referenced through old while migration is in
// progress. A generation is immutable except through the atomics below.
//
// Field ordering keeps the two migration cursors on separate cache lines,
// away from each other and from the read-mostly header fields.
type generation struct {
	// data is the owned cell array. Each cell is a single 32-bit word:
	// cellEmpty, cellTombstone, or a live key, optionally ORed with
	// cellMark once migration has frozen it.
	data     []uint32
	capacity uint32

	// old points to the predecessor's cell array (an *oldBuffer) during
	// migration; nil before the first expansion and again after the
	// publisher releases it post-drain. Accessed only via atomics.
	old         unsafe.Pointer
	oldCapacity uint32

	chunkSize   uint32
	totalChunks int32

	inserts *stripedCounter
	deletes *stripedCounter

	_             [64]byte
	chunksClaimed int32
	_             [60]byte
	chunksDone    int32
	_             [60]byte
}

// newGeneration creates the first generation of a set. make zero-fills
// the cell array, which doubles as the pre-publication EMPTY fill.
func newGeneration(capacity uint32, numThreads int, chunkSize uint32) *generation {
	return &generation{
		data:      make([]uint32, capacity),
		capacity:  capacity,
		chunkSize: chunkSize,
		inserts:   newStripedCounter(numThreads),
		deletes:   newStripedCounter(numThreads),
	}
}

// newSuccessor creates the expansion target for t. The new capacity is
// max(population, old capacity) scaled by factor, where population is the
// predecessor's insert count minus its delete count. The predecessor's
// cell array is borrowed through old until migration drains.
func newSuccessor(t *generation, factor int, numThreads int) *generation {
	base := int64(t.capacity)
	if pop := t.population(); pop > base {
		base = pop
	}

	capacity := base * int64(factor)
	if capacity > int64(cellTombstone) {
		// the key domain itself caps out below this
		capacity = int64(cellTombstone)
	}

	n := newGeneration(uint32(capacity), numThreads, t.chunkSize)
	n.old = unsafe.Pointer(&oldBuffer{cells: t.data})
	n.oldCapacity = t.capacity
	n.totalChunks = int32((t.capacity + t.chunkSize - 1) / t.chunkSize)
	return n
}

// population returns the approximate number of live keys, clamped at 0.
// The insert and delete stripes are read without coordination.
func (t *generation) population() int64 {
	p := t.inserts.get() - t.deletes.get()
	if p < 0 {
		return 0
	}
	return p
}

// loadOld returns the borrowed predecessor array, or nil once released.
func (t *generation) loadOld() *oldBuffer {
	return (*oldBuffer)(atomic.LoadPointer(&t.old))
}

// releaseOld drops the borrow on the predecessor's cell array. Called
// exactly once, by the thread that published this generation, after
// chunksDone has reached totalChunks. Stragglers that loaded the buffer
// earlier keep it alive until they finish; the GC reclaims it afterwards.
func (t *generation) releaseOld() {
	atomic.StorePointer(&t.old, nil)
}

// marked reports whether a cell word carries the migration mark.
func marked(v uint32) bool {
	return v&cellMark != 0
}

// payload strips the migration mark off a cell word.
func payload(v uint32) uint32 {
	return v &^ cellMark
}

// live reports whether an unmarked cell payload is a stored key.
func live(v uint32) bool {
	return v != cellEmpty && v != cellTombstone
}
