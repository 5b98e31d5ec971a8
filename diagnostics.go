// diagnostics.go: quiescent table census and debug output
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// occupancyCap bounds the per-cell occupancy string; above this only the
// aggregate census is logged.
const occupancyCap = 256

// PrintDiagnostics logs an exact census of the current generation:
// cell counts by kind, the lifetime operation counters, and for small
// tables a per-cell occupancy string ("." empty, "O" tombstone, "X"
// live). Quiescent only, like SumOfKeys.
func (s *hashSet) PrintDiagnostics() {
	t := s.currentGen()

	var empty, tombstones, liveKeys, markedCells int
	for i := range t.data {
		v := atomic.LoadUint32(&t.data[i])
		if marked(v) {
			markedCells++
		}
		switch payload(v) {
		case cellEmpty:
			empty++
		case cellTombstone:
			tombstones++
		default:
			liveKeys++
		}
	}

	s.logger.Info("set diagnostics",
		"capacity", t.capacity,
		"live", liveKeys,
		"tombstones", tombstones,
		"empty", empty,
		"marked", markedCells,
		"approx_population", t.population(),
		"migrating", t.loadOld() != nil,
		"inserts", atomic.LoadUint64(&s.insertCount),
		"erases", atomic.LoadUint64(&s.eraseCount),
		"expansions", atomic.LoadUint64(&s.expansions),
		"retries", atomic.LoadUint64(&s.retries),
		"migrated_keys", atomic.LoadUint64(&s.migratedKeys),
		"rejected", atomic.LoadUint64(&s.rejected))

	if t.capacity <= occupancyCap {
		s.logger.Info("occupancy", "cells", s.occupancy(t))
	}
}

// occupancy renders one character per cell.
func (s *hashSet) occupancy(t *generation) string {
	buf := make([]byte, t.capacity)
	for i := range t.data {
		switch payload(atomic.LoadUint32(&t.data[i])) {
		case cellEmpty:
			buf[i] = '.'
		case cellTombstone:
			buf[i] = 'O'
		default:
			buf[i] = 'X'
		}
	}
	return string(buf)
}
