// hash.go: key mixing for probe placement
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

// mix32 is the 32-bit MurmurHash3 finalizer. It avalanches every input
// bit across the output so that dense or clustered key ranges spread
// uniformly over the table.
func mix32(k uint32) uint32 {
	k ^= k >> 16
	k *= 0x85ebca6b
	k ^= k >> 13
	k *= 0xc2b2ae35
	k ^= k >> 16
	return k
}

// probeStart returns the first probe position for key in a table of the
// given capacity. The j-th probe position is (probeStart + j) % capacity.
func probeStart(key int32, capacity uint32) uint32 {
	return mix32(uint32(key)) % capacity
}
