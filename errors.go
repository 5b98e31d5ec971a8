// errors.go: structured error handling for xanthos set operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for configuration and boundary validation. Hot-path operations report
// outcomes through their boolean returns; errors cover the construction
// and validation surface only.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"strconv"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos set operations
const (
	// Configuration errors
	ErrCodeInvalidConfig          errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeInvalidNumThreads      errors.ErrorCode = "XANTHOS_INVALID_NUM_THREADS"
	ErrCodeInvalidCapacity        errors.ErrorCode = "XANTHOS_INVALID_CAPACITY"
	ErrCodeInvalidMaxProbe        errors.ErrorCode = "XANTHOS_INVALID_MAX_PROBE"
	ErrCodeInvalidExpansionFactor errors.ErrorCode = "XANTHOS_INVALID_EXPANSION_FACTOR"
	ErrCodeInvalidChunkSize       errors.ErrorCode = "XANTHOS_INVALID_CHUNK_SIZE"

	// Boundary errors
	ErrCodeKeyOutOfRange errors.ErrorCode = "XANTHOS_KEY_OUT_OF_RANGE"
	ErrCodeInvalidTid    errors.ErrorCode = "XANTHOS_INVALID_TID"
)

// Common error messages
const (
	msgInvalidNumThreads      = "invalid num threads: must be non-negative"
	msgInvalidCapacity        = "invalid initial capacity: must be non-negative"
	msgInvalidMaxProbe        = "invalid max probe: must be greater than 0"
	msgInvalidExpansionFactor = "invalid expansion factor: must be at least 2"
	msgInvalidChunkSize       = "invalid chunk size: must be greater than 0"
	msgKeyOutOfRange          = "key out of range: must be in [1, 0x7FFFFFFE]"
	msgInvalidTid             = "invalid thread id: must be in [0, NumThreads)"
)

// NewErrInvalidNumThreads creates an error for a negative thread count
func NewErrInvalidNumThreads(numThreads int) error {
	return errors.NewWithContext(ErrCodeInvalidNumThreads, msgInvalidNumThreads, map[string]interface{}{
		"provided_num_threads": numThreads,
	})
}

// NewErrInvalidCapacity creates an error for a negative initial capacity
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
	})
}

// NewErrInvalidMaxProbe creates an error for an unusable max probe value
func NewErrInvalidMaxProbe(maxProbe int) error {
	return errors.NewWithField(ErrCodeInvalidMaxProbe, msgInvalidMaxProbe, "provided_max_probe", strconv.Itoa(maxProbe))
}

// NewErrInvalidExpansionFactor creates an error for an unusable expansion factor
func NewErrInvalidExpansionFactor(factor int) error {
	return errors.NewWithContext(ErrCodeInvalidExpansionFactor, msgInvalidExpansionFactor, map[string]interface{}{
		"provided_factor": factor,
		"valid_range":     "2-16",
	})
}

// NewErrInvalidChunkSize creates an error for an unusable chunk size
func NewErrInvalidChunkSize(chunkSize int) error {
	return errors.NewWithField(ErrCodeInvalidChunkSize, msgInvalidChunkSize, "provided_chunk_size", strconv.Itoa(chunkSize))
}

// NewErrKeyOutOfRange creates an error for a key outside [MinKey, MaxKey].
// The top bit is reserved for the migration mark, 0 for the empty cell and
// 0x7FFFFFFF for the tombstone.
func NewErrKeyOutOfRange(key int32) error {
	return errors.NewWithContext(ErrCodeKeyOutOfRange, msgKeyOutOfRange, map[string]interface{}{
		"provided_key": key,
		"valid_range":  "1-2147483646",
	})
}

// NewErrInvalidTid creates an error for a thread id outside [0, NumThreads)
func NewErrInvalidTid(tid int, numThreads int) error {
	return errors.NewWithContext(ErrCodeInvalidTid, msgInvalidTid, map[string]interface{}{
		"provided_tid": tid,
		"num_threads":  numThreads,
	})
}

// KeyInRange validates that key is storable in the set.
// The hot-path operations perform the same check internally and return
// false on violation; this helper exposes the structured error for
// callers that validate input at their own boundary.
func KeyInRange(key int32) error {
	if key < MinKey || key > MaxKey {
		return NewErrKeyOutOfRange(key)
	}
	return nil
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidNumThreads ||
			code == ErrCodeInvalidCapacity || code == ErrCodeInvalidMaxProbe ||
			code == ErrCodeInvalidExpansionFactor || code == ErrCodeInvalidChunkSize
	}
	return false
}

// IsBoundaryError checks if error is a key-range or thread-id error
func IsBoundaryError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeKeyOutOfRange || code == ErrCodeInvalidTid
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xErr *errors.Error
	if goerrors.As(err, &xErr) {
		return xErr.Context
	}
	return nil
}
