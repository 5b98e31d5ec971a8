// diagnostics_test.go: tests for the quiescent census output
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"strings"
	"sync"
	"testing"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level   string
	msg     string
	keyvals []interface{}
}

func (l *recordingLogger) log(level, msg string, keyvals []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg, keyvals})
}

func (l *recordingLogger) Debug(msg string, keyvals ...interface{}) { l.log("debug", msg, keyvals) }
func (l *recordingLogger) Info(msg string, keyvals ...interface{})  { l.log("info", msg, keyvals) }
func (l *recordingLogger) Warn(msg string, keyvals ...interface{})  { l.log("warn", msg, keyvals) }
func (l *recordingLogger) Error(msg string, keyvals ...interface{}) { l.log("error", msg, keyvals) }

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func keyval(e logEntry, key string) (interface{}, bool) {
	for i := 0; i+1 < len(e.keyvals); i += 2 {
		if e.keyvals[i] == key {
			return e.keyvals[i+1], true
		}
	}
	return nil, false
}

// TestPrintDiagnostics_Census verifies the logged cell census.
func TestPrintDiagnostics_Census(t *testing.T) {
	logger := &recordingLogger{}
	set, err := New(Config{NumThreads: 1, InitialCapacity: 64, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for k := int32(1); k <= 10; k++ {
		set.InsertIfAbsent(0, k)
	}
	set.Erase(0, 4)

	set.PrintDiagnostics()

	e, found := logger.find("set diagnostics")
	if !found {
		t.Fatal("no diagnostics log entry")
	}
	if v, _ := keyval(e, "live"); v != 9 {
		t.Errorf("live = %v, want 9", v)
	}
	if v, _ := keyval(e, "tombstones"); v != 1 {
		t.Errorf("tombstones = %v, want 1", v)
	}
	if v, _ := keyval(e, "marked"); v != 0 {
		t.Errorf("marked = %v, want 0", v)
	}
}

// TestPrintDiagnostics_Occupancy checks the per-cell string for a small table.
func TestPrintDiagnostics_Occupancy(t *testing.T) {
	logger := &recordingLogger{}
	set, err := New(Config{NumThreads: 1, InitialCapacity: 16, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	set.InsertIfAbsent(0, 7)
	set.InsertIfAbsent(0, 8)
	set.Erase(0, 8)
	set.PrintDiagnostics()

	e, found := logger.find("occupancy")
	if !found {
		t.Fatal("no occupancy log entry for a small table")
	}
	v, ok := keyval(e, "cells")
	if !ok {
		t.Fatal("occupancy entry has no cells field")
	}
	cells := v.(string)
	if len(cells) != 16 {
		t.Fatalf("occupancy length = %d, want 16", len(cells))
	}
	if strings.Count(cells, "X") != 1 {
		t.Errorf("occupancy %q: X count = %d, want 1", cells, strings.Count(cells, "X"))
	}
	if strings.Count(cells, "O") != 1 {
		t.Errorf("occupancy %q: O count = %d, want 1", cells, strings.Count(cells, "O"))
	}
	if strings.Count(cells, ".") != 14 {
		t.Errorf("occupancy %q: dot count = %d, want 14", cells, strings.Count(cells, "."))
	}
}

// TestPrintDiagnostics_LargeTableSkipsOccupancy keeps big tables out of
// the per-cell rendering.
func TestPrintDiagnostics_LargeTableSkipsOccupancy(t *testing.T) {
	logger := &recordingLogger{}
	set, err := New(Config{NumThreads: 1, InitialCapacity: 1024, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	set.PrintDiagnostics()
	if _, found := logger.find("occupancy"); found {
		t.Fatal("occupancy rendered for a large table")
	}
}

// TestBoundaryRejection_Logs verifies rejected operations are logged.
func TestBoundaryRejection_Logs(t *testing.T) {
	logger := &recordingLogger{}
	set, err := New(Config{NumThreads: 1, InitialCapacity: 16, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	set.InsertIfAbsent(0, 0)
	e, found := logger.find("operation rejected")
	if !found {
		t.Fatal("no rejection log entry")
	}
	if e.level != "warn" {
		t.Errorf("rejection level = %s, want warn", e.level)
	}
}
