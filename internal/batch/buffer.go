// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package batch holds records between periodic drains. The buffer is the
// only shared-mutable boundary between the decode path and the
// persistence/upload path.
package batch

import (
	"sync"

	"github.com/relabs-tech/imu_recorder/internal/record"
)

// Batch is an ordered, finalized sequence of records. Ownership transfers
// fully to the consumer on drain; the producer never touches it again.
type Batch []record.Record

// Buffer accumulates records between drains. Append and Drain may race
// from different goroutines: each record lands in exactly one batch, in
// production order, never lost and never delivered twice. The critical
// section covers only the slice swap — consumer I/O happens outside it.
type Buffer struct {
	mu      sync.Mutex
	records []record.Record
	last    record.Record
	haveAny bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one record. Producer side only; never blocks on I/O.
func (b *Buffer) Append(r record.Record) {
	b.mu.Lock()
	b.records = append(b.records, r)
	b.last = r
	b.haveAny = true
	b.mu.Unlock()
}

// Drain atomically detaches the accumulated records and installs a fresh
// empty sequence in their place. Appends racing with Drain land either in
// the returned batch or in the next one. An empty buffer yields an empty
// batch, which consumers must treat as a no-op.
func (b *Buffer) Drain() Batch {
	b.mu.Lock()
	out := b.records
	b.records = nil
	b.mu.Unlock()
	return Batch(out)
}

// Discard drops the accumulated records without handing them to any
// consumer and forgets the latest record. Used on a protocol switch.
func (b *Buffer) Discard() {
	b.mu.Lock()
	b.records = nil
	b.last = record.Record{}
	b.haveAny = false
	b.mu.Unlock()
}

// Snapshot returns the most recent record (ok is false before the first
// one) and the number of records buffered since the last drain. Pull-style
// for display; it does not consume anything.
func (b *Buffer) Snapshot() (last record.Record, buffered int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, len(b.records), b.haveAny
}
