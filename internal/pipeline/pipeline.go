// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package pipeline wires scanner → decoder → assembler → batch buffer for
// one serial stream.
package pipeline

import (
	"sync"

	"github.com/relabs-tech/imu_recorder/internal/batch"
	"github.com/relabs-tech/imu_recorder/internal/protocol"
	"github.com/relabs-tech/imu_recorder/internal/record"
)

// Pipeline turns raw transport chunks into batched unified records.
//
// Feed runs on the producer goroutine and only mutates in-memory state;
// Drain runs on the timer goroutine and only swaps the batch out. The two
// never hold a lock across consumer I/O.
type Pipeline struct {
	mu       sync.Mutex
	proto    protocol.Protocol
	magScale float32
	scanner  *protocol.Scanner
	decoder  protocol.Decoder
	asm      *record.Assembler
	buf      *batch.Buffer
}

// New returns a pipeline for the given protocol. magScale is the Yahboom
// magnetometer multiplier. A nil now uses the wall clock; tests inject a
// fixed one.
func New(p protocol.Protocol, magScale float32, now func() int64) *Pipeline {
	return &Pipeline{
		proto:    p,
		magScale: magScale,
		scanner:  protocol.NewScanner(p),
		decoder:  protocol.NewDecoder(p, magScale),
		asm:      record.NewAssembler(now),
		buf:      batch.NewBuffer(),
	}
}

// Feed pushes one transport chunk of arbitrary length through the decode
// path and returns the records assembled from it, in order. The records
// have already been appended to the batch buffer. Malformed input never
// returns an error: the worst outcome of a bad byte is one lost candidate
// frame.
func (pl *Pipeline) Feed(chunk []byte) []record.Record {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	var out []record.Record
	for _, frame := range pl.scanner.Scan(chunk) {
		reading, ok := pl.decoder.Decode(frame)
		if !ok {
			continue
		}
		rec, ok := pl.asm.Apply(reading)
		if !ok {
			continue
		}
		pl.buf.Append(rec)
		out = append(out, rec)
	}
	return out
}

// Drain detaches the current batch for the persistence/upload path. The
// producer keeps appending to a fresh buffer meanwhile.
func (pl *Pipeline) Drain() batch.Batch {
	return pl.buf.Drain()
}

// SetProtocol switches the wire format mid-stream without restarting the
// transport: the scan window, decoder cache and assembler halves are
// cleared and buffered records are discarded without handoff.
func (pl *Pipeline) SetProtocol(p protocol.Protocol) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.proto = p
	pl.scanner = protocol.NewScanner(p)
	pl.decoder = protocol.NewDecoder(p, pl.magScale)
	pl.asm.Reset()
	pl.buf.Discard()
}

// Protocol reports the active wire format.
func (pl *Pipeline) Protocol() protocol.Protocol {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.proto
}

// Snapshot returns the latest record and the count buffered since the
// last drain, for display.
func (pl *Pipeline) Snapshot() (record.Record, int, bool) {
	return pl.buf.Snapshot()
}
