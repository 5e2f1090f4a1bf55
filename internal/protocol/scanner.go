// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package protocol

type frameStatus int

const (
	// frameMiss: the window does not begin a frame; advance one byte.
	frameMiss frameStatus = iota
	// frameNeedMore: the window may begin a frame but is too short to tell.
	frameNeedMore
	// frameMatch: the window begins a complete frame of the reported size.
	frameMatch
)

// framer decides whether the start of a window begins a complete frame of
// its protocol. A framer may validate frame-level integrity (the Yahboom
// checksum) so that a frame failing validation costs exactly one byte of
// scan progress instead of a full frame length.
type framer interface {
	frameSize(window []byte) (int, frameStatus)
}

// Scanner locates protocol frames inside an accumulating byte window fed
// in arbitrary-sized chunks. It owns the window: bytes that cannot start a
// frame are discarded after they have been probed, while a possible
// partial-header or partial-frame suffix is retained for the next call.
// The frames recovered are independent of how the input was chunked.
type Scanner struct {
	framer framer
	window []byte
}

// NewScanner returns a scanner for the given protocol.
func NewScanner(p Protocol) *Scanner {
	var f framer
	if p == ProtocolYahboom {
		f = yahboomFramer{}
	} else {
		f = hfFramer{}
	}
	return &Scanner{framer: f}
}

// Scan appends chunk to the retained window and extracts every complete
// frame currently available, left to right. A header candidate that turns
// out not to start a frame advances the scan by a single byte (no skip of
// the whole mismatched region). Returned frames are copies and stay valid
// across subsequent calls.
func (s *Scanner) Scan(chunk []byte) [][]byte {
	s.window = append(s.window, chunk...)

	var frames [][]byte
	pos := 0
scan:
	for pos < len(s.window) {
		size, status := s.framer.frameSize(s.window[pos:])
		switch status {
		case frameMiss:
			pos++
		case frameNeedMore:
			break scan
		case frameMatch:
			frame := make([]byte, size)
			copy(frame, s.window[pos:pos+size])
			frames = append(frames, frame)
			pos += size
		}
	}

	// Compact: everything before the final scan position is consumed.
	s.window = append(s.window[:0], s.window[pos:]...)
	return frames
}

// Pending reports how many undecided bytes are retained in the window.
func (s *Scanner) Pending() int {
	return len(s.window)
}

// Reset discards the retained window, e.g. on a protocol switch.
func (s *Scanner) Reset() {
	s.window = s.window[:0]
}
