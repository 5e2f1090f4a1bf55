// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package protocol recovers typed sensor readings from the raw serial byte
// stream of the supported IMU devices. Framing (locating packet boundaries
// in an unreliable stream) and decoding (turning one frame into a reading)
// are split so the scanner can resynchronize independently of packet
// contents.
package protocol

import (
	"fmt"
	"strings"
)

// Protocol identifies one of the two supported wire formats. Selection is
// external configuration; there is no auto-detection.
type Protocol int

const (
	// ProtocolHF is the two-byte-header, length-tagged format of the
	// HF-series USB IMUs.
	ProtocolHF Protocol = iota
	// ProtocolYahboom is the single-byte-header, checksummed 11-byte format
	// of the Yahboom/WitMotion-family modules.
	ProtocolYahboom
)

func (p Protocol) String() string {
	switch p {
	case ProtocolHF:
		return "hf"
	case ProtocolYahboom:
		return "yahboom"
	}
	return "unknown"
}

// ParseProtocol parses a config value into a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hf":
		return ProtocolHF, nil
	case "yahboom":
		return ProtocolYahboom, nil
	}
	return 0, fmt.Errorf("unknown protocol %q (want \"hf\" or \"yahboom\")", s)
}

// Decoder turns one framed packet into at most one PartialReading.
// Decoding is best effort per frame: a malformed frame is dropped and never
// surfaces an error to the stream. Decoders may keep per-device state
// across frames (the Yahboom format spreads one measurement cycle over
// several frames); Reset clears that state on a protocol switch.
type Decoder interface {
	Decode(frame []byte) (PartialReading, bool)
	Reset()
}

// NewDecoder returns the decoder for p. magScale is the Yahboom
// magnetometer multiplier (see YahboomDecoder); it is ignored for HF.
func NewDecoder(p Protocol, magScale float32) Decoder {
	if p == ProtocolYahboom {
		return NewYahboomDecoder(magScale)
	}
	return NewHFDecoder()
}
