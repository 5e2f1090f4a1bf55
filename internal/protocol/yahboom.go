// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package protocol

import "encoding/binary"

// Yahboom wire format: 55 <type> <x lo> <x hi> <y lo> <y hi> <z lo> <z hi>
// <extra> <extra> <sum>. The checksum is the unsigned sum of bytes 0..9
// modulo 256.
const (
	yahboomHeader   = 0x55
	yahboomFrameLen = 11

	yahboomTypeAcc   = 0x51
	yahboomTypeGyro  = 0x52
	yahboomTypeAngle = 0x53
	yahboomTypeMag   = 0x54
)

// Scale factors from the protocol manual: each int16 spans the full range
// of its quantity.
const (
	yahboomAccScale   = 16.0 / 32768.0   // g per LSB
	yahboomGyroScale  = 2000.0 / 32768.0 // deg/s per LSB
	yahboomAngleScale = 180.0 / 32768.0  // deg per LSB
)

type yahboomFramer struct{}

func (yahboomFramer) frameSize(w []byte) (int, frameStatus) {
	if w[0] != yahboomHeader {
		return 0, frameMiss
	}
	if len(w) < 2 {
		return 0, frameNeedMore
	}
	switch w[1] {
	case yahboomTypeAcc, yahboomTypeGyro, yahboomTypeAngle, yahboomTypeMag:
	default:
		return 0, frameMiss
	}
	if len(w) < yahboomFrameLen {
		return 0, frameNeedMore
	}
	if !yahboomChecksumOK(w[:yahboomFrameLen]) {
		// False header. Reporting a miss makes the scanner advance a single
		// byte past it so the stream can resync on the next real frame.
		return 0, frameMiss
	}
	return yahboomFrameLen, frameMatch
}

func yahboomChecksumOK(f []byte) bool {
	var sum byte
	for _, b := range f[:yahboomFrameLen-1] {
		sum += b
	}
	return sum == f[yahboomFrameLen-1]
}

// YahboomDecoder decodes checksummed 11-byte frames. The device spreads
// one measurement cycle across several sub-typed frames (acc, then gyro,
// then angle, optionally mag), so the decoder caches the acceleration and
// magnetometer axes and emits a MotionSample when the angular-rate frame
// of a cycle arrives and an OrientationSample when the angle frame
// arrives. A sample may therefore combine a fresh gyro with a slightly
// stale cached acc/mag; that matches the device's own transmit cadence.
type YahboomDecoder struct {
	// magScale multiplies the raw int16 magnetometer counts. The correct
	// factor is device-profile specific (some modules report raw counts,
	// some revisions zero the field entirely); 1 keeps raw counts, 0
	// forces the field to zero.
	magScale float32

	acc [3]float32
	mag [3]float32
}

// NewYahboomDecoder returns a decoder for the Yahboom wire format.
func NewYahboomDecoder(magScale float32) *YahboomDecoder {
	return &YahboomDecoder{magScale: magScale}
}

// Reset clears the cached acceleration and magnetometer axes.
func (d *YahboomDecoder) Reset() {
	d.acc = [3]float32{}
	d.mag = [3]float32{}
}

func (d *YahboomDecoder) Decode(frame []byte) (PartialReading, bool) {
	if len(frame) < yahboomFrameLen || frame[0] != yahboomHeader {
		return nil, false
	}
	// The framer already verified this for frames it produced, but the
	// decoder must hold on frames from any caller.
	if !yahboomChecksumOK(frame[:yahboomFrameLen]) {
		return nil, false
	}

	x := int16(binary.LittleEndian.Uint16(frame[2:]))
	y := int16(binary.LittleEndian.Uint16(frame[4:]))
	z := int16(binary.LittleEndian.Uint16(frame[6:]))

	switch frame[1] {
	case yahboomTypeAcc:
		d.acc = scaleAxes(x, y, z, yahboomAccScale)
	case yahboomTypeMag:
		d.mag = scaleAxes(x, y, z, d.magScale)
	case yahboomTypeGyro:
		return MotionSample{
			Acc:  d.acc,
			Gyro: scaleAxes(x, y, z, yahboomGyroScale),
			Mag:  d.mag,
		}, true
	case yahboomTypeAngle:
		return OrientationSample{
			Roll:  float32(x) * yahboomAngleScale,
			Pitch: float32(y) * yahboomAngleScale,
			Yaw:   float32(z) * yahboomAngleScale,
		}, true
	}
	return nil, false
}

func scaleAxes(x, y, z int16, k float32) [3]float32 {
	return [3]float32{float32(x) * k, float32(y) * k, float32(z) * k}
}
