package protocol

import (
	"encoding/binary"
	"math"
)

// HF wire format: AA 55 <id> <reserved> <payload...>. Two message ids are
// recognized; anything else under the header is treated as a false start.
const (
	hfHeader0 = 0xAA
	hfHeader1 = 0x55

	hfMsgMotion      = 0x2C // 9 LE float32: gyro xyz, accel xyz, mag xyz
	hfMsgOrientation = 0x14 // 3 LE float32: roll, pitch, yaw

	hfMotionLen      = 47
	hfOrientationLen = 23

	// First float of each payload. The trailing bytes after the floats are
	// a firmware counter/CRC that varies between variants and is ignored.
	hfPayloadOff = 4
)

type hfFramer struct{}

func (hfFramer) frameSize(w []byte) (int, frameStatus) {
	if w[0] != hfHeader0 {
		return 0, frameMiss
	}
	if len(w) < 2 {
		return 0, frameNeedMore
	}
	if w[1] != hfHeader1 {
		return 0, frameMiss
	}
	if len(w) < 3 {
		return 0, frameNeedMore
	}
	var size int
	switch w[2] {
	case hfMsgMotion:
		size = hfMotionLen
	case hfMsgOrientation:
		size = hfOrientationLen
	default:
		return 0, frameMiss
	}
	if len(w) < size {
		return 0, frameNeedMore
	}
	return size, frameMatch
}

// HFDecoder decodes the length-tagged HF format. The frames carry no
// usable checksum, so decoding is best effort: a frame too short for its
// advertised id is dropped without touching any state. Some firmware
// variants omit the magnetometer and transmit zeros in its place; the
// decoder passes those zeros through.
type HFDecoder struct{}

// NewHFDecoder returns a decoder for the HF wire format.
func NewHFDecoder() *HFDecoder {
	return &HFDecoder{}
}

// Reset is a no-op: every HF frame carries a complete sample.
func (d *HFDecoder) Reset() {}

func (d *HFDecoder) Decode(frame []byte) (PartialReading, bool) {
	if len(frame) < 3 || frame[0] != hfHeader0 || frame[1] != hfHeader1 {
		return nil, false
	}
	switch frame[2] {
	case hfMsgMotion:
		if len(frame) < hfMotionLen {
			return nil, false
		}
		var f [9]float32
		for i := range f {
			f[i] = leFloat32(frame[hfPayloadOff+4*i:])
		}
		return MotionSample{
			Gyro: [3]float32{f[0], f[1], f[2]},
			Acc:  [3]float32{f[3], f[4], f[5]},
			Mag:  [3]float32{f[6], f[7], f[8]},
		}, true
	case hfMsgOrientation:
		if len(frame) < hfOrientationLen {
			return nil, false
		}
		return OrientationSample{
			Roll:  leFloat32(frame[hfPayloadOff:]),
			Pitch: leFloat32(frame[hfPayloadOff+4:]),
			Yaw:   leFloat32(frame[hfPayloadOff+8:]),
		}, true
	}
	return nil, false
}

func leFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
