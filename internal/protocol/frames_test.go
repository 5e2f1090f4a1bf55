package protocol

import (
	"encoding/binary"
	"math"
)

// Fixture builders shared by the scanner and decoder tests.

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func hfMotionFrame(gyro, acc, mag [3]float32) []byte {
	f := make([]byte, hfMotionLen)
	f[0] = hfHeader0
	f[1] = hfHeader1
	f[2] = hfMsgMotion
	for i, v := range gyro {
		putFloat32(f[hfPayloadOff+4*i:], v)
	}
	for i, v := range acc {
		putFloat32(f[hfPayloadOff+12+4*i:], v)
	}
	for i, v := range mag {
		putFloat32(f[hfPayloadOff+24+4*i:], v)
	}
	return f
}

func hfOrientationFrame(roll, pitch, yaw float32) []byte {
	f := make([]byte, hfOrientationLen)
	f[0] = hfHeader0
	f[1] = hfHeader1
	f[2] = hfMsgOrientation
	putFloat32(f[hfPayloadOff:], roll)
	putFloat32(f[hfPayloadOff+4:], pitch)
	putFloat32(f[hfPayloadOff+8:], yaw)
	return f
}

func yahboomFrame(typ byte, x, y, z int16) []byte {
	f := make([]byte, yahboomFrameLen)
	f[0] = yahboomHeader
	f[1] = typ
	binary.LittleEndian.PutUint16(f[2:], uint16(x))
	binary.LittleEndian.PutUint16(f[4:], uint16(y))
	binary.LittleEndian.PutUint16(f[6:], uint16(z))
	var sum byte
	for _, b := range f[:yahboomFrameLen-1] {
		sum += b
	}
	f[yahboomFrameLen-1] = sum
	return f
}
