package pipeline

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/imu_recorder/internal/protocol"
)

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func hfMotion(gyro, acc, mag [3]float32) []byte {
	f := make([]byte, 47)
	f[0], f[1], f[2] = 0xAA, 0x55, 0x2C
	for i := 0; i < 3; i++ {
		putF32(f[4+4*i:], gyro[i])
		putF32(f[16+4*i:], acc[i])
		putF32(f[28+4*i:], mag[i])
	}
	return f
}

func hfOrientation(roll, pitch, yaw float32) []byte {
	f := make([]byte, 23)
	f[0], f[1], f[2] = 0xAA, 0x55, 0x14
	putF32(f[4:], roll)
	putF32(f[8:], pitch)
	putF32(f[12:], yaw)
	return f
}

func yahboom(typ byte, x, y, z int16) []byte {
	f := make([]byte, 11)
	f[0], f[1] = 0x55, typ
	binary.LittleEndian.PutUint16(f[2:], uint16(x))
	binary.LittleEndian.PutUint16(f[4:], uint16(y))
	binary.LittleEndian.PutUint16(f[6:], uint16(z))
	var sum byte
	for _, b := range f[:10] {
		sum += b
	}
	f[10] = sum
	return f
}

func TestPipelineEndToEndHFOrientation(t *testing.T) {
	clock := int64(42_000)
	pl := New(protocol.ProtocolHF, 1, func() int64 { return clock })

	// Prior motion sample, then the documented orientation frame.
	recs := pl.Feed(hfMotion([3]float32{1, 2, 3}, [3]float32{0, 0, 1}, [3]float32{}))
	assert.Empty(t, recs, "no record before both halves are present")

	recs = pl.Feed(hfOrientation(1.5, -2.25, 90.0))
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, clock, rec.Timestamp)
	assert.Equal(t, float32(1.5), rec.Roll)
	assert.Equal(t, float32(-2.25), rec.Pitch)
	assert.Equal(t, float32(90.0), rec.Yaw)
	assert.Equal(t, float32(1), rec.GyroX)
	assert.Equal(t, float32(1), rec.AccZ)
}

func TestPipelineFeedAcrossChunkBoundaries(t *testing.T) {
	pl := New(protocol.ProtocolHF, 1, func() int64 { return 0 })
	pl.Feed(hfMotion([3]float32{}, [3]float32{}, [3]float32{}))

	frame := hfOrientation(10, 20, 30)
	recs := pl.Feed(frame[:7])
	assert.Empty(t, recs, "partial frame must not emit")
	recs = pl.Feed(frame[7:])
	require.Len(t, recs, 1)
	assert.Equal(t, float32(30), recs[0].Yaw)
}

func TestPipelineDrainAndSnapshot(t *testing.T) {
	pl := New(protocol.ProtocolHF, 1, func() int64 { return 7 })
	pl.Feed(hfMotion([3]float32{}, [3]float32{}, [3]float32{}))
	pl.Feed(hfOrientation(1, 2, 3))
	pl.Feed(hfOrientation(4, 5, 6))

	last, n, ok := pl.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(6), last.Yaw)

	b := pl.Drain()
	require.Len(t, b, 2)
	assert.Empty(t, pl.Drain(), "second drain must be empty")
}

func TestPipelineProtocolSwitchReset(t *testing.T) {
	pl := New(protocol.ProtocolHF, 1, func() int64 { return 0 })
	pl.Feed(hfMotion([3]float32{}, [3]float32{}, [3]float32{}))
	recs := pl.Feed(hfOrientation(1, 2, 3))
	require.Len(t, recs, 1)

	pl.SetProtocol(protocol.ProtocolYahboom)
	assert.Equal(t, protocol.ProtocolYahboom, pl.Protocol())
	assert.Empty(t, pl.Drain(), "buffered records must be discarded on switch, not delivered")

	// Pre-switch halves are gone: an angle frame alone emits nothing.
	recs = pl.Feed(yahboom(0x53, 1000, 2000, 3000))
	assert.Empty(t, recs, "record emitted from pre-reset motion half")

	// Once both kinds are freshly observed, records flow again.
	recs = pl.Feed(yahboom(0x52, 10, 20, 30))
	require.Len(t, recs, 1)
	assert.NotZero(t, recs[0].Roll)
}

func TestPipelineToleratesGarbageBetweenFrames(t *testing.T) {
	pl := New(protocol.ProtocolYahboom, 1, func() int64 { return 0 })

	var stream []byte
	stream = append(stream, 0xDE, 0xAD, 0x55) // noise plus a false header
	stream = append(stream, yahboom(0x53, 100, 200, 300)...)
	stream = append(stream, 0x00)
	stream = append(stream, yahboom(0x52, 1, 2, 3)...)

	recs := pl.Feed(stream)
	require.Len(t, recs, 1)
}
