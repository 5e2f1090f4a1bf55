package record

import (
	"testing"

	"github.com/relabs-tech/imu_recorder/internal/protocol"
)

func fixedClock(ms int64) func() int64 {
	return func() int64 { return ms }
}

func TestAssemblerWaitsForBothHalves(t *testing.T) {
	a := NewAssembler(fixedClock(1000))

	if _, ok := a.Apply(protocol.MotionSample{Acc: [3]float32{1, 2, 3}}); ok {
		t.Fatal("record emitted with only a motion sample")
	}

	rec, ok := a.Apply(protocol.OrientationSample{Roll: 10, Pitch: 20, Yaw: 30})
	if !ok {
		t.Fatal("no record once both halves present")
	}
	if rec.Timestamp != 1000 {
		t.Errorf("timestamp = %d, want 1000", rec.Timestamp)
	}
	if rec.AccX != 1 || rec.Roll != 10 || rec.Yaw != 30 {
		t.Errorf("merged record mismatch: %+v", rec)
	}
}

func TestAssemblerEmitsOnEveryFreshHalf(t *testing.T) {
	a := NewAssembler(fixedClock(5))
	a.Apply(protocol.MotionSample{Gyro: [3]float32{1, 1, 1}})
	a.Apply(protocol.OrientationSample{Yaw: 90})

	// A fresh motion half emits immediately, carrying the stale-but-latest
	// orientation values.
	rec, ok := a.Apply(protocol.MotionSample{Gyro: [3]float32{2, 2, 2}})
	if !ok {
		t.Fatal("fresh motion half did not emit")
	}
	if rec.GyroX != 2 || rec.Yaw != 90 {
		t.Errorf("stale-but-latest merge mismatch: %+v", rec)
	}

	// And vice versa.
	rec, ok = a.Apply(protocol.OrientationSample{Yaw: 91})
	if !ok {
		t.Fatal("fresh orientation half did not emit")
	}
	if rec.Yaw != 91 || rec.GyroX != 2 {
		t.Errorf("stale-but-latest merge mismatch: %+v", rec)
	}
}

func TestAssemblerResetRequiresBothHalvesAgain(t *testing.T) {
	a := NewAssembler(fixedClock(5))
	a.Apply(protocol.MotionSample{})
	a.Apply(protocol.OrientationSample{})
	a.Reset()

	if _, ok := a.Apply(protocol.MotionSample{}); ok {
		t.Fatal("record emitted from pre-reset orientation half")
	}
	if _, ok := a.Apply(protocol.OrientationSample{}); !ok {
		t.Fatal("no record after both halves observed post-reset")
	}
}
