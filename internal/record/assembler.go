package record

import (
	"time"

	"github.com/relabs-tech/imu_recorder/internal/protocol"
)

// Assembler merges the most recent motion and orientation halves into
// unified records. A record is emitted on every fresh half once both kinds
// have been seen since the last reset; the half that did not just update
// carries its latest-known values. That mirrors the device cadence, where
// the two halves arrive in separate packets and consumers update on each
// half rather than waiting for both to refresh in lock-step.
//
// Not safe for concurrent use; the pipeline serializes access.
type Assembler struct {
	now    func() int64
	motion *protocol.MotionSample
	orient *protocol.OrientationSample
}

// NewAssembler returns an assembler stamping records with now, in
// milliseconds. A nil now uses the wall clock.
func NewAssembler(now func() int64) *Assembler {
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &Assembler{now: now}
}

// Apply folds one decoded half into the assembler state and reports the
// resulting record, if both halves are available. The timestamp is
// assigned here, at assembly time, not at parse time.
func (a *Assembler) Apply(r protocol.PartialReading) (Record, bool) {
	switch s := r.(type) {
	case protocol.MotionSample:
		a.motion = &s
	case protocol.OrientationSample:
		a.orient = &s
	default:
		return Record{}, false
	}
	if a.motion == nil || a.orient == nil {
		return Record{}, false
	}

	m, o := a.motion, a.orient
	return Record{
		Timestamp: a.now(),
		AccX:      m.Acc[0],
		AccY:      m.Acc[1],
		AccZ:      m.Acc[2],
		GyroX:     m.Gyro[0],
		GyroY:     m.Gyro[1],
		GyroZ:     m.Gyro[2],
		MagX:      m.Mag[0],
		MagY:      m.Mag[1],
		MagZ:      m.Mag[2],
		Roll:      o.Roll,
		Pitch:     o.Pitch,
		Yaw:       o.Yaw,
	}, true
}

// Reset clears both cached halves. After a reset no record is emitted
// until a motion and an orientation sample have both been freshly
// observed, regardless of what was cached before.
func (a *Assembler) Reset() {
	a.motion = nil
	a.orient = nil
}
