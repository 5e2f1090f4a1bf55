package protocol

// MotionSample is the inertial half of a unified record: accelerometer,
// gyroscope and magnetometer triples in physical units (g, deg/s, and
// device-dependent magnetometer units).
type MotionSample struct {
	Acc  [3]float32 `json:"acc"`
	Gyro [3]float32 `json:"gyro"`
	Mag  [3]float32 `json:"mag"`
}

// OrientationSample is the attitude half of a unified record, in degrees.
type OrientationSample struct {
	Roll  float32 `json:"roll"`
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
}

// PartialReading is one decoded half of a unified record: either a
// MotionSample or an OrientationSample.
type PartialReading interface {
	partialReading()
}

func (MotionSample) partialReading()      {}
func (OrientationSample) partialReading() {}
