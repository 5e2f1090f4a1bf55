// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package record assembles decoded protocol halves into unified,
// timestamped sensor records.
package record

// Record is one fully assembled sensor reading combining the motion and
// orientation halves. Records are immutable once appended to a batch.
type Record struct {
	// Timestamp is the wall clock at assembly time, in milliseconds.
	Timestamp int64 `json:"timestamp"`

	AccX float32 `json:"accX"` // g
	AccY float32 `json:"accY"`
	AccZ float32 `json:"accZ"`

	GyroX float32 `json:"gyroX"` // deg/s
	GyroY float32 `json:"gyroY"`
	GyroZ float32 `json:"gyroZ"`

	MagX float32 `json:"magX"` // device units
	MagY float32 `json:"magY"`
	MagZ float32 `json:"magZ"`

	Roll  float32 `json:"roll"` // deg
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
}
