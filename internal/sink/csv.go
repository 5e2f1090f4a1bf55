// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package sink delivers drained batches to their consumers: local CSV
// files and the MQTT upload topic. The two sinks are independent; a
// failure in one never affects the other, and neither ever re-inserts a
// batch into the live buffer.
package sink

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/relabs-tech/imu_recorder/internal/batch"
	"github.com/relabs-tech/imu_recorder/internal/record"
)

// csvHeader is the canonical column layout for persisted records.
var csvHeader = []string{
	"timestamp",
	"accX", "accY", "accZ",
	"gyroX", "gyroY", "gyroZ",
	"magX", "magY", "magZ",
	"roll", "pitch", "yaw",
}

// CSVSink writes each drained batch to its own file in a directory.
type CSVSink struct {
	dir string
	now func() time.Time // file naming; injectable for tests
}

// NewCSVSink creates the output directory if needed.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &CSVSink{dir: dir, now: time.Now}, nil
}

// WriteBatch persists one batch as a new CSV file and returns its path.
// An empty batch writes nothing and returns an empty path.
func (s *CSVSink) WriteBatch(b batch.Batch) (string, error) {
	if len(b) == 0 {
		return "", nil
	}

	path := filepath.Join(s.dir, fmt.Sprintf("imu_%d.csv", s.now().UnixMilli()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv create %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	w := csv.NewWriter(bw)

	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return "", fmt.Errorf("csv write header: %w", err)
	}
	for _, r := range b {
		if err := w.Write(csvRow(r)); err != nil {
			f.Close()
			return "", fmt.Errorf("csv write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("csv flush: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("csv flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("csv close %s: %w", path, err)
	}
	return path, nil
}

func csvRow(r record.Record) []string {
	f := func(v float32) string {
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return []string{
		strconv.FormatInt(r.Timestamp, 10),
		f(r.AccX), f(r.AccY), f(r.AccZ),
		f(r.GyroX), f(r.GyroY), f(r.GyroZ),
		f(r.MagX), f(r.MagY), f(r.MagZ),
		f(r.Roll), f(r.Pitch), f(r.Yaw),
	}
}
