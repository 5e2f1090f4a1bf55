package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/relabs-tech/imu_recorder/internal/batch"
)

func TestCSVSinkEmptyBatchIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	path, err := s.WriteBatch(nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if path != "" {
		t.Errorf("empty batch wrote %q", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("empty batch created %d files", len(entries))
	}
}

func TestCSVSinkWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	b := batch.Batch{
		{Timestamp: 1, AccX: 1.5, GyroY: -2.25, MagZ: 12, Roll: 0.5, Yaw: 90},
		{Timestamp: 2, AccZ: -0.125},
	}

	path, err := s.WriteBatch(b)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file written outside output dir: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	wantHeader := "timestamp,accX,accY,accZ,gyroX,gyroY,gyroZ,magX,magY,magZ,roll,pitch,yaw"
	if got := join(rows[0]); got != wantHeader {
		t.Errorf("header = %s, want %s", got, wantHeader)
	}
	if got := join(rows[1]); got != "1,1.5,0,0,0,-2.25,0,0,0,12,0.5,0,90" {
		t.Errorf("row 1 = %s", got)
	}
	if got := join(rows[2]); got != "2,0,0,-0.125,0,0,0,0,0,0,0,0,0" {
		t.Errorf("row 2 = %s", got)
	}
}

func join(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}

func TestCSVSinkEachDrainGetsOwnFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	ts := int64(1000)
	s.now = func() time.Time {
		ts++
		return time.UnixMilli(ts)
	}

	b := batch.Batch{{Timestamp: 1}}
	p1, err := s.WriteBatch(b)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.WriteBatch(b)
	if err != nil {
		t.Fatal(err)
	}
	if p1 == p2 {
		t.Errorf("consecutive drains reused file %s", p1)
	}
}
