package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relabs-tech/imu_recorder/internal/protocol"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recorder_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
# recorder test config
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_RECORDER=imu-recorder

TOPIC_RECORD=imu/record
TOPIC_BATCH=imu/batch

IMU_SERIAL_PORT=/dev/ttyUSB0
IMU_BAUD_RATE=921600
PROTOCOL=yahboom
YAHBOOM_MAG_SCALE=0

DRAIN_INTERVAL_SECONDS=60
OUTPUT_DIR=/var/lib/imu-recorder
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.Protocol != protocol.ProtocolYahboom {
		t.Errorf("Protocol = %v, want yahboom", cfg.Protocol)
	}
	if cfg.IMUBaudRate != 921600 {
		t.Errorf("IMUBaudRate = %d", cfg.IMUBaudRate)
	}
	if cfg.YahboomMagScale != 0 {
		t.Errorf("YahboomMagScale = %v, want explicit 0", cfg.YahboomMagScale)
	}
	if cfg.DrainIntervalSeconds != 60 {
		t.Errorf("DrainIntervalSeconds = %d", cfg.DrainIntervalSeconds)
	}
}

func TestMagScaleDefaultsToRaw(t *testing.T) {
	content := strings.Replace(validConfig, "YAHBOOM_MAG_SCALE=0\n", "", 1)
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.YahboomMagScale != 1 {
		t.Errorf("YahboomMagScale default = %v, want 1 (raw counts)", cfg.YahboomMagScale)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, validConfig+"BOGUS_KEY=1\n")); err == nil {
		t.Fatal("unknown key accepted")
	}
}

func TestLoadRejectsBadProtocol(t *testing.T) {
	content := strings.Replace(validConfig, "PROTOCOL=yahboom", "PROTOCOL=witmotion", 1)
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatal("bad protocol value accepted")
	}
}

func TestLoadRequiresFields(t *testing.T) {
	for _, missing := range []string{
		"MQTT_BROKER",
		"IMU_SERIAL_PORT",
		"IMU_BAUD_RATE",
		"DRAIN_INTERVAL_SECONDS",
		"OUTPUT_DIR",
	} {
		var kept []string
		for _, line := range strings.Split(validConfig, "\n") {
			if !strings.HasPrefix(line, missing+"=") {
				kept = append(kept, line)
			}
		}
		if _, err := Load(writeConfig(t, strings.Join(kept, "\n"))); err == nil {
			t.Errorf("config without %s accepted", missing)
		}
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	if _, err := Load(writeConfig(t, validConfig+"NOT A KEY VALUE\n")); err == nil {
		t.Fatal("malformed line accepted")
	}
}
