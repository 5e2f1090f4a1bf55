// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/imu_recorder/internal/protocol"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDRecorder string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	MQTTClientIDGPS      string

	// Topics
	TopicRecord string // live per-record stream
	TopicBatch  string // drained batch upload
	TopicGPS    string

	// IMU transport and wire format
	IMUSerialPort string
	IMUBaudRate   int
	Protocol      protocol.Protocol

	// YahboomMagScale multiplies raw magnetometer counts. 1 keeps raw
	// device units, 0 forces the field to zero; the right value depends on
	// the device profile, firmware revisions disagree.
	YahboomMagScale float64

	// Batching
	DrainIntervalSeconds int
	OutputDir            string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the singleton:
//   - globalConfig is unexported so other packages cannot mutate it
//     without going through InitGlobal/Get.
//   - configOnce ensures InitGlobal only runs once.
//   - configMu allows concurrent readers via RLock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{YahboomMagScale: 1}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_RECORDER":
		c.MQTTClientIDRecorder = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value

	// Topics
	case "TOPIC_RECORD":
		c.TopicRecord = value
	case "TOPIC_BATCH":
		c.TopicBatch = value
	case "TOPIC_GPS":
		c.TopicGPS = value

	// IMU transport and wire format
	case "IMU_SERIAL_PORT":
		c.IMUSerialPort = value
	case "IMU_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_BAUD_RATE %q: %w", value, err)
		}
		c.IMUBaudRate = rate
	case "PROTOCOL":
		p, err := protocol.ParseProtocol(value)
		if err != nil {
			return err
		}
		c.Protocol = p
	case "YAHBOOM_MAG_SCALE":
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid YAHBOOM_MAG_SCALE %q: %w", value, err)
		}
		if scale < 0 {
			return fmt.Errorf("YAHBOOM_MAG_SCALE must be >= 0, got %v", scale)
		}
		c.YahboomMagScale = scale

	// Batching
	case "DRAIN_INTERVAL_SECONDS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DRAIN_INTERVAL_SECONDS %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("DRAIN_INTERVAL_SECONDS must be positive, got %d", interval)
		}
		c.DrainIntervalSeconds = interval
	case "OUTPUT_DIR":
		c.OutputDir = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.IMUSerialPort == "" {
		return fmt.Errorf("IMU_SERIAL_PORT is required")
	}
	if c.IMUBaudRate == 0 {
		return fmt.Errorf("IMU_BAUD_RATE is required")
	}
	if c.DrainIntervalSeconds == 0 {
		return fmt.Errorf("DRAIN_INTERVAL_SECONDS is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Safe to call
// more than once; only the first call loads.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
