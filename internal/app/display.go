// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/imu_recorder/internal/config"
	"github.com/relabs-tech/imu_recorder/internal/record"
)

// displayData holds the latest data shown on the status panel.
type displayData struct {
	mu sync.RWMutex

	rec      record.Record
	haveRec  bool
	received uint64
	batches  uint64
}

// RunDisplay drives the SSD1306 status panel with the latest record.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicRecord, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r record.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("display: record unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.rec = r
		data.haveRec = true
		data.received++
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicRecord)

	batchToken := client.Subscribe(cfg.TopicBatch, 0, func(_ mqtt.Client, msg mqtt.Message) {
		data.mu.Lock()
		data.batches++
		data.received = 0 // count restarts after each drain
		data.mu.Unlock()
	})
	batchToken.Wait()
	if batchToken.Error() != nil {
		return batchToken.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicBatch)

	interval := cfg.DisplayUpdateInterval
	if interval <= 0 {
		interval = 500
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		rec, have := data.rec, data.haveRec
		received, batches := data.received, data.batches
		data.mu.RUnlock()

		if err := updateDisplay(dev, rec, have, received, batches); err != nil {
			log.Printf("display: update error: %v", err)
		}
	}

	return nil
}

func updateDisplay(dev *ssd1306.Dev, rec record.Record, have bool, received, batches uint64) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !have {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("IMU Recorder"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("R:%6.1f P:%6.1f", rec.Roll, rec.Pitch)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("Y:%6.1f", rec.Yaw)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("A:%5.2f %5.2f %5.2f", rec.AccX, rec.AccY, rec.AccZ)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("n=%d b=%d", received, batches)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
