// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/imu_recorder/internal/config"
	"github.com/relabs-tech/imu_recorder/internal/pipeline"
	"github.com/relabs-tech/imu_recorder/internal/sink"
)

// RunRecorder reads the IMU serial stream, assembles unified records, and
// drains them periodically to the CSV and MQTT sinks. The serial reader
// goroutine only mutates in-memory pipeline state; all sink I/O happens on
// the drain loop.
func RunRecorder() error {
	cfg := config.Get()
	log.Printf("recorder: starting, protocol=%s port=%s", cfg.Protocol, cfg.IMUSerialPort)

	// ---- connect to MQTT ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDRecorder)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("recorder: connected to MQTT broker at %s", cfg.MQTTBroker)

	csvSink, err := sink.NewCSVSink(cfg.OutputDir)
	if err != nil {
		return err
	}
	upload := sink.NewMQTTSink(client, cfg.TopicBatch)

	// ---- open IMU serial port ----
	serialOpts := serial.OpenOptions{
		PortName:        cfg.IMUSerialPort,
		BaudRate:        uint(cfg.IMUBaudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("recorder: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	pl := pipeline.New(cfg.Protocol, float32(cfg.YahboomMagScale), nil)

	// ---- producer: serial chunks -> pipeline ----
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 512)
		for {
			n, err := port.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 0 {
				continue
			}
			for _, rec := range pl.Feed(buf[:n]) {
				payload, err := json.Marshal(rec)
				if err != nil {
					log.Printf("recorder: record marshal error: %v", err)
					continue
				}
				// Fire and forget; the live stream is best effort and must
				// not stall the serial reader.
				client.Publish(cfg.TopicRecord, 0, true, payload)
			}
		}
	}()

	// ---- drain loop: periodic handoff to the sinks ----
	flush := func() {
		b := pl.Drain()
		if len(b) == 0 {
			return
		}
		if path, err := csvSink.WriteBatch(b); err != nil {
			log.Printf("recorder: csv write error: %v", err)
		} else {
			log.Printf("recorder: wrote %d records to %s", len(b), path)
		}
		if err := upload.Publish(b); err != nil {
			log.Printf("recorder: batch upload error: %v", err)
		}
	}

	ticker := time.NewTicker(time.Duration(cfg.DrainIntervalSeconds) * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			flush()
		case err := <-readErr:
			log.Printf("recorder: serial read error: %v", err)
			flush() // do not lose buffered records on disconnect
			return err
		case s := <-sig:
			log.Printf("recorder: received %s, flushing and shutting down", s)
			flush()
			return nil
		}
	}
}
