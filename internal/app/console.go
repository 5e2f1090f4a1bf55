package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/imu_recorder/internal/config"
	"github.com/relabs-tech/imu_recorder/internal/record"
)

// RunConsole subscribes to the live record stream and prints each record.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicRecord, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r record.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("console: record unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[REC] t=%d  A=%7.3f %7.3f %7.3f  G=%8.2f %8.2f %8.2f  RPY=%7.2f %7.2f %7.2f\n",
			r.Timestamp,
			r.AccX, r.AccY, r.AccZ,
			r.GyroX, r.GyroY, r.GyroZ,
			r.Roll, r.Pitch, r.Yaw,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicRecord)

	// Subscribe to batch uploads as well, so the console shows drains.
	batchToken := client.Subscribe(cfg.TopicBatch, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var b []record.Record
		if err := json.Unmarshal(msg.Payload(), &b); err != nil {
			log.Printf("console: batch unmarshal error: %v", err)
			return
		}
		fmt.Printf("[BATCH] %d records uploaded\n", len(b))
	})
	batchToken.Wait()
	if batchToken.Error() != nil {
		return batchToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicBatch)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("console: shutting down")
	return nil
}
