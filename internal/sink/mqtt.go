package sink

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/imu_recorder/internal/batch"
)

// MQTTSink uploads drained batches as JSON arrays to a fixed topic.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink wraps an already-connected client.
func NewMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{client: client, topic: topic}
}

// Publish uploads one batch. An empty batch publishes nothing. At most one
// delivery attempt is made per batch; retry, if wanted, belongs to the
// consumer side.
func (s *MQTTSink) Publish(b batch.Batch) error {
	if len(b) == 0 {
		return nil
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("batch marshal: %w", err)
	}
	token := s.client.Publish(s.topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("batch publish: %w", token.Error())
	}
	return nil
}
