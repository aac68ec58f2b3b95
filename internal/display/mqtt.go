package display

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/liquid_gauge/internal/render"
)

// MQTTPublisher fans finished frames out on an MQTT topic so previews
// (web, console) can subscribe without touching the tick loop.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher wraps an already connected client. The publisher does
// not own the connection; Close is a no-op.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

func (p *MQTTPublisher) Name() string {
	return "mqtt:" + p.topic
}

// Push publishes the frame as JSON, fire and forget.
func (p *MQTTPublisher) Push(frame *render.Frame) error {
	payload, err := json.Marshal(frame.Payload())
	if err != nil {
		return fmt.Errorf("frame publish: marshal: %w", err)
	}
	p.client.Publish(p.topic, 0, false, payload)
	return nil
}

func (p *MQTTPublisher) Close() error {
	return nil
}
