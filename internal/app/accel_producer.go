package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/liquid_gauge/internal/config"
	"github.com/relabs-tech/liquid_gauge/internal/orientation"
)

// RunAccelProducer reads acceleration samples from the configured source
// and publishes them as JSON on the accel topic at the sample interval.
func RunAccelProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDAccel)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("accel producer: MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Infof("accel producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open the sample source ----
	src, err := openAccelSource(cfg)
	if err != nil {
		return err
	}
	log.Infof("accel producer: source %q, publishing to %s every %d ms",
		cfg.AccelSource, cfg.TopicAccel, cfg.AccelSampleInterval)

	// ---- 3) Publish loop ----
	ticker := time.NewTicker(time.Duration(cfg.AccelSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sample, err := src.Next()
		if err != nil {
			// transient sensor trouble; skip the sample and keep going
			log.Warnf("accel producer: read: %v", err)
			continue
		}

		payload, err := json.Marshal(sample)
		if err != nil {
			return fmt.Errorf("accel producer: marshal: %w", err)
		}
		client.Publish(cfg.TopicAccel, 0, false, payload)
	}
	return nil
}

func openAccelSource(cfg *config.Config) (orientation.Source, error) {
	switch cfg.AccelSource {
	case "mock":
		return orientation.NewMockSource(), nil
	case "serial":
		return orientation.NewSerialSource(cfg.AccelSerialPort, cfg.AccelBaudRate)
	case "adxl345":
		return orientation.NewADXL345Source(cfg.AccelI2CBus, cfg.AccelI2CAddr)
	default:
		return nil, fmt.Errorf("accel producer: unknown source %q", cfg.AccelSource)
	}
}
