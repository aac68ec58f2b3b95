package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/liquid_gauge/internal/config"
	"github.com/relabs-tech/liquid_gauge/internal/display"
	"github.com/relabs-tech/liquid_gauge/internal/render"
)

// RunGauge wires the full indicator service: MQTT inputs, the tick loop
// and the configured output backends. Blocks until SIGINT/SIGTERM.
func RunGauge() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGauge)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("gauge: MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Infof("gauge: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Output backends ----
	backends := []render.Backend{
		display.NewMQTTPublisher(client, cfg.TopicFrame),
	}

	if cfg.DisplayEnabled {
		oled, err := display.NewSSD1306(cfg.AccelI2CBus, cfg.DisplayI2CAddr)
		if err != nil {
			return fmt.Errorf("gauge: %w", err)
		}
		backends = append(backends, oled)
		log.Infof("gauge: SSD1306 backend enabled at 0x%02X", cfg.DisplayI2CAddr)
	}

	// ---- 3) Gauge + inputs ----
	gauge := NewGauge(backends, time.Duration(cfg.TickInterval)*time.Millisecond)
	if err := gauge.AttachMQTT(client, cfg.TopicAccel, cfg.TopicBattery, cfg.TopicToyEvent); err != nil {
		return fmt.Errorf("gauge: subscribe: %w", err)
	}

	gauge.Start()
	defer gauge.Stop()

	// ---- 4) Run until asked to stop ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Infof("gauge: received %s, shutting down", s)

	return nil
}
