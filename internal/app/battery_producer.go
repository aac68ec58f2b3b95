package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/liquid_gauge/internal/battery"
	"github.com/relabs-tech/liquid_gauge/internal/config"
)

// RunBatteryProducer polls the kernel power_supply class and publishes a
// broadcast on the battery topic whenever the reading changes.
func RunBatteryProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDBattery)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("battery producer: MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Infof("battery producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	reader := battery.NewSysfsReader(cfg.BatterySysfsName)
	log.Infof("battery producer: polling %s every %d ms", cfg.BatterySysfsName, cfg.BatteryPollInterval)

	// ---- 2) Poll loop, publish on change ----
	ticker := time.NewTicker(time.Duration(cfg.BatteryPollInterval) * time.Millisecond)
	defer ticker.Stop()

	var last battery.Status
	havePublished := false

	for range ticker.C {
		status, err := reader.Read()
		if err != nil {
			log.Warnf("battery producer: %v", err)
			continue
		}

		if havePublished && status == last {
			continue
		}

		payload, err := json.Marshal(status)
		if err != nil {
			return fmt.Errorf("battery producer: marshal: %w", err)
		}
		client.Publish(cfg.TopicBattery, 0, true, payload)
		log.Infof("battery producer: level %d%% (charging=%v)", status.Percent(), status.Charging)

		last = status
		havePublished = true
	}
	return nil
}
