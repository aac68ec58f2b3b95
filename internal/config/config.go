package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDGauge   string
	MQTTClientIDAccel   string
	MQTTClientIDBattery string
	MQTTClientIDWeb     string

	// Topics
	TopicAccel    string
	TopicBattery  string
	TopicToyEvent string
	TopicFrame    string

	// Timing (milliseconds)
	TickInterval        int // simulation + compositing tick
	AccelSampleInterval int
	BatteryPollInterval int

	// Accelerometer source: "mock", "adxl345" or "serial"
	AccelSource     string
	AccelSerialPort string
	AccelBaudRate   int
	AccelI2CBus     string
	AccelI2CAddr    uint16

	// Battery
	BatterySysfsName string // e.g. "BAT0" under /sys/class/power_supply

	// Display
	DisplayEnabled bool
	DisplayI2CAddr uint16

	// Web Server
	WebServerPort int
	WebStaticDir  string
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     External code must use InitGlobal() to set and Get() to read.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get() allows multiple concurrent readers.
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

	cfg := Default()
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

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a Config with workable defaults for everything that has one.
// MQTT_BROKER has no default and must come from the file.
func Default() *Config {
	return &Config{
		MQTTClientIDGauge:   "liquid-gauge",
		MQTTClientIDAccel:   "liquid-gauge-accel-producer",
		MQTTClientIDBattery: "liquid-gauge-battery-producer",
		MQTTClientIDWeb:     "liquid-gauge-web",

		TopicAccel:    "gauge/accel",
		TopicBattery:  "gauge/battery",
		TopicToyEvent: "gauge/toy",
		TopicFrame:    "gauge/frame",

		TickInterval:        50,
		AccelSampleInterval: 20,
		BatteryPollInterval: 5000,

		AccelSource:   "mock",
		AccelBaudRate: 115200,
		AccelI2CAddr:  0x53,

		BatterySysfsName: "BAT0",

		DisplayI2CAddr: 0x3C,

		WebServerPort: 8080,
		WebStaticDir:  "web",
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GAUGE":
		c.MQTTClientIDGauge = value
	case "MQTT_CLIENT_ID_ACCEL":
		c.MQTTClientIDAccel = value
	case "MQTT_CLIENT_ID_BATTERY":
		c.MQTTClientIDBattery = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_BATTERY":
		c.TopicBattery = value
	case "TOPIC_TOY_EVENT":
		c.TopicToyEvent = value
	case "TOPIC_FRAME":
		c.TopicFrame = value

	// Timing
	case "TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("TICK_INTERVAL must be positive, got %d", interval)
		}
		c.TickInterval = interval
	case "ACCEL_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.AccelSampleInterval = interval
	case "BATTERY_POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BATTERY_POLL_INTERVAL %q: %w", value, err)
		}
		c.BatteryPollInterval = interval

	// Accelerometer
	case "ACCEL_SOURCE":
		switch value {
		case "mock", "adxl345", "serial":
			c.AccelSource = value
		default:
			return fmt.Errorf("ACCEL_SOURCE must be mock, adxl345 or serial, got %q", value)
		}
	case "ACCEL_SERIAL_PORT":
		c.AccelSerialPort = value
	case "ACCEL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_BAUD_RATE %q: %w", value, err)
		}
		c.AccelBaudRate = rate
	case "ACCEL_I2C_BUS":
		c.AccelI2CBus = value
	case "ACCEL_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_I2C_ADDR %q: %w", value, err)
		}
		c.AccelI2CAddr = uint16(addr)

	// Battery
	case "BATTERY_SYSFS_NAME":
		c.BatterySysfsName = value

	// Display
	case "DISPLAY_ENABLED":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
		c.DisplayEnabled = enabled
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

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
	if c.TopicAccel == "" {
		return fmt.Errorf("TOPIC_ACCEL is required")
	}
	if c.TopicBattery == "" {
		return fmt.Errorf("TOPIC_BATTERY is required")
	}
	if c.TopicFrame == "" {
		return fmt.Errorf("TOPIC_FRAME is required")
	}
	if c.TickInterval == 0 {
		return fmt.Errorf("TICK_INTERVAL is required")
	}
	if c.AccelSource == "serial" && c.AccelSerialPort == "" {
		return fmt.Errorf("ACCEL_SERIAL_PORT is required when ACCEL_SOURCE=serial")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
