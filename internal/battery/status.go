package battery

// Status represents a single battery broadcast suitable for JSON and MQTT.
type Status struct {
	Level    int    `json:"level"`    // raw level as reported by the source
	Scale    int    `json:"scale"`    // value corresponding to 100%
	Charging bool   `json:"charging"` // informational, not consumed by the gauge
	Source   string `json:"source"`   // e.g. "BAT0" or "mock"
}

// Percent returns the battery level normalized to 0..100.
// A broadcast with an unusable scale maps to 0.
func (s Status) Percent() int {
	if s.Scale <= 0 {
		return 0
	}
	p := int(float64(s.Level) / float64(s.Scale) * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Ratio returns the fill ratio in [0,1] derived from the broadcast.
func (s Status) Ratio() float64 {
	return float64(s.Percent()) / 100.0
}
