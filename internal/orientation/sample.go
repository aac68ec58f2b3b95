package orientation

// Sample represents a single raw 3-axis acceleration reading in the
// device frame, in m/s².
type Sample struct {
	Ax float64 `json:"ax"` // X: left(+)/right(-)
	Ay float64 `json:"ay"` // Y: up(+)/down(-)
	Az float64 `json:"az"` // Z: out of screen (+ toward user)
}

// Source is anything that can provide acceleration samples over time.
// Implementations: mock oscillator, serial-attached IMU, ADXL345 over I2C.
type Source interface {
	Next() (Sample, error)
}
