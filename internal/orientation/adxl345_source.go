package orientation

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// ADXL345 register map (the subset we use).
const (
	adxlRegDevID      = 0x00
	adxlRegBWRate     = 0x2C
	adxlRegPowerCtl   = 0x2D
	adxlRegDataFormat = 0x31
	adxlRegDataX0     = 0x32

	adxlDevID     = 0xE5
	adxlRate100Hz = 0x0A
	adxlMeasure   = 0x08
	adxlFullRes2G = 0x08 // full resolution, ±2g

	// 3.9 mg/LSB in full resolution mode, converted to m/s².
	adxlScale = 0.0039 * 9.80665
)

type adxl345Source struct {
	dev i2c.Dev
	bus i2c.BusCloser
}

// NewADXL345Source initializes an ADXL345 accelerometer on the given I2C
// bus ("" picks the first available) and returns a Source yielding samples
// in m/s². The device is configured for 100 Hz, full resolution, ±2g.
func NewADXL345Source(busName string, addr uint16) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("accel: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("accel: open I2C bus %q: %w", busName, err)
	}

	dev := i2c.Dev{Bus: bus, Addr: addr}

	var id [1]byte
	if err := dev.Tx([]byte{adxlRegDevID}, id[:]); err != nil {
		bus.Close()
		return nil, fmt.Errorf("accel: read device ID: %w", err)
	}
	if id[0] != adxlDevID {
		bus.Close()
		return nil, fmt.Errorf("accel: unexpected device ID 0x%02X at 0x%02X (want 0x%02X)", id[0], addr, adxlDevID)
	}

	for _, w := range [][2]byte{
		{adxlRegBWRate, adxlRate100Hz},
		{adxlRegDataFormat, adxlFullRes2G},
		{adxlRegPowerCtl, adxlMeasure},
	} {
		if err := dev.Tx(w[:], nil); err != nil {
			bus.Close()
			return nil, fmt.Errorf("accel: write register 0x%02X: %w", w[0], err)
		}
	}

	return &adxl345Source{dev: dev, bus: bus}, nil
}

func (s *adxl345Source) Next() (Sample, error) {
	var raw [6]byte
	if err := s.dev.Tx([]byte{adxlRegDataX0}, raw[:]); err != nil {
		return Sample{}, fmt.Errorf("accel: read data registers: %w", err)
	}

	x := int16(binary.LittleEndian.Uint16(raw[0:2]))
	y := int16(binary.LittleEndian.Uint16(raw[2:4]))
	z := int16(binary.LittleEndian.Uint16(raw[4:6]))

	return Sample{
		Ax: float64(x) * adxlScale,
		Ay: float64(y) * adxlScale,
		Az: float64(z) * adxlScale,
	}, nil
}

func (s *adxl345Source) Close() error {
	return s.bus.Close()
}
