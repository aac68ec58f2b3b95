package orientation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// serialSource reads acceleration samples from a serial-attached IMU that
// streams one "ax,ay,az" CSV line per sample (values in m/s²).
type serialSource struct {
	port   io.ReadCloser
	reader *bufio.Reader
}

// NewSerialSource opens the serial port and returns a Source that yields
// one sample per well-formed line. Malformed or partial lines are skipped.
func NewSerialSource(portName string, baudRate int) (Source, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("accel serial port %s: %w", portName, err)
	}

	return &serialSource{port: port, reader: bufio.NewReader(port)}, nil
}

func (s *serialSource) Next() (Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return Sample{}, fmt.Errorf("accel serial read: %w", err)
		}

		sample, ok := parseAccelLine(line)
		if !ok {
			// noisy link or partial line at open; wait for the next one
			continue
		}
		return sample, nil
	}
}

func (s *serialSource) Close() error {
	return s.port.Close()
}

// parseAccelLine parses one "ax,ay,az" line. Reports ok=false for anything
// that is not exactly three parseable floats.
func parseAccelLine(line string) (Sample, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Sample{}, false
	}

	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Sample{}, false
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Sample{}, false
		}
		vals[i] = v
	}

	return Sample{Ax: vals[0], Ay: vals[1], Az: vals[2]}, true
}
