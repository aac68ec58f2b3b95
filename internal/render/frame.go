package render

import (
	"github.com/relabs-tech/liquid_gauge/internal/liquid"
)

// Frame is one finished raster for the matrix: per-pixel brightness,
// row-major, rebuilt from scratch every tick and never persisted.
type Frame struct {
	Pix [liquid.Size * liquid.Size]uint8
}

// Side returns the matrix side length.
func (f *Frame) Side() int {
	return liquid.Size
}

// At returns the brightness at (x,y); out-of-range coordinates read as 0.
func (f *Frame) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= liquid.Size || y >= liquid.Size {
		return 0
	}
	return f.Pix[y*liquid.Size+x]
}

// Set writes the brightness at (x,y); out-of-range coordinates are ignored.
func (f *Frame) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= liquid.Size || y >= liquid.Size {
		return
	}
	f.Pix[y*liquid.Size+x] = v
}

// Payload is the wire form of a Frame for MQTT and websocket transport.
// Pix marshals to base64 under encoding/json.
type Payload struct {
	W   int    `json:"w"`
	H   int    `json:"h"`
	Pix []byte `json:"pix"`
}

// Payload returns the frame as a transportable message.
func (f *Frame) Payload() Payload {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix[:])
	return Payload{W: liquid.Size, H: liquid.Size, Pix: pix}
}

// FromPayload reconstructs a Frame from a wire message. Payloads of the
// wrong geometry are rejected by returning false.
func FromPayload(p Payload) (*Frame, bool) {
	if p.W != liquid.Size || p.H != liquid.Size || len(p.Pix) != liquid.Size*liquid.Size {
		return nil, false
	}
	f := &Frame{}
	copy(f.Pix[:], p.Pix)
	return f, true
}

// Backend accepts finished frames, once per tick, fire and forget.
type Backend interface {
	Name() string
	Push(*Frame) error
	Close() error
}
