package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/liquid_gauge/internal/render"
)

const (
	oledWidth  = 128
	oledHeight = 64

	// The 25x25 matrix is doubled onto the OLED with a small border.
	matrixScale   = 2
	matrixOffsetX = 4
	matrixOffsetY = 7

	// 1-bit panel: anything the compositor lit becomes an on pixel.
	onThreshold = 1
)

// SSD1306 pushes frames to an SSD1306 OLED over I2C, doubling the matrix
// pixels and printing a status line beside it.
type SSD1306 struct {
	dev   *ssd1306.Dev
	bus   i2c.BusCloser
	label string
}

// NewSSD1306 opens the I2C bus ("" picks the first available) and
// initializes the panel at the given address.
func NewSSD1306(busName string, addr uint16) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("display: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("display: open I2C bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("display: init SSD1306 at 0x%02X: %w", addr, err)
	}

	return &SSD1306{dev: dev, bus: bus, label: fmt.Sprintf("ssd1306@0x%02X", addr)}, nil
}

func (d *SSD1306) Name() string {
	return d.label
}

// Push renders the frame onto the panel.
func (d *SSD1306) Push(frame *render.Frame) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	side := frame.Side()
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if frame.At(x, y) < onThreshold {
				continue
			}
			for dy := 0; dy < matrixScale; dy++ {
				for dx := 0; dx < matrixScale; dx++ {
					img.Set(matrixOffsetX+x*matrixScale+dx, matrixOffsetY+y*matrixScale+dy, image1bit.On)
				}
			}
		}
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	drawer.Dot = fixed.P(matrixOffsetX+side*matrixScale+8, 26)
	drawer.DrawBytes([]byte("liquid"))
	drawer.Dot = fixed.P(matrixOffsetX+side*matrixScale+8, 39)
	drawer.DrawBytes([]byte("gauge"))

	if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("display: draw: %w", err)
	}
	return nil
}

// Close releases the I2C bus. Safe to call more than once.
func (d *SSD1306) Close() error {
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}
