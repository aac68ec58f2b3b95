package render

import (
	"fmt"
	"math"

	"github.com/relabs-tech/liquid_gauge/internal/liquid"
)

const (
	// Brightness of the liquid body; the overlay stays at full brightness
	// so the number reads over the surface.
	liquidBrightness  = 180
	overlayBrightness = 255

	backdropPadding = 2
	backdropRadius  = 2
)

// Compose turns the liquid field and the display battery level into one
// frame. Three layers, fixed order: the liquid mask inside the circular
// viewport, a rounded-rectangle contrast backdrop behind the text, and
// the percentage itself on top.
func Compose(field *liquid.Field, level int) *Frame {
	f := &Frame{}

	center := liquid.Size / 2.0
	radius := liquid.Size/2.0 - 1

	// Liquid layer: a pixel is liquid when it lies inside the viewport
	// circle and at or below the column's surface height.
	for x := 0; x < liquid.Size; x++ {
		surface := field.Heights[x]
		for y := 0; y < liquid.Size; y++ {
			dx := float64(x) - center
			dy := float64(y) - center
			if math.Sqrt(dx*dx+dy*dy) <= radius && float64(y) >= surface {
				f.Set(x, y, liquidBrightness)
			}
		}
	}

	text := fmt.Sprintf("%02d%%", level)
	tw, th := textSize(text)
	tx := (liquid.Size - tw) / 2
	ty := (liquid.Size - th) / 2

	fillRoundRect(f,
		tx-backdropPadding, ty-backdropPadding,
		tx+tw-1+backdropPadding, ty+th-1+backdropPadding,
		backdropRadius, 0)

	drawText(f, text, tx, ty, overlayBrightness)

	return f
}

// fillRoundRect fills the inclusive rectangle [x0,x1]x[y0,y1] with v,
// rounding the corners with radius r.
func fillRoundRect(f *Frame, x0, y0, x1, y1, r int, v uint8) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if inRoundRect(x, y, x0, y0, x1, y1, r) {
				f.Set(x, y, v)
			}
		}
	}
}

func inRoundRect(x, y, x0, y0, x1, y1, r int) bool {
	// Corner test: inside the corner squares the pixel must fall within
	// the quarter-circle arc.
	cx, cy := 0, 0
	switch {
	case x < x0+r && y < y0+r:
		cx, cy = x0+r, y0+r
	case x > x1-r && y < y0+r:
		cx, cy = x1-r, y0+r
	case x < x0+r && y > y1-r:
		cx, cy = x0+r, y1-r
	case x > x1-r && y > y1-r:
		cx, cy = x1-r, y1-r
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}
