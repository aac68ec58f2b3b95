package liquid

import (
	"math"
)

// Size is the side length of the square matrix; the field holds one
// surface height per column.
const Size = 25

const (
	// topMargin keeps the surface inside a visible band: at 100% fill the
	// base level still sits topMargin rows below the top edge.
	topMargin = 8.0

	// followRate is the fraction of the distance to the target surface a
	// column covers per tick. First-order lag, keeps motion smooth when
	// tilt changes sharply.
	followRate = 0.12

	// Traveling sinusoid parameters for surface liveliness.
	waveAmplitude   = 0.8
	waveSpatialFreq = 0.4
	waveTimeFreq    = 0.004 // per millisecond, ~1.57 s period

	// tiltDeadZone absorbs small noise and the gravity component error so
	// a device lying flat reads as no tilt.
	tiltDeadZone = 5.0

	centerX = Size / 2.0
	radius  = Size/2.0 - 1
)

// Field holds the per-column liquid state. Heights are measured from the
// top edge to the surface, so a smaller height means more liquid.
type Field struct {
	Heights [Size]float64

	// Velocities is reserved state for a future physics extension
	// (dynamic wave propagation); the current integration does not use it.
	Velocities [Size]float64
}

// NewField returns a field with the liquid resting near the bottom, the
// state a device sitting upright settles into.
func NewField() *Field {
	f := &Field{}
	for i := range f.Heights {
		f.Heights[i] = Size - 5.0
	}
	return f
}

// InViewport reports whether column x intersects the circular viewport.
func InViewport(x int) bool {
	return math.Abs(float64(x)-centerX) <= radius
}

// Step recomputes every column height for one tick. tiltX and tiltY are the
// filtered accelerations, fillRatio the fill target in [0,1]. nowMs drives
// the wave phase and is injected so tests can run on a virtual clock.
func (f *Field) Step(tiltX, tiltY, fillRatio float64, nowMs int64) {
	baseLevel := Size - fillRatio*(Size-topMargin)

	for x := 0; x < Size; x++ {
		if !InViewport(x) {
			f.Heights[x] = Size
			continue
		}

		tiltEffect := 0.0

		// Vertical tilt: past the dead zone the liquid runs toward
		// whatever is currently "down". tiltY < -5 is upside down.
		if tiltY < -tiltDeadZone {
			tiltEffect += (tiltY + tiltDeadZone) * 2
		} else if tiltY > tiltDeadZone {
			tiltEffect -= (tiltY - tiltDeadZone) * 1
		}

		// Horizontal tilt: positive tiltX pushes liquid toward larger x.
		tiltEffect += (float64(x) - centerX) * (-tiltX) * 0.5

		waveOffset := math.Sin(float64(x)*waveSpatialFreq+float64(nowMs)*waveTimeFreq) * waveAmplitude

		target := baseLevel + tiltEffect + waveOffset

		f.Heights[x] += (target - f.Heights[x]) * followRate
		f.Heights[x] = clamp(f.Heights[x])
	}
}

// Drain empties the field: every column to height Size, velocities zeroed.
func (f *Field) Drain() {
	for i := range f.Heights {
		f.Heights[i] = Size
		f.Velocities[i] = 0
	}
}

func clamp(h float64) float64 {
	return math.Max(0, math.Min(Size, h))
}
