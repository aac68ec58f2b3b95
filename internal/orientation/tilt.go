package orientation

import (
	"math"
)

// smoothing is the exponential low-pass factor: each update keeps 80% of
// the previous estimate and takes 20% of the new sample.
const smoothing = 0.8

// Tilt is the filtered orientation state consumed by the liquid simulator.
// X and Y are low-passed raw accelerations. Roll and Pitch are smoothed
// angle estimates in radians; they are maintained for a future richer tilt
// response and are not consumed by the simulator yet.
type Tilt struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
}

// Filter smooths raw acceleration samples into a stable Tilt estimate.
type Filter struct {
	tilt Tilt
}

// NewFilter returns a Filter with zeroed state.
func NewFilter() *Filter {
	return &Filter{}
}

// Update folds one acceleration sample into the filtered state.
// Samples with a non-finite component are rejected and leave the state
// untouched; the return value reports whether the sample was accepted.
func (f *Filter) Update(s Sample) bool {
	if !finite(s.Ax) || !finite(s.Ay) || !finite(s.Az) {
		return false
	}

	f.tilt.X = smoothing*f.tilt.X + (1-smoothing)*s.Ax
	f.tilt.Y = smoothing*f.tilt.Y + (1-smoothing)*s.Ay

	// Roll is the left/right tilt angle around the axis out of the screen,
	// pitch the forward/back tilt. Accelerometer-only estimates.
	roll := math.Atan2(s.Ax, s.Az)
	pitch := math.Atan2(-s.Ay, math.Sqrt(s.Ax*s.Ax+s.Az*s.Az))

	f.tilt.Roll = smoothing*f.tilt.Roll + (1-smoothing)*roll
	f.tilt.Pitch = smoothing*f.tilt.Pitch + (1-smoothing)*pitch

	return true
}

// Tilt returns the current filtered estimate.
func (f *Filter) Tilt() Tilt {
	return f.tilt
}

// Reset clears the filtered state back to zero.
func (f *Filter) Reset() {
	f.tilt = Tilt{}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
