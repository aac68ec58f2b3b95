package liquid

// revealDurationMs is the length of the startup fill animation.
const revealDurationMs = 600

// Reveal is the startup animation: a time-boxed linear fill from an empty
// field up to the live battery level. While running it owns the fill
// target; once complete it folds back to idle with the final values held.
type Reveal struct {
	active  bool
	startMs int64
	level   int
	ratio   float64
}

// Start (re)triggers the animation at nowMs and drains the field so the
// fill visibly starts from empty. Last trigger wins.
func (r *Reveal) Start(nowMs int64, f *Field) {
	r.active = true
	r.startMs = nowMs
	r.level = 0
	r.ratio = 0
	f.Drain()
}

// Advance moves the animation to nowMs and returns the fill ratio to use
// this tick. While idle it passes the live battery ratio through. On
// completion the animated values snap to the live level exactly, removing
// any residual interpolation error.
func (r *Reveal) Advance(nowMs int64, batteryLevel int) float64 {
	if !r.active {
		r.level = batteryLevel
		return float64(batteryLevel) / 100
	}

	elapsed := nowMs - r.startMs
	progress := float64(elapsed) / revealDurationMs
	if progress > 1 {
		progress = 1
	}
	if progress < 0 { // clock moved backwards; treat as just started
		progress = 0
	}

	r.level = int(progress * float64(batteryLevel))
	r.ratio = progress * float64(batteryLevel) / 100

	if progress >= 1 {
		r.active = false
		r.level = batteryLevel
		r.ratio = float64(batteryLevel) / 100
	}

	return r.ratio
}

// Active reports whether the animation is running.
func (r *Reveal) Active() bool {
	return r.active
}

// Level returns the battery level to display: the animated value while
// running, the last snapped value after completion.
func (r *Reveal) Level() int {
	return r.level
}
