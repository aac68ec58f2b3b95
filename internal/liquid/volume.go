package liquid

// correctionRate is the fraction of the per-column volume adjustment
// applied per call, so corrections never read as a visible snap.
const correctionRate = 0.1

// Volume returns the total liquid volume held by the in-viewport columns.
func (f *Field) Volume() float64 {
	total := 0.0
	for x := 0; x < Size; x++ {
		if InViewport(x) {
			total += Size - f.Heights[x]
		}
	}
	return total
}

// TargetVolume returns the volume the field holds when every in-viewport
// column sits exactly at the base level for fillRatio. Using the
// simulator's own equilibrium keeps the corrector idempotent there.
func TargetVolume(fillRatio float64) float64 {
	return fillRatio * (Size - topMargin) * float64(viewportColumns())
}

// CorrectVolume nudges the in-viewport columns so the total volume drifts
// toward targetVolume, countering the bias the tilt and wave terms
// introduce. Repeated calls with a constant target converge geometrically.
func (f *Field) CorrectVolume(targetVolume float64) {
	validColumns := viewportColumns()
	if validColumns == 0 {
		return
	}

	volumeError := targetVolume - f.Volume()
	adjustment := volumeError / float64(validColumns)

	for x := 0; x < Size; x++ {
		if !InViewport(x) {
			continue
		}
		f.Heights[x] -= adjustment * correctionRate
		f.Heights[x] = clamp(f.Heights[x])
	}
}

func viewportColumns() int {
	n := 0
	for x := 0; x < Size; x++ {
		if InViewport(x) {
			n++
		}
	}
	return n
}
