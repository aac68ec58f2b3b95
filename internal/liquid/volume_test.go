package liquid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeCountsOnlyViewportColumns(t *testing.T) {
	f := &Field{}
	for x := range f.Heights {
		f.Heights[x] = Size - 2 // 2 units of liquid per column
	}
	// column 0 is outside the viewport and must not contribute
	assert.InDelta(t, 2*24, f.Volume(), 1e-9)
}

func TestTargetVolumeMatchesEquilibrium(t *testing.T) {
	f := &Field{}
	baseLevel := Size - 0.5*(Size-topMargin)
	for x := range f.Heights {
		f.Heights[x] = baseLevel
	}
	f.Heights[0] = Size

	assert.InDelta(t, TargetVolume(0.5), f.Volume(), 1e-9)
}

func TestCorrectVolumeReducesErrorMonotonically(t *testing.T) {
	f := NewField()
	target := TargetVolume(0.8)

	prevErr := math.Abs(target - f.Volume())
	for i := 0; i < 100; i++ {
		f.CorrectVolume(target)
		err := math.Abs(target - f.Volume())
		assert.LessOrEqual(t, err, prevErr, "iteration %d", i)
		prevErr = err
	}
	assert.Less(t, prevErr, 1.0)
}

func TestCorrectVolumeIdempotentAtEquilibrium(t *testing.T) {
	f := &Field{}
	baseLevel := Size - 0.3*(Size-topMargin)
	for x := range f.Heights {
		f.Heights[x] = baseLevel
	}
	f.Heights[0] = Size

	before := f.Heights
	f.CorrectVolume(TargetVolume(0.3))
	for x := 0; x < Size; x++ {
		assert.InDelta(t, before[x], f.Heights[x], 1e-9)
	}
}

func TestCorrectVolumeLeavesOutsideColumnsAlone(t *testing.T) {
	f := NewField()
	f.Heights[0] = Size
	f.CorrectVolume(TargetVolume(1.0))
	assert.Equal(t, float64(Size), f.Heights[0])
}

func TestCorrectVolumeClamps(t *testing.T) {
	f := &Field{} // all heights zero, completely full
	f.CorrectVolume(0)
	for x := 0; x < Size; x++ {
		assert.GreaterOrEqual(t, f.Heights[x], 0.0)
		assert.LessOrEqual(t, f.Heights[x], float64(Size))
	}
}
