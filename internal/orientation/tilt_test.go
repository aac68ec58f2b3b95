package orientation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSmoothing(t *testing.T) {
	f := NewFilter()

	ok := f.Update(Sample{Ax: 10, Ay: -5, Az: 9.8})
	assert.True(t, ok)

	tilt := f.Tilt()
	assert.InDelta(t, 2.0, tilt.X, 1e-9)  // 0.8*0 + 0.2*10
	assert.InDelta(t, -1.0, tilt.Y, 1e-9) // 0.8*0 + 0.2*(-5)

	f.Update(Sample{Ax: 10, Ay: -5, Az: 9.8})
	tilt = f.Tilt()
	assert.InDelta(t, 3.6, tilt.X, 1e-9) // 0.8*2 + 0.2*10
	assert.InDelta(t, -1.8, tilt.Y, 1e-9)
}

func TestFilterConvergesToSteadyInput(t *testing.T) {
	f := NewFilter()
	s := Sample{Ax: 4, Ay: 2, Az: 9.8}

	for i := 0; i < 200; i++ {
		f.Update(s)
	}

	tilt := f.Tilt()
	assert.InDelta(t, 4.0, tilt.X, 1e-6)
	assert.InDelta(t, 2.0, tilt.Y, 1e-6)
	assert.InDelta(t, math.Atan2(4, 9.8), tilt.Roll, 1e-6)
	assert.InDelta(t, math.Atan2(-2, math.Sqrt(4*4+9.8*9.8)), tilt.Pitch, 1e-6)
}

func TestFilterRejectsNonFiniteSamples(t *testing.T) {
	f := NewFilter()
	f.Update(Sample{Ax: 1, Ay: 1, Az: 9.8})
	before := f.Tilt()

	assert.False(t, f.Update(Sample{Ax: math.NaN(), Ay: 0, Az: 9.8}))
	assert.False(t, f.Update(Sample{Ax: 0, Ay: math.Inf(1), Az: 9.8}))
	assert.False(t, f.Update(Sample{Ax: 0, Ay: 0, Az: math.Inf(-1)}))

	assert.Equal(t, before, f.Tilt())
}

func TestFilterReset(t *testing.T) {
	f := NewFilter()
	f.Update(Sample{Ax: 5, Ay: 5, Az: 5})
	f.Reset()
	assert.Equal(t, Tilt{}, f.Tilt())
}

func TestParseAccelLine(t *testing.T) {
	s, ok := parseAccelLine("1.5, -2.25 ,9.8\n")
	assert.True(t, ok)
	assert.Equal(t, Sample{Ax: 1.5, Ay: -2.25, Az: 9.8}, s)

	_, ok = parseAccelLine("")
	assert.False(t, ok)
	_, ok = parseAccelLine("1.5,2.0")
	assert.False(t, ok)
	_, ok = parseAccelLine("a,b,c")
	assert.False(t, ok)
	_, ok = parseAccelLine("1,2,3,4")
	assert.False(t, ok)
}
