package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/liquid_gauge/internal/liquid"
)

func fullField() *liquid.Field {
	f := &liquid.Field{}
	for x := range f.Heights {
		if liquid.InViewport(x) {
			f.Heights[x] = 0 // completely full
		} else {
			f.Heights[x] = liquid.Size
		}
	}
	return f
}

func TestComposeLiquidStaysInsideViewport(t *testing.T) {
	frame := Compose(fullField(), 50)

	center := liquid.Size / 2.0
	radius := liquid.Size/2.0 - 1
	for y := 0; y < liquid.Size; y++ {
		for x := 0; x < liquid.Size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			if math.Sqrt(dx*dx+dy*dy) > radius {
				assert.Zero(t, frame.At(x, y), "pixel (%d,%d) outside the circle", x, y)
			}
		}
	}
}

func TestComposeRespectsSurfaceHeight(t *testing.T) {
	f := &liquid.Field{}
	for x := range f.Heights {
		f.Heights[x] = 18
	}
	frame := Compose(f, 0)

	// Column 12 is well inside the circle: liquid starts at y=18, and
	// rows just above the surface (outside the text area) stay dark.
	assert.Equal(t, uint8(liquidBrightness), frame.At(12, 18))
	assert.Zero(t, frame.At(12, 17))
}

func TestComposeOverlayAboveLiquid(t *testing.T) {
	frame := Compose(fullField(), 88)

	// The backdrop carves a dark region out of a full field and the
	// digits render at full brightness inside it.
	counts := map[uint8]int{}
	for _, v := range frame.Pix {
		counts[v]++
	}
	assert.Greater(t, counts[0], 0, "backdrop must clear pixels")
	assert.Greater(t, counts[overlayBrightness], 0, "text must render")
	assert.Greater(t, counts[liquidBrightness], 0, "liquid must remain visible")

	// Text is centered; the exact center row of "88%" holds lit pixels.
	tw, th := textSize("88%")
	tx := (liquid.Size - tw) / 2
	ty := (liquid.Size - th) / 2
	lit := 0
	for x := tx; x < tx+tw; x++ {
		for y := ty; y < ty+th; y++ {
			if frame.At(x, y) == overlayBrightness {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 10)
}

func TestComposeBackdropPadsText(t *testing.T) {
	frame := Compose(fullField(), 12)

	tw, th := textSize("12%")
	tx := (liquid.Size - tw) / 2
	ty := (liquid.Size - th) / 2

	// One pixel of padding straight above the text center is cleared.
	assert.Zero(t, frame.At(tx+tw/2, ty-1))
	assert.Zero(t, frame.At(tx+tw/2, ty+th))
}

func TestTextSize(t *testing.T) {
	w, h := textSize("88%")
	assert.Equal(t, 11, w)
	assert.Equal(t, 5, h)

	w, h = textSize("")
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestPayloadRoundTrip(t *testing.T) {
	frame := Compose(fullField(), 42)

	data, err := json.Marshal(frame.Payload())
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(data, &p))

	got, ok := FromPayload(p)
	require.True(t, ok)
	assert.Equal(t, frame.Pix, got.Pix)

	_, ok = FromPayload(Payload{W: 3, H: 3, Pix: []byte{1}})
	assert.False(t, ok)
}
