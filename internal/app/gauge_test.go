package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/liquid_gauge/internal/battery"
	"github.com/relabs-tech/liquid_gauge/internal/liquid"
	"github.com/relabs-tech/liquid_gauge/internal/orientation"
	"github.com/relabs-tech/liquid_gauge/internal/render"
)

type recordBackend struct {
	mu     sync.Mutex
	frames []*render.Frame
	ch     chan *render.Frame
}

func newRecordBackend() *recordBackend {
	return &recordBackend{ch: make(chan *render.Frame, 16)}
}

func (b *recordBackend) Name() string { return "record" }

func (b *recordBackend) Push(f *render.Frame) error {
	b.mu.Lock()
	b.frames = append(b.frames, f)
	b.mu.Unlock()
	select {
	case b.ch <- f:
	default:
	}
	return nil
}

func (b *recordBackend) Close() error { return nil }

func (b *recordBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

type failBackend struct{ closed int }

func (b *failBackend) Name() string               { return "fail" }
func (b *failBackend) Push(f *render.Frame) error { return errors.New("device gone") }
func (b *failBackend) Close() error               { b.closed++; return nil }

// fixedClock pins the gauge to a settable virtual time.
func fixedClock(g *Gauge) *int64 {
	ms := new(int64)
	g.now = func() int64 { return *ms }
	return ms
}

func TestGaugeTickProducesFrames(t *testing.T) {
	rec := newRecordBackend()
	g := NewGauge([]render.Backend{rec}, time.Hour)
	ms := fixedClock(g)

	g.SetBattery(battery.Status{Level: 80, Scale: 100})
	for i := 0; i < 100; i++ {
		*ms += 50
		g.Tick()
	}

	require.Equal(t, 100, rec.count())

	// With no tilt the field settles around its base level, so a pixel
	// low in the bowl is liquid and one near the top is not.
	frame := rec.frames[len(rec.frames)-1]
	assert.Equal(t, uint8(180), frame.At(12, 22))
	assert.Zero(t, frame.At(12, 3))
}

func TestGaugeClampInvariantUnderTiltInput(t *testing.T) {
	rec := newRecordBackend()
	g := NewGauge([]render.Backend{rec}, time.Hour)
	ms := fixedClock(g)

	g.SetBattery(battery.Status{Level: 100, Scale: 100})
	for i := 0; i < 200; i++ {
		g.ApplySample(orientation.Sample{Ax: 40, Ay: -40, Az: 9.8})
		*ms += 50
		g.Tick()
		for x := 0; x < liquid.Size; x++ {
			assert.GreaterOrEqual(t, g.field.Heights[x], 0.0)
			assert.LessOrEqual(t, g.field.Heights[x], float64(liquid.Size))
		}
	}
}

func TestGaugeOpenEventRestartsReveal(t *testing.T) {
	rec := newRecordBackend()
	g := NewGauge([]render.Backend{rec}, time.Hour)
	ms := fixedClock(g)
	*ms = 1000

	g.SetBattery(battery.Status{Level: 80, Scale: 100})
	g.HandleToyEvent(ToyEventOpen)

	require.True(t, g.reveal.Active())
	for x := 0; x < liquid.Size; x++ {
		assert.Equal(t, float64(liquid.Size), g.field.Heights[x])
	}

	// halfway through: animated level is 40
	*ms = 1300
	g.Tick()
	assert.Equal(t, 40, g.reveal.Level())
	assert.True(t, g.reveal.Active())

	// re-trigger mid-run drains the field again
	g.HandleToyEvent(ToyEventReopen)
	for x := 0; x < liquid.Size; x++ {
		assert.Equal(t, float64(liquid.Size), g.field.Heights[x])
	}

	// completion snaps to the live level and deactivates
	*ms = 2000
	g.Tick()
	assert.False(t, g.reveal.Active())
	assert.Equal(t, 80, g.reveal.Level())
}

func TestGaugeBackendFailureDropsFrameAndContinues(t *testing.T) {
	rec := newRecordBackend()
	fail := &failBackend{}
	g := NewGauge([]render.Backend{fail, rec}, time.Hour)
	fixedClock(g)

	g.Tick()
	g.Tick()

	// the failing backend never aborts the tick or starves the next one
	assert.Equal(t, 2, rec.count())
}

func TestGaugeStopIsIdempotent(t *testing.T) {
	fail := &failBackend{}
	g := NewGauge([]render.Backend{fail}, 10*time.Millisecond)
	g.Start()
	g.Start() // second Start is a no-op

	g.Stop()
	g.Stop()
	g.Stop()

	assert.Equal(t, 1, fail.closed)
}

func TestGaugeAODForcesOffCycleTick(t *testing.T) {
	rec := newRecordBackend()
	g := NewGauge([]render.Backend{rec}, time.Hour)
	g.Start()
	defer g.Stop()

	// drain the frame produced by any startup race, then kick
	g.HandleToyEvent(ToyEventAOD)

	select {
	case <-rec.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame after AOD event")
	}
}

func TestGaugeNonFiniteSampleLeavesTiltAlone(t *testing.T) {
	g := NewGauge(nil, time.Hour)
	g.ApplySample(orientation.Sample{Ax: 5, Ay: 0, Az: 9.8})
	before := g.filter.Tilt()

	g.ApplySample(orientation.Sample{Ax: badFloat(), Ay: 0, Az: 9.8})
	assert.Equal(t, before, g.filter.Tilt())
}

func badFloat() float64 {
	zero := 0.0
	return zero / zero // NaN
}

func TestGaugeBatteryBroadcastScenario(t *testing.T) {
	g := NewGauge(nil, time.Hour)
	g.SetBattery(battery.Status{Level: 80, Scale: 100})

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, 0.8, g.status.Ratio())
	assert.Equal(t, 80, g.status.Percent())
}
