package app

import (
	"encoding/json"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/liquid_gauge/internal/battery"
	"github.com/relabs-tech/liquid_gauge/internal/liquid"
	"github.com/relabs-tech/liquid_gauge/internal/orientation"
	"github.com/relabs-tech/liquid_gauge/internal/render"
)

// ToyEvent is a host interaction forwarded to the gauge.
type ToyEvent string

const (
	ToyEventOpen   ToyEvent = "open"   // gauge brought to the foreground
	ToyEventReopen ToyEvent = "reopen" // explicit restart (long press)
	ToyEventAOD    ToyEvent = "aod"    // always-on refresh, no animation restart
)

// toyMessage is the MQTT payload for toy events.
type toyMessage struct {
	Event string `json:"event"`
}

// defaultBatteryLevel is shown until the first battery broadcast arrives.
const defaultBatteryLevel = 50

// Gauge runs the indicator: one periodic tick advances the reveal
// animation, integrates the liquid field, composites a frame and pushes
// it to every backend. Inputs (accel samples, battery broadcasts, toy
// events) arrive asynchronously and only ever overwrite latest-value
// state under the mutex; the tick always reads the newest values.
type Gauge struct {
	mu     sync.Mutex
	filter *orientation.Filter
	field  *liquid.Field
	reveal liquid.Reveal
	status battery.Status

	backends []render.Backend
	interval time.Duration
	now      func() int64 // millisecond clock, swappable in tests

	client mqtt.Client
	topics []string

	kick     chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	started  bool
}

// NewGauge builds a stopped gauge ticking at the given interval.
func NewGauge(backends []render.Backend, interval time.Duration) *Gauge {
	return &Gauge{
		filter:   orientation.NewFilter(),
		field:    liquid.NewField(),
		status:   battery.Status{Level: defaultBatteryLevel, Scale: 100},
		backends: backends,
		interval: interval,
		now:      func() int64 { return time.Now().UnixMilli() },
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// AttachMQTT subscribes the gauge to its input topics on an already
// connected client. The toy topic may be empty.
func (g *Gauge) AttachMQTT(client mqtt.Client, topicAccel, topicBattery, topicToy string) error {
	g.client = client

	token := client.Subscribe(topicAccel, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s orientation.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Warnf("gauge: accel unmarshal error: %v", err)
			return
		}
		g.ApplySample(s)
	})
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	g.topics = append(g.topics, topicAccel)
	log.Infof("gauge: subscribed to %s", topicAccel)

	token = client.Subscribe(topicBattery, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s battery.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Warnf("gauge: battery unmarshal error: %v", err)
			return
		}
		g.SetBattery(s)
	})
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	g.topics = append(g.topics, topicBattery)
	log.Infof("gauge: subscribed to %s", topicBattery)

	if topicToy != "" {
		token = client.Subscribe(topicToy, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var m toyMessage
			if err := json.Unmarshal(msg.Payload(), &m); err != nil {
				log.Warnf("gauge: toy event unmarshal error: %v", err)
				return
			}
			g.HandleToyEvent(ToyEvent(m.Event))
		})
		if token.Wait(); token.Error() != nil {
			return token.Error()
		}
		g.topics = append(g.topics, topicToy)
		log.Infof("gauge: subscribed to %s", topicToy)
	}

	return nil
}

// ApplySample folds one raw acceleration sample into the tilt filter.
// Non-finite samples are dropped and the filtered state stays put.
func (g *Gauge) ApplySample(s orientation.Sample) {
	g.mu.Lock()
	ok := g.filter.Update(s)
	g.mu.Unlock()
	if !ok {
		log.Debugf("gauge: dropped non-finite accel sample %+v", s)
	}
}

// SetBattery replaces the latest battery broadcast as a whole.
func (g *Gauge) SetBattery(s battery.Status) {
	g.mu.Lock()
	g.status = s
	g.mu.Unlock()
	log.Debugf("gauge: battery %d/%d from %s", s.Level, s.Scale, s.Source)
}

// Start launches the tick loop and triggers the startup reveal.
// Calling Start on a started gauge is a no-op.
func (g *Gauge) Start() {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.reveal.Start(g.now(), g.field)
	g.mu.Unlock()

	g.wg.Add(1)
	go g.loop()
	log.Infof("gauge: tick loop started, interval %s", g.interval)
}

func (g *Gauge) loop() {
	defer g.wg.Done()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.Tick()
		case <-g.kick:
			g.Tick()
		}
	}
}

// Tick executes one simulate-composite-push cycle at the current time.
// Backend failures are logged and the frame dropped; the next tick
// starts again from the true input state.
func (g *Gauge) Tick() {
	frame := g.advance(g.now())
	for _, b := range g.backends {
		if err := b.Push(frame); err != nil {
			log.Errorf("gauge: push to %s failed, frame dropped: %v", b.Name(), err)
		}
	}
}

// advance runs the simulation for one tick and composites the frame.
func (g *Gauge) advance(nowMs int64) *render.Frame {
	g.mu.Lock()
	defer g.mu.Unlock()

	tilt := g.filter.Tilt()
	level := g.status.Percent()

	// Exactly one authority writes the fill target per tick: the reveal
	// while it runs, the live battery ratio otherwise.
	fill := g.status.Ratio()
	if g.reveal.Active() {
		fill = g.reveal.Advance(nowMs, level)
		level = g.reveal.Level()
	}

	g.field.Step(tilt.X, tilt.Y, fill, nowMs)
	g.field.CorrectVolume(liquid.TargetVolume(fill))

	return render.Compose(g.field, level)
}

// HandleToyEvent reacts to a host interaction: open and reopen restart
// the reveal from an empty field, AOD forces one off-cycle tick.
func (g *Gauge) HandleToyEvent(ev ToyEvent) {
	switch ev {
	case ToyEventOpen, ToyEventReopen:
		g.mu.Lock()
		g.reveal.Start(g.now(), g.field)
		g.mu.Unlock()
		log.Infof("gauge: toy event %q, reveal restarted", ev)
	case ToyEventAOD:
		select {
		case g.kick <- struct{}{}:
		default: // a kick is already pending
		}
		log.Debugf("gauge: toy event %q, off-cycle tick requested", ev)
	default:
		log.Warnf("gauge: unknown toy event %q", ev)
	}
}

// Stop tears the gauge down: tick loop halted, topics unsubscribed,
// backends closed. Idempotent; repeated calls are no-ops.
func (g *Gauge) Stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		g.wg.Wait()

		if g.client != nil && g.client.IsConnected() {
			for _, topic := range g.topics {
				token := g.client.Unsubscribe(topic)
				if token.Wait(); token.Error() != nil {
					// already-unsubscribed topics must not fail teardown
					log.Warnf("gauge: unsubscribe %s: %v", topic, token.Error())
				}
			}
		}

		for _, b := range g.backends {
			if err := b.Close(); err != nil {
				log.Warnf("gauge: close backend %s: %v", b.Name(), err)
			}
		}

		log.Info("gauge: stopped")
	})
}
