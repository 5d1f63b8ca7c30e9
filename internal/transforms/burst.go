package transforms

import (
	"math"
	"math/rand"
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

// spark is one traveling pulse of light: it is born at a random position
// with age 0, drifts by velocity each second, ages toward 1 over its
// duration, and is reaped once age reaches 1 (spec.md §3/§4.4).
type spark struct {
	position float64
	age      float64 // normalized 0..1
	duration float64
	velocity float64
	radius   float64
	col      color.Color
}

func (s *spark) tick(dt float64, n int) {
	s.age += dt / s.duration
	s.position += s.velocity * dt
	s.position = math.Mod(s.position, float64(n))
	if s.position < 0 {
		s.position += float64(n)
	}
}

func (s *spark) dead() bool { return s.age >= 1 }

// brightnessAt sums the spark's spatial falloff and a triangular temporal
// envelope (peaking at age=0.5), clipped below at zero, per spec.md's
// "(1 − distance/radius) − |2·age−1|" formula.
func (s *spark) brightnessAt(n int, pos int) float64 {
	d := math.Abs(float64(pos) - s.position)
	if d > float64(n)/2 {
		d = float64(n) - d
	}
	v := (1 - d/s.radius) - math.Abs(2*s.age-1)
	if v < 0 {
		return 0
	}
	return v
}

var burstDef = LayerParamsDef(
	params.Def{Name: "rate", Type: params.Float, Default: 1.0},
	params.Def{Name: "min_duration", Type: params.Float, Default: 0.5},
	params.Def{Name: "max_duration", Type: params.Float, Default: 1.5},
	params.Def{Name: "min_velocity", Type: params.Float, Default: -2.0},
	params.Def{Name: "max_velocity", Type: params.Float, Default: 2.0},
	params.Def{Name: "radius", Type: params.Float, Default: 2.0},
	params.Def{Name: "color", Type: params.ColorT, Default: color.Default()},
)

// BurstParamsDef exposes burst's declared parameters.
func BurstParamsDef() *params.ParamsDef { return burstDef }

// Burst spawns sparks at a Poisson-like rate (probability dt*rate/N per
// position per tick) that travel, age, and fade, rendered as a single
// configured color. ColorBurst is the same engine with each spark given
// its own random color instead.
type Burst struct {
	base
	layer
	p        *params.Params
	rng      *rand.Rand
	sparks   []*spark
	lastTick time.Duration
	started  bool
	perSpark func(*rand.Rand) color.Color
}

// NewBurst builds a burst transform: every spark renders in the single
// configured color.
func NewBurst(id string, order int, p *params.Params) *Burst {
	b := newBurstEngine(id, order, p)
	b.perSpark = func(*rand.Rand) color.Color { return colorParam(p, "color") }
	return b
}

// NewColorBurst builds a colorburst transform: every spark gets an
// independently randomized hue.
func NewColorBurst(id string, order int, p *params.Params) *Burst {
	b := newBurstEngine(id, order, p)
	b.perSpark = func(r *rand.Rand) color.Color {
		return color.FromHSV(r.Float64()*360, 1, 1, 1, 0)
	}
	return b
}

func newBurstEngine(id string, order int, p *params.Params) *Burst {
	return &Burst{
		base:  base{id: id, order: order},
		layer: layer{p: p},
		p:     p,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *Burst) TickFrame(elapsed time.Duration, n int) {
	if n == 0 {
		return
	}
	if !b.started {
		b.lastTick = elapsed
		b.started = true
		return
	}
	dt := (elapsed - b.lastTick).Seconds()
	b.lastTick = elapsed

	rate := b.p.Float("rate")
	spawnProb := dt * rate / float64(n)
	for i := 0; i < n; i++ {
		if b.rng.Float64() < spawnProb {
			b.sparks = append(b.sparks, b.newSpark(n))
		}
	}

	alive := b.sparks[:0]
	for _, s := range b.sparks {
		s.tick(dt, n)
		if !s.dead() {
			alive = append(alive, s)
		}
	}
	b.sparks = alive
}

func (b *Burst) newSpark(n int) *spark {
	minDur := b.p.Float("min_duration")
	maxDur := b.p.Float("max_duration")
	minVel := b.p.Float("min_velocity")
	maxVel := b.p.Float("max_velocity")
	return &spark{
		position: b.rng.Float64() * float64(n),
		duration: lerpFloat(minDur, maxDur, b.rng.Float64()),
		velocity: lerpFloat(minVel, maxVel, b.rng.Float64()),
		radius:   b.p.Float("radius"),
		col:      b.perSpark(b.rng),
	}
}

func lerpFloat(a, b, t float64) float64 { return a + (b-a)*t }

func (b *Burst) Apply(_ time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	synthesized := make([]color.Color, n)
	for pos := 0; pos < n; pos++ {
		var acc color.Color
		for _, s := range b.sparks {
			w := s.brightnessAt(n, pos)
			if w <= 0 {
				continue
			}
			acc = acc.Add(s.col.Scale(w))
		}
		synthesized[pos] = acc
	}
	return b.composite(colors, synthesized)
}

func (b *Burst) IsAnimated() bool { return true }
