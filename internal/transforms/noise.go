package transforms

import (
	"math/rand"
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var noiseDef = LayerParamsDef(
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
	params.Def{Name: "min_color", Type: params.ColorT, Default: color.Black()},
	params.Def{Name: "max_color", Type: params.ColorT, Default: color.Default()},
	params.Def{Name: "red_strength", Type: params.Percent, Default: 1.0},
	params.Def{Name: "green_strength", Type: params.Percent, Default: 1.0},
	params.Def{Name: "blue_strength", Type: params.Percent, Default: 1.0},
)

// NoiseParamsDef exposes noise's declared parameters.
func NoiseParamsDef() *params.ParamsDef { return noiseDef }

// Noise keeps two random palettes and cross-fades linearly from the current
// one to the next over each duration; when a period ends the next palette
// becomes current and a fresh next one is drawn. The result is blended over
// the input as a layer.
type Noise struct {
	base
	layer
	p          *params.Params
	rng        *rand.Rand
	from, to   []color.Color
	swapAt     time.Duration
	lastTick   time.Duration
	started    bool
}

// NewNoise builds a noise transform.
func NewNoise(id string, order int, p *params.Params) *Noise {
	return &Noise{
		base:  base{id: id, order: order},
		layer: layer{p: p},
		p:     p,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (ns *Noise) randomPalette(n int) []color.Color {
	minC := colorParam(ns.p, "min_color")
	maxC := colorParam(ns.p, "max_color")
	out := make([]color.Color, n)
	for i := range out {
		out[i] = lerpColor(minC, maxC, ns.rng.Float64())
	}
	return out
}

func (ns *Noise) TickFrame(elapsed time.Duration, n int) {
	if !ns.started {
		ns.from = ns.randomPalette(n)
		ns.to = ns.randomPalette(n)
		ns.swapAt = elapsed + ns.period()
		ns.lastTick = elapsed
		ns.started = true
		return
	}
	ns.lastTick = elapsed
	if elapsed >= ns.swapAt {
		ns.from = ns.to
		ns.to = ns.randomPalette(n)
		ns.swapAt = elapsed + ns.period()
	}
}

func (ns *Noise) period() time.Duration {
	d := positiveDuration(ns.p.Float("duration"))
	return time.Duration(d * float64(time.Second))
}

func (ns *Noise) Apply(_ time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	if len(ns.from) != n {
		ns.from = ns.randomPalette(n)
	}
	if len(ns.to) != n {
		ns.to = ns.randomPalette(n)
	}
	period := ns.period()
	remaining := ns.swapAt - ns.lastTick
	t := 1.0
	if period > 0 {
		t = 1.0 - remaining.Seconds()/period.Seconds()
	}
	t = color.Clamp01(t)

	// Each channel fades at its own rate, scaled by its own strength
	// param, rather than all three channels sharing one cross-fade
	// fraction (transforms.py's NoiseTransform: start.c*(1-c_str) +
	// tween.c*c_str, with c_str = t scaled per channel).
	rStr := ns.p.Float("red_strength")
	gStr := ns.p.Float("green_strength")
	bStr := ns.p.Float("blue_strength")

	synthesized := make([]color.Color, n)
	for i := 0; i < n; i++ {
		from, to := ns.from[i], ns.to[i]
		rT := color.Clamp01(t * rStr)
		gT := color.Clamp01(t * gStr)
		bT := color.Clamp01(t * bStr)
		synthesized[i] = color.Color{
			R: from.R*(1-rT) + to.R*rT,
			G: from.G*(1-gT) + to.G*gT,
			B: from.B*(1-bT) + to.B*bT,
			W: from.W*(1-t) + to.W*t,
			A: from.A*(1-t) + to.A*t,
		}
	}
	return ns.composite(colors, synthesized)
}

func (ns *Noise) IsAnimated() bool { return true }
