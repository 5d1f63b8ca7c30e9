package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var colorFlashDef = LayerParamsDef(
	params.Def{Name: "start_color", Type: params.ColorT, Default: color.Black()},
	params.Def{Name: "end_color", Type: params.ColorT, Default: color.Default()},
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
	params.Def{Name: "sine", Type: params.Boolean, Default: false},
)

// ColorFlashParamsDef exposes colorflash's declared parameters.
func ColorFlashParamsDef() *params.ParamsDef { return colorFlashDef }

// ColorFlash synthesizes a uniform color that oscillates between
// start_color and end_color once per duration, then blends it over the
// input as a layer.
type ColorFlash struct {
	base
	layer
	p       *params.Params
	elapsed time.Duration
}

// NewColorFlash builds a colorflash transform.
func NewColorFlash(id string, order int, p *params.Params) *ColorFlash {
	return &ColorFlash{base: base{id: id, order: order}, layer: layer{p: p}, p: p}
}

func (c *ColorFlash) TickFrame(elapsed time.Duration, _ int) { c.elapsed = elapsed }

func (c *ColorFlash) Apply(_ time.Duration, colors []color.Color) []color.Color {
	t := waveformValue(c.elapsed.Seconds(), c.p.Float("duration"), 0, 1, c.p.Bool("sine"))
	start := colorParam(c.p, "start_color")
	end := colorParam(c.p, "end_color")
	mixed := lerpColor(start, end, t)

	synthesized := make([]color.Color, len(colors))
	for i := range synthesized {
		synthesized[i] = mixed
	}
	return c.composite(colors, synthesized)
}

func (c *ColorFlash) IsAnimated() bool { return true }

func lerpColor(a, b color.Color, t float64) color.Color {
	return color.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		W: a.W + (b.W-a.W)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
