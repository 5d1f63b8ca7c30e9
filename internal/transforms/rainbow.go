package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var rainbowDef = LayerParamsDef(
	params.Def{Name: "saturation", Type: params.Percent, Default: 1.0},
	params.Def{Name: "value", Type: params.Percent, Default: 1.0},
)

// RainbowParamsDef exposes rainbow's declared parameters.
func RainbowParamsDef() *params.ParamsDef { return rainbowDef }

// Rainbow synthesizes evenly-spaced hues across the strip and blends them
// over the input as a static layer.
type Rainbow struct {
	base
	layer
	p *params.Params
}

// NewRainbow builds a rainbow transform.
func NewRainbow(id string, order int, p *params.Params) *Rainbow {
	return &Rainbow{base: base{id: id, order: order}, layer: layer{p: p}, p: p}
}

func (r *Rainbow) TickFrame(time.Duration, int) {}

func (r *Rainbow) Apply(_ time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	sat := r.p.Float("saturation")
	val := r.p.Float("value")

	synthesized := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		synthesized[i] = color.FromHSV(hue, sat, val, 1, 0)
	}
	return r.composite(colors, synthesized)
}

func (r *Rainbow) IsAnimated() bool { return false }
