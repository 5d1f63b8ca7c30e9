package transforms

import (
	"math"
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var crushColorDef = params.NewDef(
	params.Def{Name: "strength", Type: params.Percent, Default: 1.0},
	params.Def{Name: "max_r", Type: params.Percent, Default: 1.0},
	params.Def{Name: "max_g", Type: params.Percent, Default: 1.0},
	params.Def{Name: "max_b", Type: params.Percent, Default: 1.0},
)

// CrushColorParamsDef exposes crushcolor's declared parameters.
func CrushColorParamsDef() *params.ParamsDef { return crushColorDef }

// CrushColor multiplies R/G/B by strength, then clamps each to its own
// per-channel maximum; W passes through unchanged. strength is commonly
// bound to the audio variable, so this kind is classified as animated even
// though its formula doesn't read elapsed time directly.
type CrushColor struct {
	base
	p *params.Params
}

// NewCrushColor builds a crushcolor transform.
func NewCrushColor(id string, order int, p *params.Params) *CrushColor {
	return &CrushColor{base: base{id: id, order: order}, p: p}
}

func (cc *CrushColor) TickFrame(time.Duration, int) {}

func (cc *CrushColor) Apply(_ time.Duration, colors []color.Color) []color.Color {
	strength := cc.p.Float("strength")
	maxR := cc.p.Float("max_r")
	maxG := cc.p.Float("max_g")
	maxB := cc.p.Float("max_b")

	out := make([]color.Color, len(colors))
	for i, c := range colors {
		out[i] = color.Color{
			R: math.Min(c.R*strength, maxR),
			G: math.Min(c.G*strength, maxG),
			B: math.Min(c.B*strength, maxB),
			W: c.W,
			A: c.A,
		}
	}
	return out
}

func (cc *CrushColor) IsAnimated() bool { return true }
