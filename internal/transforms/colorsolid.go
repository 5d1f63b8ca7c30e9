package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var colorSolidDef = LayerParamsDef(
	params.Def{Name: "color", Type: params.ColorT, Default: color.Default()},
)

// ColorSolidParamsDef exposes the color kind's declared parameters.
func ColorSolidParamsDef() *params.ParamsDef { return colorSolidDef }

// ColorSolid synthesizes a single flat color across the whole strip and
// blends it over the input as a static layer.
type ColorSolid struct {
	base
	layer
	p *params.Params
}

// NewColorSolid builds a color (solid fill) transform.
func NewColorSolid(id string, order int, p *params.Params) *ColorSolid {
	return &ColorSolid{base: base{id: id, order: order}, layer: layer{p: p}, p: p}
}

func (cs *ColorSolid) TickFrame(time.Duration, int) {}

func (cs *ColorSolid) Apply(_ time.Duration, colors []color.Color) []color.Color {
	fill := colorParam(cs.p, "color")
	synthesized := make([]color.Color, len(colors))
	for i := range synthesized {
		synthesized[i] = fill
	}
	return cs.composite(colors, synthesized)
}

func (cs *ColorSolid) IsAnimated() bool { return false }
