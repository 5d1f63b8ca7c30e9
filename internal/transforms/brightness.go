package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var brightnessDef = params.NewDef(
	params.Def{Name: "brightness", Type: params.Percent, Default: 1.0},
)

// BrightnessParamsDef exposes brightness's declared parameters.
func BrightnessParamsDef() *params.ParamsDef { return brightnessDef }

// Brightness multiplies every color by a static brightness factor.
type Brightness struct {
	base
	p *params.Params
}

// NewBrightness builds a brightness transform.
func NewBrightness(id string, order int, p *params.Params) *Brightness {
	return &Brightness{base: base{id: id, order: order}, p: p}
}

func (b *Brightness) TickFrame(time.Duration, int) {}

func (b *Brightness) Apply(_ time.Duration, colors []color.Color) []color.Color {
	brightness := b.p.Float("brightness")
	out := make([]color.Color, len(colors))
	for i, c := range colors {
		out[i] = c.Scale(brightness)
	}
	return out
}

func (b *Brightness) IsAnimated() bool { return false }
