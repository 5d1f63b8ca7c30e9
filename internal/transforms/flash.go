package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var flashDef = params.NewDef(
	params.Def{Name: "start", Type: params.Percent, Default: 0.0},
	params.Def{Name: "end", Type: params.Percent, Default: 1.0},
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
	params.Def{Name: "sine", Type: params.Boolean, Default: false},
)

// FlashParamsDef exposes flash's declared parameters.
func FlashParamsDef() *params.ParamsDef { return flashDef }

// Flash scales every color by a scalar that oscillates between start and
// end once per duration, per spec.md §4.4's waveform table.
type Flash struct {
	base
	p       *params.Params
	elapsed time.Duration
}

// NewFlash builds a flash transform.
func NewFlash(id string, order int, p *params.Params) *Flash {
	return &Flash{base: base{id: id, order: order}, p: p}
}

func (f *Flash) TickFrame(elapsed time.Duration, _ int) { f.elapsed = elapsed }

func (f *Flash) Apply(_ time.Duration, colors []color.Color) []color.Color {
	v := waveformValue(
		f.elapsed.Seconds(),
		f.p.Float("duration"),
		f.p.Float("start"),
		f.p.Float("end"),
		f.p.Bool("sine"),
	)
	out := make([]color.Color, len(colors))
	for i, c := range colors {
		out[i] = c.Scale(v)
	}
	return out
}

func (f *Flash) IsAnimated() bool { return true }
