package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var rotateHueDef = params.NewDef(
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
)

// RotateHueParamsDef exposes rotatehue's declared parameters.
func RotateHueParamsDef() *params.ParamsDef { return rotateHueDef }

// RotateHue adds progress*360° to every pixel's hue, where progress is the
// fraction of duration elapsed (unbounded, so hue keeps cycling).
type RotateHue struct {
	base
	p       *params.Params
	elapsed time.Duration
}

// NewRotateHue builds a rotatehue transform.
func NewRotateHue(id string, order int, p *params.Params) *RotateHue {
	return &RotateHue{base: base{id: id, order: order}, p: p}
}

func (r *RotateHue) TickFrame(elapsed time.Duration, _ int) { r.elapsed = elapsed }

func (r *RotateHue) Apply(_ time.Duration, colors []color.Color) []color.Color {
	duration := positiveDuration(r.p.Float("duration"))
	progress := r.elapsed.Seconds() / duration
	shift := progress * 360

	out := make([]color.Color, len(colors))
	for i, c := range colors {
		h, s, v, a, w := c.ToHSV()
		if h < 0 {
			out[i] = c
			continue
		}
		out[i] = color.FromHSV(h+shift, s, v, a, w)
	}
	return out
}

func (r *RotateHue) IsAnimated() bool { return true }
