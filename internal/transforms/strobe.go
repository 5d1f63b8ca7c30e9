package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var strobeDef = params.NewDef(
	params.Def{Name: "frames_on", Type: params.Long, Default: int64(1)},
	params.Def{Name: "frames_off", Type: params.Long, Default: int64(1)},
)

// StrobeParamsDef exposes strobe's declared parameters.
func StrobeParamsDef() *params.ParamsDef { return strobeDef }

// Strobe passes frames through unchanged for frames_on consecutive frames,
// then blanks them for frames_off, repeating. Counted in frames rather than
// wall-clock time so the rhythm stays locked to the render loop's cadence.
type Strobe struct {
	base
	p         *params.Params
	frameIdx  int64
}

// NewStrobe builds a strobe transform.
func NewStrobe(id string, order int, p *params.Params) *Strobe {
	// frameIdx is the index of the current frame; the first TickFrame makes
	// it 0, so the cycle starts with frames_on lit frames.
	return &Strobe{base: base{id: id, order: order}, p: p, frameIdx: -1}
}

func (s *Strobe) TickFrame(_ time.Duration, _ int) { s.frameIdx++ }

func (s *Strobe) Apply(_ time.Duration, colors []color.Color) []color.Color {
	on := s.p.Long("frames_on")
	off := s.p.Long("frames_off")
	if on <= 0 {
		on = 1
	}
	if off < 0 {
		off = 0
	}
	cycle := on + off
	if cycle <= 0 {
		return cloneFrame(colors)
	}
	phase := s.frameIdx % cycle
	if phase < on {
		return cloneFrame(colors)
	}
	out := make([]color.Color, len(colors))
	for i := range out {
		out[i] = color.Black()
	}
	return out
}

func (s *Strobe) IsAnimated() bool { return true }
