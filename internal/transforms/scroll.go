package transforms

import (
	"math"
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var scrollDef = params.NewDef(
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
	params.Def{Name: "reverse", Type: params.Boolean, Default: false},
	params.Def{Name: "blend", Type: params.Boolean, Default: true},
)

// ScrollParamsDef exposes scroll's declared parameters.
func ScrollParamsDef() *params.ParamsDef { return scrollDef }

// Scroll advances a floating offset every frame and reads the input buffer
// back out at that offset, optionally linearly blending between adjacent
// positions. A full lap (offset advancing by N) takes duration seconds.
// Reverse subtracts from the offset instead of adding.
type Scroll struct {
	base
	p        *params.Params
	offset   float64
	lastTick time.Duration
	started  bool
}

// NewScroll builds a scroll transform.
func NewScroll(id string, order int, p *params.Params) *Scroll {
	return &Scroll{base: base{id: id, order: order}, p: p}
}

func (s *Scroll) TickFrame(elapsed time.Duration, n int) {
	if n == 0 {
		return
	}
	if !s.started {
		s.lastTick = elapsed
		s.started = true
		return
	}
	dt := (elapsed - s.lastTick).Seconds()
	s.lastTick = elapsed
	duration := positiveDuration(s.p.Float("duration"))
	delta := dt * float64(n) / duration
	if s.p.Bool("reverse") {
		s.offset -= delta
	} else {
		s.offset += delta
	}
	s.offset = math.Mod(s.offset, float64(n))
	if s.offset < 0 {
		s.offset += float64(n)
	}
}

func (s *Scroll) Apply(_ time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	if n == 0 {
		return colors
	}
	out := make([]color.Color, n)
	base := int(math.Floor(s.offset))
	percent := s.offset - float64(base)

	if !s.p.Bool("blend") || percent == 0 {
		for i := 0; i < n; i++ {
			out[i] = colors[(i+base)%n]
		}
		return out
	}

	for i := 0; i < n; i++ {
		a := colors[(i+base)%n]
		b := colors[(i+base+1)%n]
		out[i] = lerpColor(a, b, percent)
	}
	return out
}

func (s *Scroll) IsAnimated() bool { return true }
