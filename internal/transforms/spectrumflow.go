package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var spectrumFlowDef = LayerParamsDef(
	params.Def{Name: "duration", Type: params.Float, Default: 1.0},
	params.Def{Name: "value", Type: params.Percent, Default: 0.0},
	params.Def{Name: "low_color", Type: params.ColorT, Default: color.Black()},
	params.Def{Name: "mid_color", Type: params.ColorT, Default: color.Default()},
	params.Def{Name: "high_color", Type: params.ColorT, Default: color.Default()},
)

// SpectrumFlowParamsDef exposes spectrumflow's declared parameters.
func SpectrumFlowParamsDef() *params.ParamsDef { return spectrumFlowDef }

// spectrumSample is one entry in the flow's history: the three-stop
// gradient color sampled at the moment it was recorded.
type spectrumSample struct {
	at time.Duration
	c  color.Color
}

// SpectrumFlow samples a 3-stop gradient (driven by the bound "value"
// param, typically the audio variable) once per frame and keeps a
// time-stamped history. Position i in the strip reads the sample that is
// i*duration/N seconds old, so the gradient appears to flow down the
// strip instead of updating everywhere at once.
type SpectrumFlow struct {
	base
	layer
	p       *params.Params
	history []spectrumSample
}

// NewSpectrumFlow builds a spectrumflow transform.
func NewSpectrumFlow(id string, order int, p *params.Params) *SpectrumFlow {
	return &SpectrumFlow{base: base{id: id, order: order}, layer: layer{p: p}, p: p}
}

func (sf *SpectrumFlow) TickFrame(elapsed time.Duration, _ int) {
	sf.history = append(sf.history, spectrumSample{at: elapsed, c: sf.sampleGradient()})

	duration := positiveDuration(sf.p.Float("duration"))
	horizon := elapsed - time.Duration(duration*float64(time.Second))
	cut := 0
	for cut < len(sf.history) && sf.history[cut].at < horizon {
		cut++
	}
	if cut > 0 {
		sf.history = sf.history[cut:]
	}
}

func (sf *SpectrumFlow) sampleGradient() color.Color {
	v := color.Clamp01(sf.p.Float("value"))
	low := colorParam(sf.p, "low_color")
	mid := colorParam(sf.p, "mid_color")
	high := colorParam(sf.p, "high_color")
	if v < 0.5 {
		return lerpColor(low, mid, v*2)
	}
	return lerpColor(mid, high, (v-0.5)*2)
}

func (sf *SpectrumFlow) Apply(elapsed time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	duration := positiveDuration(sf.p.Float("duration"))
	synthesized := make([]color.Color, n)
	for i := 0; i < n; i++ {
		delay := time.Duration(duration * float64(time.Second) * float64(i) / float64(n))
		synthesized[i] = sf.sampleAt(elapsed - delay)
	}
	return sf.composite(colors, synthesized)
}

// sampleAt linearly interpolates between the two history samples that
// bracket t, so the flowing gradient reads smoothly between frame ticks
// instead of stepping.
func (sf *SpectrumFlow) sampleAt(t time.Duration) color.Color {
	if len(sf.history) == 0 {
		return color.Black()
	}
	if t <= sf.history[0].at {
		return sf.history[0].c
	}

	prev := sf.history[0]
	for _, s := range sf.history {
		if s.at > t {
			span := s.at - prev.at
			if span <= 0 {
				return prev.c
			}
			frac := float64(t-prev.at) / float64(span)
			return lerpColor(prev.c, s.c, color.Clamp01(frac))
		}
		prev = s
	}
	return prev.c
}

func (sf *SpectrumFlow) IsAnimated() bool { return true }
