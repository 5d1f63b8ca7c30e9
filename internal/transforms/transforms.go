// Package transforms implements the polymorphic per-frame color operators
// that make up a render pipeline: direct transforms (frame in, frame out)
// and layers (synthesize a buffer independently, then blend it over the
// input). See spec.md §3–4.4 for the full catalog and its invariants.
package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

// Kind is the tagged-variant discriminator for a transform's implementation.
type Kind string

const (
	KindBrightness   Kind = "brightness"
	KindFlash        Kind = "flash"
	KindColorFlash   Kind = "colorflash"
	KindScroll       Kind = "scroll"
	KindRotateHue    Kind = "rotatehue"
	KindGaussian     Kind = "gaussian"
	KindFastBlur     Kind = "fastblur"
	KindNoise        Kind = "noise"
	KindPixelate     Kind = "pixelate"
	KindStrobe       Kind = "strobe"
	KindBurst        Kind = "burst"
	KindColorBurst   Kind = "colorburst"
	KindRainbow      Kind = "rainbow"
	KindSpectrumFlow Kind = "spectrumflow"
	KindColor        Kind = "color"
	KindCrushColor   Kind = "crushcolor"
)

// Transform is the contract every transform kind satisfies. TickFrame is
// called once before Apply on every frame; Apply must return a buffer of
// exactly the length it was given and must not mutate its input, per
// spec.md §4.4's invariants (a)-(b).
type Transform interface {
	ID() string
	Order() int
	TickFrame(elapsed time.Duration, n int)
	Apply(elapsed time.Duration, colors []color.Color) []color.Color
	// IsAnimated returns false only when output depends solely on inputs
	// and static params, letting the render loop drop to 1Hz.
	IsAnimated() bool
}

// base carries the fields every concrete transform embeds.
type base struct {
	id    string
	order int
}

func (b base) ID() string  { return b.id }
func (b base) Order() int { return b.order }

// epsilonDuration guards against non-positive configured durations
// (spec.md §4.4: "When duration ≤ 0 the transform must clamp to a small
// positive epsilon").
const epsilonDuration = 1e-6

func positiveDuration(d float64) float64 {
	if d <= 0 {
		return epsilonDuration
	}
	return d
}

// layer is embedded by every layer-kind transform: it owns the two
// reserved params (opacity, blend_mode) and the compositing step.
type layer struct {
	p *params.Params
}

func (l layer) opacity() float64 {
	return l.p.Float("opacity")
}

func (l layer) blendMode() color.BlendMode {
	return color.ParseBlendMode(l.p.String("blend_mode"))
}

// composite blends a synthesized per-position buffer over colors using the
// layer's opacity/blend_mode, returning a new buffer (never mutating colors).
func (l layer) composite(colors, synthesized []color.Color) []color.Color {
	out := make([]color.Color, len(colors))
	op := l.opacity()
	mode := l.blendMode()
	for i := range colors {
		out[i] = color.ApplyLayer(colors[i], synthesized[i], op, mode)
	}
	return out
}

// LayerParamsDef returns the two params every layer transform shares;
// concrete layer kinds append their own params after these.
func LayerParamsDef(extra ...params.Def) *params.ParamsDef {
	defs := append([]params.Def{
		{Name: "opacity", Type: params.Percent, Default: 1.0},
		{Name: "blend_mode", Type: params.String, Default: "normal"},
	}, extra...)
	return params.NewDef(defs...)
}

// cloneFrame defensively copies a color buffer so a transform's own working
// copy never aliases the caller's.
func cloneFrame(colors []color.Color) []color.Color {
	out := make([]color.Color, len(colors))
	copy(out, colors)
	return out
}
