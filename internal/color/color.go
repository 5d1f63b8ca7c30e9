// Package color implements the RGBW+alpha floating-point color algebra that
// every transform and variable in the render pipeline operates on.
//
// Values are nominally in [0,1] per channel but may legally fall outside
// that range until output, matching the HDR-friendly design of the
// original pilight Color class.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a straight-alpha RGBW color. All four channels plus alpha are
// float64 so transforms can compose without premature clamping.
type Color struct {
	R, G, B, W, A float64
}

// Default returns the sentinel color used when input cannot be parsed.
func Default() Color {
	return Color{R: 1, G: 1, B: 1, W: 0, A: 1}
}

// Black is fully opaque black, used to clear the strip on stop.
func Black() Color {
	return Color{R: 0, G: 0, B: 0, W: 0, A: 1}
}

// New builds an opaque color from R, G, B with W=0.
func New(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, W: 0, A: 1}
}

// Add implements Color + Color. Alpha is preserved from the left operand
// unless either side has non-unit alpha, in which case both are flattened
// first so the addition happens in premultiplied space.
func (c Color) Add(o Color) Color {
	if c.A == 1 && o.A == 1 {
		return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, W: c.W + o.W, A: 1}
	}
	cf, of := c.FlattenAlpha(), o.FlattenAlpha()
	return Color{R: cf.R + of.R, G: cf.G + of.G, B: cf.B + of.B, W: cf.W + of.W, A: 1}
}

// Scale multiplies every channel (not alpha) by a scalar.
func (c Color) Scale(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, W: c.W * k, A: c.A}
}

// Div divides every channel (not alpha) by a scalar.
func (c Color) Div(k float64) Color {
	return Color{R: c.R / k, G: c.G / k, B: c.B / k, W: c.W / k, A: c.A}
}

// Mul implements element-wise Color*Color. When either side has non-unit
// alpha both are flattened first, per spec.
func (c Color) Mul(o Color) Color {
	if c.A == 1 && o.A == 1 {
		return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, W: c.W * o.W, A: 1}
	}
	cf, of := c.FlattenAlpha(), o.FlattenAlpha()
	return Color{R: cf.R * of.R, G: cf.G * of.G, B: cf.B * of.B, W: cf.W * of.W, A: 1}
}

// FlattenAlpha premultiplies RGBW by alpha and resets alpha to 1.
func (c Color) FlattenAlpha() Color {
	f := c.Scale(c.A)
	f.A = 1
	return f
}

// Clamp01 clamps a single channel value into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c Color) SafeR() float64 { return Clamp01(c.R) }
func (c Color) SafeG() float64 { return Clamp01(c.G) }
func (c Color) SafeB() float64 { return Clamp01(c.B) }
func (c Color) SafeW() float64 { return Clamp01(c.W) }
func (c Color) SafeA() float64 { return Clamp01(c.A) }

// Multipliers holds the per-channel output correction factors applied just
// before packing into bytes (LIGHTS_MULTIPLIER_{R,G,B,W}).
type Multipliers struct {
	R, G, B, W float64
}

// DefaultMultipliers is the identity correction.
func DefaultMultipliers() Multipliers {
	return Multipliers{R: 1, G: 1, B: 1, W: 1}
}

func (c Color) SafeCorrectedR(m Multipliers) float64 { return Clamp01(c.R * m.R) }
func (c Color) SafeCorrectedG(m Multipliers) float64 { return Clamp01(c.G * m.G) }
func (c Color) SafeCorrectedB(m Multipliers) float64 { return Clamp01(c.B * m.B) }
func (c Color) SafeCorrectedW(m Multipliers) float64 { return Clamp01(c.W * m.W) }

// Raw is the packed (r,g,b,w) byte quadruple sent to the output worker.
type Raw struct {
	R, G, B, W uint8
}

// ToRaw packs the alpha-flattened, corrected, clamped channels into bytes.
func (c Color) ToRaw(m Multipliers) Raw {
	f := c.FlattenAlpha()
	return Raw{
		R: byteFrom(f.SafeCorrectedR(m)),
		G: byteFrom(f.SafeCorrectedG(m)),
		B: byteFrom(f.SafeCorrectedB(m)),
		W: byteFrom(f.SafeCorrectedW(m)),
	}
}

func byteFrom(v float64) uint8 {
	return uint8(v * 255)
}

// ToHex packs the flattened, clamped RGB triple as lowercase "rrggbb".
func (c Color) ToHex() string {
	f := c.FlattenAlpha()
	return fmt.Sprintf("%02x%02x%02x", byteFrom(f.SafeR()), byteFrom(f.SafeG()), byteFrom(f.SafeB()))
}

// FromHex parses "#rrggbb" or "rrggbb". Malformed input yields Default().
func FromHex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Default()
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Default()
	}
	r := float64((v>>16)&0xFF) / 255.0
	g := float64((v>>8)&0xFF) / 255.0
	b := float64(v&0xFF) / 255.0
	return Color{R: r, G: g, B: b, W: 0, A: 1}
}

// ToHSV converts to (h, s, v). Hue is in degrees [0,360); h is -1 when
// s is zero (undefined hue), per spec. W and A are preserved verbatim and
// returned alongside.
func (c Color) ToHSV() (h, s, v, a, w float64) {
	safe := Color{R: c.SafeR(), G: c.SafeG(), B: c.SafeB(), W: c.SafeW(), A: c.SafeA()}
	minVal := math.Min(safe.R, math.Min(safe.G, safe.B))
	maxVal := math.Max(safe.R, math.Max(safe.G, safe.B))
	v = maxVal
	delta := maxVal - minVal

	if maxVal == 0 {
		return -1, 0, v, c.A, c.W
	}
	s = delta / maxVal
	if delta == 0 {
		return -1, s, v, c.A, c.W
	}

	switch maxVal {
	case safe.R:
		h = math.Mod((safe.G-safe.B)/delta, 6)
	case safe.G:
		h = (safe.B-safe.R)/delta + 2
	default:
		h = (safe.R-safe.G)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v, c.A, c.W
}

// FromHSV is the inverse of ToHSV. W and A are carried through verbatim.
func FromHSV(h, s, v, a, w float64) Color {
	if s == 0 {
		return Color{R: v, G: v, B: v, W: w, A: a}
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 60
	i := int(math.Floor(h))
	f := h - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return Color{R: r, G: g, B: b, W: w, A: a}
}

// BlendNormal implements source-over compositing of fg atop bg, short
// circuiting at the alpha extremes per spec.
func BlendNormal(bg, fg Color) Color {
	switch fg.A {
	case 1:
		return fg
	case 0:
		return bg
	}
	if bg.A == 0 {
		return fg
	}
	if bg.A == 1 {
		return Color{
			R: bg.R*(1-fg.A) + fg.R*fg.A,
			G: bg.G*(1-fg.A) + fg.G*fg.A,
			B: bg.B*(1-fg.A) + fg.B*fg.A,
			W: bg.W*(1-fg.A) + fg.W*fg.A,
			A: 1,
		}
	}

	a := fg.A + bg.A - fg.A*bg.A
	bgScaled := bg.Scale(bg.A)
	fgScaled := fg.Scale(fg.A)
	final := fgScaled.Scale(fg.A).Add(bgScaled.Scale(1 - fg.A))
	if a > 0 {
		final = final.Div(a)
	}
	final.A = a
	return final
}

// BlendMult is component-wise product after alpha flattening.
func BlendMult(bg, fg Color) Color {
	return bg.FlattenAlpha().Mul(fg.FlattenAlpha())
}

// BlendAlpha treats fg's alpha as a straight mix factor against bg, with no
// alpha-over-alpha math — the "alpha" blend mode used by layer transforms.
func BlendAlpha(bg, fg Color) Color {
	t := Clamp01(fg.A)
	return Color{
		R: bg.R + (fg.R-bg.R)*t,
		G: bg.G + (fg.G-bg.G)*t,
		B: bg.B + (fg.B-bg.B)*t,
		W: bg.W + (fg.W-bg.W)*t,
		A: bg.A,
	}
}
