package transforms

import (
	"math"
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var gaussianDef = params.NewDef(
	params.Def{Name: "sigma", Type: params.Float, Default: 1.0},
)

// GaussianParamsDef exposes gaussian's declared parameters.
func GaussianParamsDef() *params.ParamsDef { return gaussianDef }

// Gaussian applies a circular 1-D Gaussian blur across the strip. A
// non-positive sigma is the identity (spec.md §4.4 edge case).
type Gaussian struct {
	base
	p *params.Params
}

// NewGaussian builds a gaussian transform.
func NewGaussian(id string, order int, p *params.Params) *Gaussian {
	return &Gaussian{base: base{id: id, order: order}, p: p}
}

func (g *Gaussian) TickFrame(time.Duration, int) {}

func (g *Gaussian) Apply(_ time.Duration, colors []color.Color) []color.Color {
	sigma := g.p.Float("sigma")
	if sigma <= 0 {
		return cloneFrame(colors)
	}
	n := len(colors)
	radius := int(3 * sigma)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := make([]color.Color, n)
	for i := 0; i < n; i++ {
		var acc color.Color
		for k := -radius; k <= radius; k++ {
			idx := ((i+k)%n + n) % n
			acc = acc.Add(colors[idx].Scale(kernel[k+radius]))
		}
		out[i] = acc
	}
	return out
}

func (g *Gaussian) IsAnimated() bool { return false }

var fastBlurDef = params.NewDef(
	params.Def{Name: "passes", Type: params.Long, Default: int64(3)},
	params.Def{Name: "sigma", Type: params.Float, Default: 1.0},
)

// FastBlurParamsDef exposes fastblur's declared parameters.
func FastBlurParamsDef() *params.ParamsDef { return fastBlurDef }

// FastBlur approximates a Gaussian blur of the given sigma with `passes`
// box filters, each sized by the standard box-for-Gaussian approximation
// (three near-equal box widths converge to a Gaussian much faster than
// one wide box), each evaluated with a running sum over a circular
// buffer so a pass costs O(n) regardless of box width.
type FastBlur struct {
	base
	p *params.Params
}

// NewFastBlur builds a fastblur transform.
func NewFastBlur(id string, order int, p *params.Params) *FastBlur {
	return &FastBlur{base: base{id: id, order: order}, p: p}
}

func (f *FastBlur) TickFrame(time.Duration, int) {}

func (f *FastBlur) Apply(_ time.Duration, colors []color.Color) []color.Color {
	passes := int(f.p.Long("passes"))
	sigma := f.p.Float("sigma")
	if passes <= 0 || sigma <= 0 {
		return cloneFrame(colors)
	}
	cur := cloneFrame(colors)
	for _, width := range boxSizesForGauss(sigma, passes) {
		cur = runningSumBoxBlur(cur, width)
	}
	return cur
}

func (f *FastBlur) IsAnimated() bool { return false }

// boxSizesForGauss derives n box widths (each odd, so every box has a
// well-defined center) whose repeated convolution approximates a Gaussian
// of the given sigma, after Wells'/Kutskir's standard construction.
func boxSizesForGauss(sigma float64, n int) []int {
	wIdeal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	mIdeal := (12*sigma*sigma - float64(n*wl*wl) - float64(4*n*wl) - float64(3*n)) / float64(-4*wl-4)
	m := int(math.Round(mIdeal))

	sizes := make([]int, n)
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
		if sizes[i] < 1 {
			sizes[i] = 1
		}
	}
	return sizes
}

// runningSumBoxBlur applies one circular box filter of the given odd width
// using a running sum over raw channel values, so each output position is
// computed from the previous one in O(1) rather than re-summing the whole
// window.
func runningSumBoxBlur(colors []color.Color, width int) []color.Color {
	n := len(colors)
	if width <= 1 || n == 0 {
		return cloneFrame(colors)
	}
	radius := width / 2
	wrap := func(i int) int { return ((i % n) + n) % n }

	var sumR, sumG, sumB, sumW, sumA float64
	for k := -radius; k <= radius; k++ {
		c := colors[wrap(k)]
		sumR += c.R
		sumG += c.G
		sumB += c.B
		sumW += c.W
		sumA += c.A
	}

	count := float64(2*radius + 1)
	out := make([]color.Color, n)
	for i := 0; i < n; i++ {
		out[i] = color.Color{R: sumR / count, G: sumG / count, B: sumB / count, W: sumW / count, A: sumA / count}
		leaving := colors[wrap(i-radius)]
		entering := colors[wrap(i+radius+1)]
		sumR += entering.R - leaving.R
		sumG += entering.G - leaving.G
		sumB += entering.B - leaving.B
		sumW += entering.W - leaving.W
		sumA += entering.A - leaving.A
	}
	return out
}
