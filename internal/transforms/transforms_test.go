package transforms

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

func frameOf(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = color.New(float64(i)/float64(n), 0, 0)
	}
	return out
}

func TestScrollDeterministicShift(t *testing.T) {
	p := params.FromValues(ScrollParamsDef(), map[string]any{
		"duration": 1.0,
		"blend":    false,
	})
	s := NewScroll("s1", 0, p)

	base := []color.Color{
		color.New(1, 0, 0),
		color.New(0, 1, 0),
		color.New(0, 0, 1),
		color.New(1, 1, 0),
	}

	s.TickFrame(0, 4)
	s.TickFrame(250*time.Millisecond, 4)
	out := s.Apply(250*time.Millisecond, base)

	assert.Equal(t, []color.Color{base[1], base[2], base[3], base[0]}, out)
}

func TestFlashWaveformValues(t *testing.T) {
	p := params.FromValues(FlashParamsDef(), map[string]any{
		"start":    0.0,
		"end":      1.0,
		"duration": 2.0,
		"sine":     false,
	})
	f := NewFlash("f1", 0, p)
	colors := []color.Color{color.New(1, 1, 1)}

	f.TickFrame(500*time.Millisecond, 1)
	out := f.Apply(0, colors)
	assert.InDelta(t, 0.5, out[0].R, 1e-9)

	f.TickFrame(1*time.Second, 1)
	out = f.Apply(0, colors)
	assert.InDelta(t, 1.0, out[0].R, 1e-9)

	f.TickFrame(2*time.Second, 1)
	out = f.Apply(0, colors)
	assert.InDelta(t, 0.0, out[0].R, 1e-9)
}

func TestPipelinePreservesLength(t *testing.T) {
	bp := params.FromValues(BrightnessParamsDef(), map[string]any{"brightness": 0.5})
	pp := params.FromValues(PixelateParamsDef(), map[string]any{"block_size": int64(3)})

	pipeline := NewPipeline(
		NewBrightness("b", 0, bp),
		NewPixelate("p", 1, pp),
	)

	colors := frameOf(10)
	pipeline.TickFrame(0, len(colors))
	out := pipeline.Apply(0, colors)
	assert.Len(t, out, len(colors))
}

func TestPipelineAppliesInAscendingOrder(t *testing.T) {
	// Two brightness transforms: first halves, second halves again. Order
	// must be respected regardless of construction order.
	p1 := params.FromValues(BrightnessParamsDef(), map[string]any{"brightness": 0.5})
	p2 := params.FromValues(BrightnessParamsDef(), map[string]any{"brightness": 0.5})

	pipeline := NewPipeline(
		NewBrightness("second", 1, p2),
		NewBrightness("first", 0, p1),
	)

	ordered := pipeline.Transforms()
	require.Len(t, ordered, 2)
	assert.Equal(t, "first", ordered[0].ID())
	assert.Equal(t, "second", ordered[1].ID())

	colors := []color.Color{color.New(1, 1, 1)}
	pipeline.TickFrame(0, 1)
	out := pipeline.Apply(0, colors)
	assert.InDelta(t, 0.25, out[0].R, 1e-9)
}

func TestGaussianIdentityWhenSigmaNonPositive(t *testing.T) {
	p := params.FromValues(GaussianParamsDef(), map[string]any{"sigma": 0.0})
	g := NewGaussian("g", 0, p)
	colors := frameOf(8)
	out := g.Apply(0, colors)
	assert.Equal(t, colors, out)
}

func TestGaussianAndFastBlurAgreeApproximately(t *testing.T) {
	gp := params.FromValues(GaussianParamsDef(), map[string]any{"sigma": 1.0})
	fp := params.FromValues(FastBlurParamsDef(), map[string]any{"passes": int64(3)})

	g := NewGaussian("g", 0, gp)
	fb := NewFastBlur("fb", 0, fp)

	colors := frameOf(16)
	gOut := g.Apply(0, colors)
	fbOut := fb.Apply(0, colors)

	var l1 float64
	for i := range colors {
		l1 += math.Abs(gOut[i].R - fbOut[i].R)
	}
	assert.Less(t, l1/float64(len(colors)), 0.25)
}

func TestPixelateAveragesBlocksWithTrailingRemainder(t *testing.T) {
	p := params.FromValues(PixelateParamsDef(), map[string]any{"block_size": int64(3)})
	px := NewPixelate("px", 0, p)

	colors := []color.Color{
		color.New(0, 0, 0),
		color.New(0.3, 0, 0),
		color.New(0.6, 0, 0),
		color.New(1, 0, 0),
		color.New(1, 0, 0),
	}
	out := px.Apply(0, colors)
	assert.InDelta(t, 0.3, out[0].R, 1e-9)
	assert.InDelta(t, 0.3, out[1].R, 1e-9)
	assert.InDelta(t, 0.3, out[2].R, 1e-9)
	assert.InDelta(t, 1.0, out[3].R, 1e-9)
	assert.InDelta(t, 1.0, out[4].R, 1e-9)
}

func TestStrobeAlternatesOnFrameCount(t *testing.T) {
	p := params.FromValues(StrobeParamsDef(), map[string]any{
		"frames_on":  int64(1),
		"frames_off": int64(1),
	})
	s := NewStrobe("s", 0, p)
	colors := []color.Color{color.New(1, 1, 1)}

	s.TickFrame(0, 1)
	out := s.Apply(0, colors)
	assert.Equal(t, colors[0], out[0])

	s.TickFrame(0, 1)
	out = s.Apply(0, colors)
	assert.Equal(t, color.Black(), out[0])
}

func TestBurstSpawnsWithinPoissonBound(t *testing.T) {
	p := params.FromValues(BurstParamsDef(), map[string]any{
		"rate":         50.0,
		"min_duration": 0.5,
		"max_duration": 0.5,
		"min_velocity": 0.0,
		"max_velocity": 0.0,
		"radius":       1.0,
	})
	b := NewBurst("burst", 0, p)
	n := 20

	elapsed := time.Duration(0)
	b.TickFrame(elapsed, n)
	for i := 0; i < 100; i++ {
		elapsed += 10 * time.Millisecond
		b.TickFrame(elapsed, n)
	}

	expected := 50.0 * 1.0 // rate * elapsed seconds
	sigma := math.Sqrt(expected)
	require.LessOrEqual(t, float64(len(b.sparks)), expected+5*sigma)
}

func TestRainbowSpansFullHueRange(t *testing.T) {
	p := params.FromValues(RainbowParamsDef(), nil)
	r := NewRainbow("r", 0, p)
	colors := frameOf(4)
	colors[0] = color.Black()

	out := r.Apply(0, colors)
	assert.Len(t, out, 4)
	// Hues are spread evenly: 0, 90, 180, 270 degrees for N=4.
	for i, c := range out {
		h, _, _, _, _ := c.ToHSV()
		assert.InDelta(t, 90*float64(i), h, 1e-6)
	}
}

func TestCrushColorClampsPerChannel(t *testing.T) {
	p := params.FromValues(CrushColorParamsDef(), map[string]any{
		"strength": 2.0,
		"max_r":    0.5,
		"max_g":    1.0,
		"max_b":    1.0,
	})
	cc := NewCrushColor("cc", 0, p)
	colors := []color.Color{color.New(0.4, 0.1, 0.1)}
	out := cc.Apply(0, colors)
	assert.InDelta(t, 0.5, out[0].R, 1e-9)
	assert.InDelta(t, 0.2, out[0].G, 1e-9)
}

func TestColorSolidFillsWithConfiguredColor(t *testing.T) {
	fill := color.New(0.2, 0.4, 0.6)
	p := params.FromValues(ColorSolidParamsDef(), map[string]any{"color": fill, "opacity": 1.0})
	cs := NewColorSolid("cs", 0, p)
	colors := frameOf(3)
	out := cs.Apply(0, colors)
	for _, c := range out {
		assert.InDelta(t, fill.R, c.R, 1e-9)
		assert.InDelta(t, fill.G, c.G, 1e-9)
		assert.InDelta(t, fill.B, c.B, 1e-9)
	}
}
