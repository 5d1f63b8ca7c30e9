package color

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalePreservesAlpha(t *testing.T) {
	c := Color{R: 0.2, G: 0.4, B: 0.6, W: 0.1, A: 0.5}
	scaled := c.Scale(3)
	assert.Equal(t, c.A, scaled.A)
	assert.InDelta(t, 0.6, scaled.R, 1e-9)
}

func TestBlendNormalExtremes(t *testing.T) {
	bg := New(0.1, 0.2, 0.3)
	fg := Color{R: 0.9, G: 0.8, B: 0.7, A: 1}
	assert.Equal(t, fg, BlendNormal(bg, fg))

	fgTransparent := Color{R: 0.9, G: 0.8, B: 0.7, A: 0}
	assert.Equal(t, bg, BlendNormal(bg, fgTransparent))
}

func TestBlendNormalOrderMatters(t *testing.T) {
	a := Color{R: 1, G: 0, B: 0, A: 0.5}
	b := Color{R: 0, G: 1, B: 0, A: 0.5}
	assert.NotEqual(t, BlendNormal(a, b), BlendNormal(b, a))
}

func TestHexRoundTrip(t *testing.T) {
	require.Equal(t, "aabbcc", FromHex("#AABBCC").ToHex())
	require.Equal(t, "aabbcc", FromHex("AABBCC").ToHex())
}

func TestFromHexMalformedFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromHex("nope"))
	assert.Equal(t, Default(), FromHex("#12"))
}

func TestHSVRoundTrip(t *testing.T) {
	cases := []struct {
		h, s, v, a, w float64
	}{
		{0, 0.5, 0.8, 1, 0},
		{120, 1, 1, 0.3, 0.7},
		{359, 0.2, 0.4, 1, 1},
		{45, 0.9, 0.1, 1, 0},
	}
	for _, c := range cases {
		col := FromHSV(c.h, c.s, c.v, c.a, c.w)
		h, s, v, a, w := col.ToHSV()
		assert.InDelta(t, c.h, h, 1e-6)
		assert.InDelta(t, c.s, s, 1e-6)
		assert.InDelta(t, c.v, v, 1e-6)
		assert.InDelta(t, c.a, a, 1e-9)
		assert.InDelta(t, c.w, w, 1e-9)
	}
}

func TestHueSentinelWhenSaturationZero(t *testing.T) {
	h, s, _, _, _ := New(0.5, 0.5, 0.5).ToHSV()
	assert.Equal(t, -1.0, h)
	assert.Equal(t, 0.0, s)
}

func TestToRawClampsAndCorrects(t *testing.T) {
	c := Color{R: 2, G: -1, B: 0.5, W: 0.25, A: 1}
	raw := c.ToRaw(DefaultMultipliers())
	assert.Equal(t, uint8(255), raw.R)
	assert.Equal(t, uint8(0), raw.G)
	assert.Equal(t, uint8(127), raw.B)
	assert.Equal(t, uint8(63), raw.W)
}

func TestMultiplicationFlattensOnNonUnitAlpha(t *testing.T) {
	a := Color{R: 1, G: 1, B: 1, A: 0.5}
	b := Color{R: 1, G: 1, B: 1, A: 1}
	result := a.Mul(b)
	assert.Equal(t, 1.0, result.A)
	assert.InDelta(t, 0.5, result.R, 1e-9)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-5))
	assert.Equal(t, 1.0, Clamp01(5))
	assert.Equal(t, 0.5, Clamp01(0.5))
	assert.False(t, math.IsNaN(Clamp01(0)))
}
