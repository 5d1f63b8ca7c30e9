package transforms

import (
	"fmt"

	"pilight-go/internal/params"
)

// ParamsDefFor returns the declared parameter schema for a transform kind,
// used to validate/fill a config payload before binding and construction.
func ParamsDefFor(kind Kind) (*params.ParamsDef, error) {
	switch kind {
	case KindBrightness:
		return BrightnessParamsDef(), nil
	case KindFlash:
		return FlashParamsDef(), nil
	case KindColorFlash:
		return ColorFlashParamsDef(), nil
	case KindScroll:
		return ScrollParamsDef(), nil
	case KindRotateHue:
		return RotateHueParamsDef(), nil
	case KindGaussian:
		return GaussianParamsDef(), nil
	case KindFastBlur:
		return FastBlurParamsDef(), nil
	case KindNoise:
		return NoiseParamsDef(), nil
	case KindPixelate:
		return PixelateParamsDef(), nil
	case KindStrobe:
		return StrobeParamsDef(), nil
	case KindBurst:
		return BurstParamsDef(), nil
	case KindColorBurst:
		return BurstParamsDef(), nil
	case KindRainbow:
		return RainbowParamsDef(), nil
	case KindSpectrumFlow:
		return SpectrumFlowParamsDef(), nil
	case KindColor:
		return ColorSolidParamsDef(), nil
	case KindCrushColor:
		return CrushColorParamsDef(), nil
	default:
		return nil, fmt.Errorf("transforms: unknown kind %q", kind)
	}
}

// New constructs a concrete Transform for kind, given its id, ascending
// apply order, and already-bound Params (per ParamsDefFor(kind)'s schema).
func New(kind Kind, id string, order int, p *params.Params) (Transform, error) {
	switch kind {
	case KindBrightness:
		return NewBrightness(id, order, p), nil
	case KindFlash:
		return NewFlash(id, order, p), nil
	case KindColorFlash:
		return NewColorFlash(id, order, p), nil
	case KindScroll:
		return NewScroll(id, order, p), nil
	case KindRotateHue:
		return NewRotateHue(id, order, p), nil
	case KindGaussian:
		return NewGaussian(id, order, p), nil
	case KindFastBlur:
		return NewFastBlur(id, order, p), nil
	case KindNoise:
		return NewNoise(id, order, p), nil
	case KindPixelate:
		return NewPixelate(id, order, p), nil
	case KindStrobe:
		return NewStrobe(id, order, p), nil
	case KindBurst:
		return NewBurst(id, order, p), nil
	case KindColorBurst:
		return NewColorBurst(id, order, p), nil
	case KindRainbow:
		return NewRainbow(id, order, p), nil
	case KindSpectrumFlow:
		return NewSpectrumFlow(id, order, p), nil
	case KindColor:
		return NewColorSolid(id, order, p), nil
	case KindCrushColor:
		return NewCrushColor(id, order, p), nil
	default:
		return nil, fmt.Errorf("transforms: unknown kind %q", kind)
	}
}
