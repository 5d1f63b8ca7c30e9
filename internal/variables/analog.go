package variables

import (
	"time"

	"periph.io/x/periph/conn/analog"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

// ADCChannel abstracts the one periph.io analog.ADC pin this variable reads,
// narrowed to the single method we need so tests can fake it without a real
// ADC attached.
type ADCChannel interface {
	Measure() int32
}

var analogDef = params.NewDef(
	params.Def{Name: "channel", Type: params.Long, Default: int64(0)},
	params.Def{Name: "min_raw", Type: params.Long, Default: int64(0)},
	params.Def{Name: "max_raw", Type: params.Long, Default: int64(4095)},
)

// AnalogParamsDef exposes the analog variable's declared parameters.
func AnalogParamsDef() *params.ParamsDef { return analogDef }

// Analog reads one channel of an attached ADC (e.g. an ads1015 behind
// periph.io/x/periph/conn/analog.ADC) and normalizes it into [0,1].
type Analog struct {
	base
	chip  ADCChannel
	p     *params.Params
	value float64
}

// NewAnalog builds an Analog variable bound to chip. If chip is nil (ADC
// unavailable or ENABLE_ADC is off), callers should use NewConstant instead
// — Analog never degrades itself, per spec.md §4.3's "converted into a
// degenerate variable" rule living at the construction boundary.
func NewAnalog(id string, chip ADCChannel, p *params.Params) *Analog {
	return &Analog{base: base{id: id, kind: KindAnalog}, chip: chip, p: p}
}

// TickFrame samples the ADC and stores the normalized reading.
func (a *Analog) TickFrame(time.Duration) {
	minRaw := float64(a.p.Long("min_raw"))
	maxRaw := float64(a.p.Long("max_raw"))
	raw := float64(a.chip.Measure())
	span := maxRaw - minRaw
	if span == 0 {
		a.value = 0
		return
	}
	a.value = color.Clamp01((raw - minRaw) / span)
}

func (a *Analog) Value() float64 { return a.value }
func (a *Analog) Close() error   { return nil }

// ensure analog.ADC satisfies ADCChannel for documentation purposes; real
// periph ADCs (ads1015 etc.) are wired in at the integration layer.
var _ ADCChannel = analog.ADC(nil)
