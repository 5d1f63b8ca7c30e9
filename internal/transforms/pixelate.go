package transforms

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

var pixelateDef = params.NewDef(
	params.Def{Name: "block_size", Type: params.Long, Default: int64(2)},
)

// PixelateParamsDef exposes pixelate's declared parameters.
func PixelateParamsDef() *params.ParamsDef { return pixelateDef }

// Pixelate averages contiguous blocks of block_size positions, leaving a
// shorter trailing block at the end averaged over however many remain.
type Pixelate struct {
	base
	p *params.Params
}

// NewPixelate builds a pixelate transform.
func NewPixelate(id string, order int, p *params.Params) *Pixelate {
	return &Pixelate{base: base{id: id, order: order}, p: p}
}

func (px *Pixelate) TickFrame(time.Duration, int) {}

func (px *Pixelate) Apply(_ time.Duration, colors []color.Color) []color.Color {
	n := len(colors)
	blockSize := int(px.p.Long("block_size"))
	if blockSize <= 1 || n == 0 {
		return cloneFrame(colors)
	}

	out := make([]color.Color, n)
	for start := 0; start < n; start += blockSize {
		end := start + blockSize
		if end > n {
			end = n
		}
		count := end - start
		var acc color.Color
		for i := start; i < end; i++ {
			acc = acc.Add(colors[i])
		}
		avg := acc.Div(float64(count))
		for i := start; i < end; i++ {
			out[i] = avg
		}
	}
	return out
}

func (px *Pixelate) IsAnimated() bool { return false }
