package transforms

import (
	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

// colorParam reads a color-typed parameter. Color params are never bound
// (params.Bind is a no-op for them), so this always resolves the static
// stored value, falling back to color.Default() for missing/malformed data.
func colorParam(p *params.Params, name string) color.Color {
	if c, ok := p.Raw(name).(color.Color); ok {
		return c
	}
	return color.Default()
}
