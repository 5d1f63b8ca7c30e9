package variables

import (
	"time"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

// ChannelMap is the shared color_channels map (spec.md §4.5/§5): written by
// the control bus consumer on "color" commands, read here. Both sides live
// on the render thread, so no lock is required.
type ChannelMap map[string]color.Color

var colorChannelDef = params.NewDef(
	params.Def{Name: "channel", Type: params.String, Default: ""},
	params.Def{Name: "default_color", Type: params.ColorT, Default: color.Default()},
)

// ColorChannelParamsDef exposes the colorchannel variable's declared params.
func ColorChannelParamsDef() *params.ParamsDef { return colorChannelDef }

// ColorChannel returns the Color currently registered under its configured
// channel name, falling back to a configured default when none is set.
// Per spec.md's open question, a ColorChannel never satisfies a numeric
// binding — it only implements ColorSource, not ScalarSource.
type ColorChannel struct {
	base
	channels ChannelMap
	name     string
	def      color.Color
}

// NewColorChannel builds a ColorChannel variable reading from the shared
// channel map under the given channel name.
func NewColorChannel(id string, channels ChannelMap, name string, def color.Color) *ColorChannel {
	return &ColorChannel{base: base{id: id, kind: KindColorChannel}, channels: channels, name: name, def: def}
}

func (c *ColorChannel) TickFrame(time.Duration) {}

func (c *ColorChannel) ColorValue() color.Color {
	if v, ok := c.channels[c.name]; ok {
		return v
	}
	return c.def
}

func (c *ColorChannel) Close() error { return nil }
