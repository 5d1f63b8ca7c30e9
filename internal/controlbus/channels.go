package controlbus

import "pilight-go/internal/color"

// Channels is the shared color-channel map: written here as commands
// arrive, read by the variables.ColorChannel variable. Both sides run on
// the render thread, so no lock is required (spec.md §5).
type Channels map[string]color.Color

// Apply updates the map from a decoded "color" command. Safe no-op for
// any other command kind.
func (c Channels) Apply(cmd Command) {
	if cmd.Kind != CommandColor || cmd.Channel == "" {
		return
	}
	c[cmd.Channel] = color.FromHex(cmd.Color)
}
