package output

import "pilight-go/internal/color"

// NoopDevice discards every frame; used for simulation and for hosts with
// no attached hardware.
type NoopDevice struct {
	scale, repeat int
}

// NewNoopDevice builds a noop device.
func NewNoopDevice(scale, repeat int) *NoopDevice {
	return &NoopDevice{scale: scale, repeat: repeat}
}

func (d *NoopDevice) Init() error { return nil }

func (d *NoopDevice) SetColors(colors []color.Color) error {
	_ = expand(colors, d.scale, d.repeat)
	return nil
}

func (d *NoopDevice) Finish() error { return nil }
func (d *NoopDevice) Close() error  { return nil }
