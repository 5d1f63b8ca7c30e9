package output

import (
	"encoding/base64"

	"pilight-go/internal/color"
)

// Broker is the subset of controlbus.AMQPBus a client-mode device needs:
// publish a packed frame, and purge the colors queue under backpressure.
type Broker interface {
	PublishColorFrame(body []byte) error
	QueueDepth() (int, error)
	PurgeColorQueue() error
}

const (
	// clientHighWaterMark is the colors-queue depth above which the client
	// device purges instead of keeping the consumer (a remote display host)
	// fighting through a backlog of stale frames (spec.md §4.7).
	clientHighWaterMark = 4000
	// clientCheckEvery throttles how often depth is checked, so every
	// frame doesn't pay a round trip to the broker.
	clientCheckEvery = 5000
)

// ClientDevice publishes packed RGB frames to a remote display host over
// the broker's "colors" queue instead of driving local hardware
// (spec.md §4.7's "server" mode: this host renders, a remote client shows).
// Scale/repeat expansion is the displaying client's job, not the
// publisher's: the frame on the wire stays the logical 3N bytes (spec.md
// §6), matching the original devices/client.py's to_data, which packs
// LIGHTS_NUM_LEDS*3 bytes of the unexpanded colors.
type ClientDevice struct {
	broker Broker

	messagesSinceCheck int
}

// NewClientDevice builds a broker-backed client device.
func NewClientDevice(broker Broker) *ClientDevice {
	return &ClientDevice{broker: broker}
}

func (d *ClientDevice) Init() error { return nil }

func (d *ClientDevice) SetColors(colors []color.Color) error {
	d.messagesSinceCheck++
	if d.messagesSinceCheck >= clientCheckEvery {
		d.messagesSinceCheck = 0
		if depth, err := d.broker.QueueDepth(); err == nil && depth > clientHighWaterMark {
			_ = d.broker.PurgeColorQueue()
		}
	}

	buf := make([]byte, 0, len(colors)*3)
	m := color.DefaultMultipliers()
	for _, c := range colors {
		raw := c.ToRaw(m)
		buf = append(buf, raw.R, raw.G, raw.B)
	}
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(buf)))
	base64.StdEncoding.Encode(encoded, buf)
	return d.broker.PublishColorFrame(encoded)
}

func (d *ClientDevice) Finish() error { return nil }
func (d *ClientDevice) Close() error  { return nil }
