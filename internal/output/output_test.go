package output

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilight-go/internal/color"
)

func TestExpandAppliesScaleAndRepeat(t *testing.T) {
	colors := []color.Color{color.New(1, 0, 0), color.New(0, 1, 0)}
	out := expand(colors, 2, 3)
	assert.Len(t, out, 2*2*3)
	assert.Equal(t, colors[0], out[0])
	assert.Equal(t, colors[0], out[1])
	assert.Equal(t, colors[1], out[2])
}

type recordingDevice struct {
	initErr   error
	received  [][]color.Color
	finishErr error
	closed    bool
}

func (d *recordingDevice) Init() error { return d.initErr }
func (d *recordingDevice) SetColors(colors []color.Color) error {
	d.received = append(d.received, colors)
	return nil
}
func (d *recordingDevice) Finish() error { return d.finishErr }
func (d *recordingDevice) Close() error  { d.closed = true; return nil }

func TestWorkerDeliversFramesInOrder(t *testing.T) {
	dev := &recordingDevice{}
	w, err := NewWorker(dev, nil)
	require.NoError(t, err)

	frame1 := []color.Color{color.New(1, 0, 0)}
	frame2 := []color.Color{color.New(0, 1, 0)}
	w.Send(frame1)
	w.Send(frame2)
	require.NoError(t, w.Close())

	assert.True(t, dev.closed)
	require.Len(t, dev.received, 2)
	assert.Equal(t, frame1, dev.received[0])
	assert.Equal(t, frame2, dev.received[1])
}

type fakeBroker struct {
	published [][]byte
	depth     int
	purged    bool
}

func (b *fakeBroker) PublishColorFrame(body []byte) error {
	b.published = append(b.published, body)
	return nil
}
func (b *fakeBroker) QueueDepth() (int, error) { return b.depth, nil }
func (b *fakeBroker) PurgeColorQueue() error   { b.purged = true; return nil }

func TestClientDevicePublishesBase64PackedFrame(t *testing.T) {
	broker := &fakeBroker{}
	d := NewClientDevice(broker)
	colors := []color.Color{color.New(1, 0, 0), color.New(0, 1, 0)}
	require.NoError(t, d.SetColors(colors))
	require.Len(t, broker.published, 1)

	decoded, err := base64.StdEncoding.DecodeString(string(broker.published[0]))
	require.NoError(t, err)
	assert.Len(t, decoded, len(colors)*3)
}

func TestClientDeviceDoesNotExpandBeforePublishing(t *testing.T) {
	broker := &fakeBroker{}
	d := NewClientDevice(broker)
	colors := []color.Color{color.New(1, 0, 0), color.New(0, 1, 0), color.New(0, 0, 1)}
	require.NoError(t, d.SetColors(colors))

	decoded, err := base64.StdEncoding.DecodeString(string(broker.published[0]))
	require.NoError(t, err)
	assert.Len(t, decoded, len(colors)*3, "client frames stay logical length 3N regardless of scale/repeat")
}

func TestClientDevicePurgesAboveHighWaterMark(t *testing.T) {
	broker := &fakeBroker{depth: clientHighWaterMark + 1}
	d := NewClientDevice(broker)
	d.messagesSinceCheck = clientCheckEvery - 1

	require.NoError(t, d.SetColors([]color.Color{color.New(1, 1, 1)}))
	assert.True(t, broker.purged)
}

func TestNoopDeviceNeverErrors(t *testing.T) {
	d := NewNoopDevice(2, 2)
	require.NoError(t, d.Init())
	require.NoError(t, d.SetColors([]color.Color{color.New(1, 1, 1)}))
	require.NoError(t, d.Finish())
	require.NoError(t, d.Close())
}

func TestWorkerSendDoesNotBlockOnFirstFrame(t *testing.T) {
	dev := &recordingDevice{}
	w, err := NewWorker(dev, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Send([]color.Color{color.New(1, 1, 1)})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked unexpectedly")
	}
	require.NoError(t, w.Close())
}
