package variables

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlCapture adapts an SDL2 capture device (opened with iscapture=1) to the
// Capture interface. This is the only place go-sdl2's audio surface is
// used — the teacher's video/window/event surface (internal/ui, now
// removed) has no analog in this headless daemon.
type sdlCapture struct {
	device sdl.AudioDeviceID
}

// OpenSDLCapture opens the default capture device at 44.1kHz mono 16-bit,
// matching spec.md §4.3.1's CHUNK/RATE constants. Returns an error if no
// capture device is available; callers must fall back to a degenerate
// Constant variable rather than propagate the failure (spec.md §4.3).
func OpenSDLCapture() (Capture, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl audio init: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     audioSampleRate,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  audioChunk,
	}

	deviceID, err := sdl.OpenAudioDevice("", true, &spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("sdl open capture device: %w", err)
	}
	sdl.PauseAudioDevice(deviceID, false)

	return &sdlCapture{device: deviceID}, nil
}

func (c *sdlCapture) Read(buf []int16) (int, error) {
	queued := sdl.GetQueuedAudioSize(c.device)
	if queued == 0 {
		return 0, nil
	}
	byteBuf := make([]byte, len(buf)*2)
	n := sdl.DequeueAudio(c.device, byteBuf)
	if n <= 0 {
		return 0, nil
	}
	samples := n / 2
	for i := 0; i < samples && i < len(buf); i++ {
		buf[i] = int16(byteBuf[2*i]) | int16(byteBuf[2*i+1])<<8
	}
	return samples, nil
}

func (c *sdlCapture) Close() error {
	sdl.CloseAudioDevice(c.device)
	return nil
}
