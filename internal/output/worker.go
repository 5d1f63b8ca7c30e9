package output

import (
	"go.uber.org/zap"

	"pilight-go/internal/color"
)

// Worker owns a Device and runs on its own goroutine, the process
// boundary spec.md §4.7 calls for ("a separate process... connected to
// the render loop by a single one-way pipe"), realized here as the
// idiomatic Go equivalent: a dedicated goroutine fed by a buffered
// channel, which gives the same one-way, backpressure-bearing hand-off
// without the complexity of a second OS process and a real pipe.
type Worker struct {
	device Device
	log    *zap.Logger

	frames chan []color.Color // nil frame means "close"
	done   chan struct{}
}

// NewWorker starts the worker goroutine. Init is called here, before the
// goroutine starts accepting frames, so a hardware init failure surfaces
// synchronously to the caller.
func NewWorker(device Device, log *zap.Logger) (*Worker, error) {
	if err := device.Init(); err != nil {
		return nil, err
	}
	w := &Worker{
		device: device,
		log:    log,
		frames: make(chan []color.Color, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Worker) run() {
	defer close(w.done)
	for frame := range w.frames {
		if frame == nil {
			return
		}
		if err := w.device.SetColors(frame); err != nil {
			if w.log != nil {
				w.log.Warn("output: set colors failed", zap.Error(err))
			}
			continue
		}
		if err := w.device.Finish(); err != nil {
			if w.log != nil {
				w.log.Warn("output: finish failed", zap.Error(err))
			}
		}
	}
}

// Send hands one frame to the worker. Blocks when one frame is already
// queued while the worker is still busy with an earlier one (the channel's
// buffer of 1 provides the same
// natural backpressure spec.md §5 describes for the real pipe: a slow
// consumer paces the producer).
func (w *Worker) Send(frame []color.Color) {
	w.frames <- frame
}

// Close sends the close sentinel and waits for the worker to drain and
// release the device.
func (w *Worker) Close() error {
	w.frames <- nil
	<-w.done
	return w.device.Close()
}
