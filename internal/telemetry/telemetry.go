// Package telemetry wires up the render daemon's structured logging. It
// replaces the teacher's hand-rolled component-scoped ring-buffer logger
// (internal/debug/logger.go) with a zap.Logger, keeping the same shape —
// one named child logger per subsystem, level gated by a single debug
// flag — but backed by a real logging library instead of a bespoke channel
// and circular buffer.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subsystem names the render daemon's components, mirroring the teacher's
// debug.Component enum.
type Subsystem string

const (
	SubsystemRender     Subsystem = "render"
	SubsystemControlBus Subsystem = "controlbus"
	SubsystemVariables  Subsystem = "variables"
	SubsystemTransforms Subsystem = "transforms"
	SubsystemOutput     Subsystem = "output"
	SubsystemAudio      Subsystem = "audio"
	SubsystemConfig     Subsystem = "config"
)

// New builds the root logger. debug mirrors LIGHTS_DRIVER_DEBUG: when false
// only warnings and above are emitted, matching the teacher's
// opt-in-by-default logging posture (spec.md's FPS debug line is gated the
// same way, in internal/render).
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// For returns a child logger named for one subsystem.
func For(base *zap.Logger, s Subsystem) *zap.Logger {
	return base.Named(string(s))
}

// Noop returns a logger that discards everything, for tests and for
// simulation mode where no observability backend is attached.
func Noop() *zap.Logger {
	return zap.NewNop()
}
