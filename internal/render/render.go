// Package render implements the frame scheduler: the state machine that
// turns a persisted run configuration (base colors, transform pipeline,
// variables, optional playlist) into a live stream of frames sent to the
// output worker, reacting to control-bus commands as it goes. Grounded on
// the original pilight driver's run_lights/do_step
// (_examples/original_source/pilight/pilight/driver.py) and the teacher's
// frame-paced Start/Stop/RunFrame loop
// (_examples/RetroCodeRamen-Nitro-Core-DX/internal/emulator/emulator.go).
package render

import (
	"time"

	"go.uber.org/zap"

	"pilight-go/internal/color"
	"pilight-go/internal/controlbus"
	"pilight-go/internal/output"
	"pilight-go/internal/transforms"
	"pilight-go/internal/variables"
)

// State is the render loop's control-plane state (spec.md §4.6).
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// PlaylistEntry is one step of a playlist: which run configuration to load
// and how long to hold it, as a multiplier of the playlist's base duration.
type PlaylistEntry struct {
	ConfigID           string
	DurationMultiplier float64
}

// Playlist cycles through a sequence of run configurations, each held for
// BaseDurationSecs*DurationMultiplier seconds before advancing.
type Playlist struct {
	Entries          []PlaylistEntry
	BaseDurationSecs float64
}

func (p *Playlist) duration(i int) time.Duration {
	if p == nil || i < 0 || i >= len(p.Entries) {
		return 0
	}
	mult := p.Entries[i].DurationMultiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(p.BaseDurationSecs * mult * float64(time.Second))
}

// VariableSet is the session-scoped half of a run: the live variable
// registry, constructed once per "start" and torn down only when the
// session truly ends, plus optionally which variable (by id) carries the
// reserved "Brightness" name for the global-brightness hack (spec.md §4.6
// step 7). A restart command must NOT rebuild these (spec.md §4.6: "Running
// --restart--> Running (rebuild transforms and colors, preserve
// variables)"; driver.py's start() builds current_variables once, outside
// its `while restart` loop, and only closes them after the loop exits).
type VariableSet struct {
	Registry        *variables.Registry
	BrightnessVarID string
}

// EntryConfig is the per-entry half of a run: the base color buffer, the
// transform pipeline, and the enclosing playlist (if any). This is rebuilt
// on every restart and on every playlist advance.
type EntryConfig struct {
	BaseColors []color.Color
	Pipeline   *transforms.Pipeline
	Playlist   *Playlist
}

// ConfigProvider resolves a session's variables once, and its per-entry
// colors/pipeline as many times as the session restarts or advances through
// a playlist. The persisted store backing this is an explicit non-goal
// (spec.md §1); Loop only depends on this interface.
type ConfigProvider interface {
	// LoadVariables builds the variable registry for one "start" session.
	LoadVariables(playlistID *int64) (VariableSet, error)
	// LoadEntry builds one playlist entry's colors/pipeline/playlist.
	LoadEntry(playlistID *int64, entryIndex int) (EntryConfig, error)
}

// Loop is the frame scheduler.
type Loop struct {
	configs  ConfigProvider
	bus      controlbus.Source
	channels controlbus.Channels
	worker   *output.Worker
	log      *zap.Logger

	updateInterval       time.Duration
	messageCheckInterval time.Duration
	debug                bool

	now   func() time.Time
	sleep func(time.Duration)
}

// Options configures a Loop's timing and logging; everything has a
// sensible zero value except the required dependencies.
type Options struct {
	UpdateInterval       time.Duration
	MessageCheckInterval time.Duration
	Debug                bool
}

// NewLoop builds a render loop.
func NewLoop(configs ConfigProvider, bus controlbus.Source, channels controlbus.Channels, worker *output.Worker, log *zap.Logger, opts Options) *Loop {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = 50 * time.Millisecond
	}
	if opts.MessageCheckInterval <= 0 {
		opts.MessageCheckInterval = 500 * time.Millisecond
	}
	return &Loop{
		configs:              configs,
		bus:                  bus,
		channels:             channels,
		worker:               worker,
		log:                  log,
		updateInterval:       opts.UpdateInterval,
		messageCheckInterval: opts.MessageCheckInterval,
		debug:                opts.Debug,
		now:                  time.Now,
		sleep:                time.Sleep,
	}
}

// Run is the top-level Idle/Running state machine. It blocks until the
// control bus reports a permanent error or the caller's autoStart-less
// idle wait is interrupted; callers typically run this in its own
// goroutine.
func (l *Loop) Run(autoStart bool) error {
	if err := l.bus.Purge(); err != nil && l.log != nil {
		l.log.Warn("render: queue purge failed", zap.Error(err))
	}

	if autoStart {
		l.drive(nil)
	}

	for {
		cmd, err := l.bus.WaitForCommand()
		if err != nil {
			return err
		}
		switch cmd.Kind {
		case controlbus.CommandStart:
			l.drive(cmd.PlaylistID)
		default:
			// stop/restart/color with nothing running: no-op, matches the
			// original driver's "ignore stop/restart while idle".
		}
	}
}

// drive runs one "start" session end to end: variables are built once here
// and torn down only when the session truly stops, while run() is called
// repeatedly — once per restart or playlist advance — to rebuild colors
// and transforms without disturbing the live variables or the session's
// start time.
func (l *Loop) drive(playlistID *int64) {
	vars, err := l.configs.LoadVariables(playlistID)
	if err != nil {
		if l.log != nil {
			l.log.Error("render: failed to load variables", zap.Error(err))
		}
		return
	}
	defer vars.Registry.CloseAll()

	var brightnessVar variables.ScalarSource
	if vars.BrightnessVarID != "" {
		if v, ok := vars.Registry.Get(vars.BrightnessVarID); ok {
			if scalar, ok := v.(variables.ScalarSource); ok {
				brightnessVar = scalar
			}
		}
	}

	startTime := l.now()
	entryIndex := 0
	for {
		restart, nextIndex := l.run(playlistID, entryIndex, vars.Registry, brightnessVar, startTime)
		if !restart {
			return
		}
		entryIndex = nextIndex
	}
}

// run executes one Running session segment from a freshly loaded
// EntryConfig until it is stopped, asked to restart, or its playlist
// entry's deadline passes. Variables and startTime are owned by the
// enclosing drive() session and carry across restarts unchanged. Returns
// whether the caller should immediately load another entry (and at which
// playlist index).
func (l *Loop) run(playlistID *int64, entryIndex int, vars *variables.Registry, brightnessVar variables.ScalarSource, startTime time.Time) (restartRequested bool, nextIndex int) {
	cfg, err := l.configs.LoadEntry(playlistID, entryIndex)
	if err != nil {
		if l.log != nil {
			l.log.Error("render: failed to load run entry", zap.Error(err))
		}
		return false, 0
	}

	n := len(cfg.BaseColors)
	lastMessageCheck := l.now()
	lastFPSLog := lastMessageCheck
	frameCount := 0

	var deadline time.Time
	hasDeadline := cfg.Playlist != nil && len(cfg.Playlist.Entries) > 0
	if hasDeadline {
		deadline = lastMessageCheck.Add(cfg.Playlist.duration(entryIndex))
	}

	for {
		frameStart := l.now()
		elapsed := frameStart.Sub(startTime)
		frameCount++

		if hasDeadline && !frameStart.Before(deadline) {
			next := entryIndex + 1
			if next >= len(cfg.Playlist.Entries) {
				next = 0
			}
			return true, next
		}

		if frameStart.Sub(lastMessageCheck) > l.messageCheckInterval {
			lastMessageCheck = frameStart
			if cmd, ok, _ := l.bus.Poll(); ok {
				switch cmd.Kind {
				case controlbus.CommandStop:
					l.stop(n)
					return false, 0
				case controlbus.CommandRestart:
					return true, entryIndex
				case controlbus.CommandColor:
					l.channels.Apply(cmd)
				}
			}
		}

		colors := cloneColors(cfg.BaseColors)
		vars.TickFrame(elapsed)
		cfg.Pipeline.TickFrame(elapsed, n)
		colors = cfg.Pipeline.Apply(elapsed, colors)

		if brightnessVar != nil {
			b := brightnessVar.Value()
			for i := range colors {
				colors[i] = colors[i].Scale(b)
			}
		}

		l.worker.Send(colors)

		if l.debug && frameStart.Sub(lastFPSLog) > 10*time.Second {
			fps := float64(frameCount) / frameStart.Sub(lastFPSLog).Seconds()
			if l.log != nil {
				l.log.Debug("render: fps", zap.Float64("fps", fps))
			}
			lastFPSLog = frameStart
			frameCount = 0
		}

		if cfg.Pipeline.IsAnimated() {
			spent := l.now().Sub(frameStart)
			if sleepFor := l.updateInterval - spent; sleepFor > 0 {
				l.sleep(sleepFor)
			}
		} else {
			l.sleep(time.Second)
		}
	}
}

func (l *Loop) stop(n int) {
	black := make([]color.Color, n)
	for i := range black {
		black[i] = color.Black()
	}
	l.worker.Send(black)
}

func cloneColors(colors []color.Color) []color.Color {
	out := make([]color.Color, len(colors))
	copy(out, colors)
	return out
}
