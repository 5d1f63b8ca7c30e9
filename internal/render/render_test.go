package render

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilight-go/internal/color"
	"pilight-go/internal/controlbus"
	"pilight-go/internal/output"
	"pilight-go/internal/transforms"
	"pilight-go/internal/variables"
)

// fakeSource is a controlbus.Source double driven by a scripted command
// queue, with an optional blocking wait for the idle case.
type fakeSource struct {
	mu       sync.Mutex
	pollSeq  []controlbus.Command
	pollIdx  int
	waitSeq  []struct {
		cmd controlbus.Command
		err error
	}
	waitIdx int
	purged  bool
	closed  bool
}

func (f *fakeSource) WaitForCommand() (controlbus.Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.waitIdx >= len(f.waitSeq) {
		return controlbus.Command{}, errors.New("fakeSource: no more scripted waits")
	}
	entry := f.waitSeq[f.waitIdx]
	f.waitIdx++
	return entry.cmd, entry.err
}

func (f *fakeSource) Poll() (controlbus.Command, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollIdx >= len(f.pollSeq) {
		return controlbus.Command{}, false, nil
	}
	cmd := f.pollSeq[f.pollIdx]
	f.pollIdx++
	return cmd, true, nil
}

func (f *fakeSource) Purge() error { f.purged = true; return nil }
func (f *fakeSource) Close() error { f.closed = true; return nil }

// fakeConfigs builds one VariableSet per session (via buildVars, called once
// by drive()) and one EntryConfig per run() invocation (via buildEntry,
// called once per restart/playlist advance) — mirroring the real split so
// tests can assert the registry instance survives a restart.
type fakeConfigs struct {
	buildVars  func() VariableSet
	buildEntry func() EntryConfig
	varsCalls  int
	entryCalls int
}

func (f *fakeConfigs) LoadVariables(playlistID *int64) (VariableSet, error) {
	f.varsCalls++
	if f.buildVars != nil {
		return f.buildVars(), nil
	}
	return VariableSet{Registry: variables.NewRegistry()}, nil
}

func (f *fakeConfigs) LoadEntry(playlistID *int64, entryIndex int) (EntryConfig, error) {
	f.entryCalls++
	return f.buildEntry(), nil
}

type recordingDevice struct {
	mu       sync.Mutex
	received [][]color.Color
}

func (d *recordingDevice) Init() error { return nil }
func (d *recordingDevice) SetColors(colors []color.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.received = append(d.received, colors)
	return nil
}
func (d *recordingDevice) Finish() error { return nil }
func (d *recordingDevice) Close() error  { return nil }

func (d *recordingDevice) frameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.received)
}

func solidEntry(n int) EntryConfig {
	base := make([]color.Color, n)
	for i := range base {
		base[i] = color.New(1, 1, 1)
	}
	return EntryConfig{
		BaseColors: base,
		Pipeline:   transforms.NewPipeline(),
	}
}

func TestRunStopsOnStopCommand(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)

	src := &fakeSource{
		pollSeq: []controlbus.Command{{Kind: controlbus.CommandStop}},
	}
	cfgs := &fakeConfigs{buildEntry: func() EntryConfig { return solidEntry(4) }}

	loop := NewLoop(cfgs, src, controlbus.Channels{}, worker, nil, Options{
		UpdateInterval:       time.Millisecond,
		MessageCheckInterval: time.Nanosecond,
	})

	restart, _ := loop.run(nil, 0, variables.NewRegistry(), nil, time.Now())
	assert.False(t, restart)
	require.NoError(t, worker.Close())

	assert.GreaterOrEqual(t, dev.frameCount(), 1)
}

func TestRunRestartsOnRestartCommand(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)
	defer worker.Close()

	src := &fakeSource{
		pollSeq: []controlbus.Command{{Kind: controlbus.CommandRestart}},
	}
	cfgs := &fakeConfigs{buildEntry: func() EntryConfig { return solidEntry(4) }}

	loop := NewLoop(cfgs, src, controlbus.Channels{}, worker, nil, Options{
		UpdateInterval:       time.Millisecond,
		MessageCheckInterval: time.Nanosecond,
	})

	restart, nextIndex := loop.run(nil, 0, variables.NewRegistry(), nil, time.Now())
	assert.True(t, restart)
	assert.Equal(t, 0, nextIndex)
}

func TestRunAppliesGlobalBrightnessByName(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)

	src := &fakeSource{
		pollSeq: []controlbus.Command{{Kind: controlbus.CommandStop}},
	}

	cfgs := &fakeConfigs{buildEntry: func() EntryConfig { return solidEntry(2) }}
	brightnessVar := variables.NewConstant("brightness-var", variables.KindRandom)

	// The stop command is only polled once the check interval has passed,
	// so at least one rendered frame is sent before the black stop frame.
	loop := NewLoop(cfgs, src, controlbus.Channels{}, worker, nil, Options{
		UpdateInterval:       time.Millisecond,
		MessageCheckInterval: 10 * time.Millisecond,
	})
	loop.sleep = func(time.Duration) {}

	loop.run(nil, 0, variables.NewRegistry(), brightnessVar, time.Now())
	require.NoError(t, worker.Close())

	require.GreaterOrEqual(t, dev.frameCount(), 1)
	first := dev.received[0]
	// Constant variable always reports 1.0, so colors pass through unscaled.
	assert.Equal(t, color.New(1, 1, 1), first[0])
}

func TestPlaylistDeadlineAdvancesEntry(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)
	defer worker.Close()

	src := &fakeSource{} // no commands; deadline must end the session
	cfgs := &fakeConfigs{buildEntry: func() EntryConfig {
		cfg := solidEntry(2)
		cfg.Playlist = &Playlist{
			Entries:          []PlaylistEntry{{ConfigID: "a"}, {ConfigID: "b"}},
			BaseDurationSecs: 0, // expires immediately
		}
		return cfg
	}}

	loop := NewLoop(cfgs, src, controlbus.Channels{}, worker, nil, Options{
		UpdateInterval:       time.Millisecond,
		MessageCheckInterval: time.Hour, // never poll mid-session
	})
	loop.sleep = func(time.Duration) {}

	restart, nextIndex := loop.run(nil, 0, variables.NewRegistry(), nil, time.Now())
	assert.True(t, restart)
	assert.Equal(t, 1, nextIndex)
}

func TestStopSendsBlackFrame(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)

	loop := &Loop{worker: worker}
	loop.stop(3)
	require.NoError(t, worker.Close())

	require.Len(t, dev.received, 1)
	for _, c := range dev.received[0] {
		assert.Equal(t, color.Black(), c)
	}
}

// TestDrivePreservesVariablesAcrossRestart is the direct regression test
// for the restart-preserves-variables requirement (spec.md §4.6): it
// asserts the same *variables.Registry instance is reused across a
// restart rather than rebuilt,
// by checking LoadVariables is called exactly once per drive() session
// while LoadEntry is called once per restart.
func TestDrivePreservesVariablesAcrossRestart(t *testing.T) {
	dev := &recordingDevice{}
	worker, err := output.NewWorker(dev, nil)
	require.NoError(t, err)
	defer worker.Close()

	src := &fakeSource{
		pollSeq: []controlbus.Command{
			{Kind: controlbus.CommandRestart},
			{Kind: controlbus.CommandStop},
		},
	}

	var seenRegistries []*variables.Registry
	cfgs := &fakeConfigs{
		buildVars: func() VariableSet {
			reg := variables.NewRegistry()
			seenRegistries = append(seenRegistries, reg)
			return VariableSet{Registry: reg}
		},
		buildEntry: func() EntryConfig { return solidEntry(2) },
	}

	loop := NewLoop(cfgs, src, controlbus.Channels{}, worker, nil, Options{
		UpdateInterval:       time.Millisecond,
		MessageCheckInterval: time.Nanosecond,
	})

	loop.drive(nil)

	assert.Equal(t, 1, cfgs.varsCalls, "variables must be built once per session, not once per restart")
	assert.Equal(t, 2, cfgs.entryCalls, "entry config is rebuilt on each restart")
	require.Len(t, seenRegistries, 1)
}
