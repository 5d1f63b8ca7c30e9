package variables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilight-go/internal/color"
	"pilight-go/internal/params"
)

func TestConstantIsAlwaysOne(t *testing.T) {
	c := NewConstant("v1", KindAudio)
	c.TickFrame(time.Second)
	assert.Equal(t, 1.0, c.Value())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestRandomProducesUnitRange(t *testing.T) {
	r := NewRandom("rnd")
	for i := 0; i < 100; i++ {
		v := r.Value()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

type fakeADC struct{ raw int32 }

func (f fakeADC) Measure() int32 { return f.raw }

func TestAnalogNormalizesRawRange(t *testing.T) {
	p := params.FromValues(AnalogParamsDef(), map[string]any{
		"min_raw": int64(0),
		"max_raw": int64(100),
	})
	a := NewAnalog("adc1", fakeADC{raw: 50}, p)
	a.TickFrame(0)
	assert.InDelta(t, 0.5, a.Value(), 1e-9)
}

func TestAnalogClampsOutOfRange(t *testing.T) {
	p := params.FromValues(AnalogParamsDef(), map[string]any{
		"min_raw": int64(0),
		"max_raw": int64(100),
	})
	a := NewAnalog("adc1", fakeADC{raw: 500}, p)
	a.TickFrame(0)
	assert.Equal(t, 1.0, a.Value())
}

func TestColorChannelFallsBackToDefault(t *testing.T) {
	channels := ChannelMap{}
	cc := NewColorChannel("cc1", channels, "porch", color.New(1, 0, 0))
	assert.Equal(t, color.New(1, 0, 0), cc.ColorValue())

	channels["porch"] = color.New(0, 1, 0)
	assert.Equal(t, color.New(0, 1, 0), cc.ColorValue())
}

func TestRegistryScalarSourceFuncFallsBackForUnknownID(t *testing.T) {
	reg := NewRegistry()
	reg.Add(NewRandom("rnd"))
	get := reg.ScalarSourceFunc("missing")
	assert.Equal(t, 1.0, get())
}

func TestRegistryScalarSourceFuncFallsBackForColorVariable(t *testing.T) {
	reg := NewRegistry()
	reg.Add(NewColorChannel("cc1", ChannelMap{}, "x", color.Default()))
	get := reg.ScalarSourceFunc("cc1")
	assert.Equal(t, 1.0, get())
}

func TestRegistryTicksInInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	reg.Add(orderRecorder{base: base{id: "a"}, record: func() { order = append(order, "a") }})
	reg.Add(orderRecorder{base: base{id: "b"}, record: func() { order = append(order, "b") }})
	reg.TickFrame(0)
	assert.Equal(t, []string{"a", "b"}, order)
}

type orderRecorder struct {
	base
	record func()
}

func (o orderRecorder) TickFrame(time.Duration) { o.record() }
func (o orderRecorder) Close() error             { return nil }

type fakeCapture struct {
	chunks [][]int16
	idx    int
}

func (f *fakeCapture) Read(buf []int16) (int, error) {
	if f.idx >= len(f.chunks) {
		return 0, nil
	}
	n := copy(buf, f.chunks[f.idx])
	f.idx++
	return n, nil
}

func (f *fakeCapture) Close() error { return nil }

func TestAudioDegradesToConstantWhenDisabled(t *testing.T) {
	a := NewConstant("audio", KindAudio)
	assert.Equal(t, 1.0, a.Value())
	a.TickFrame(time.Second)
	assert.NoError(t, a.Close())
}

func TestAudioWorkerPublishesBoundedValue(t *testing.T) {
	chunk := make([]int16, audioChunk)
	for i := range chunk {
		chunk[i] = int16((i % 100) * 300)
	}
	capture := &fakeCapture{chunks: [][]int16{chunk, chunk, chunk, chunk, chunk, chunk}}
	p := params.FromValues(AudioParamsDef(), nil)
	a := NewAudio("audio", capture, p, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		v := a.Value()
		return v >= 0 && v <= 1
	}, 500*time.Millisecond, 5*time.Millisecond)
	assert.NoError(t, a.Close())
}
