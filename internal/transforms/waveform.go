package transforms

import "math"

// triangleWave returns a 0→1→0 ramp with the given period, sampled at t.
func triangleWave(t, period float64) float64 {
	phase := math.Mod(t, period) / period
	if phase < 0.5 {
		return phase * 2
	}
	return (1 - phase) * 2
}

// raisedCosineWave is the smooth sine-shaped analog of triangleWave: also
// 0→1→0 over one period, but eased at the turning points.
func raisedCosineWave(t, period float64) float64 {
	phase := math.Mod(t, period) / period
	return (1 - math.Cos(2*math.Pi*phase)) / 2
}

// waveformValue samples either waveform and maps it into [start, end].
func waveformValue(elapsedSeconds, duration, start, end float64, sine bool) float64 {
	period := positiveDuration(duration)
	var v float64
	if sine {
		v = raisedCosineWave(elapsedSeconds, period)
	} else {
		v = triangleWave(elapsedSeconds, period)
	}
	return start + v*(end-start)
}
