package transforms

import (
	"sort"
	"time"

	"pilight-go/internal/color"
)

// Pipeline holds a set of transforms, always applied in ascending Order.
type Pipeline struct {
	transforms []Transform
}

// NewPipeline builds a Pipeline, sorting transforms by ascending Order once
// up front (spec.md §4.4 invariant: transforms apply in ascending order).
func NewPipeline(transforms ...Transform) *Pipeline {
	sorted := make([]Transform, len(transforms))
	copy(sorted, transforms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order() < sorted[j].Order() })
	return &Pipeline{transforms: sorted}
}

// TickFrame advances every transform's internal state once per frame.
func (pl *Pipeline) TickFrame(elapsed time.Duration, n int) {
	for _, t := range pl.transforms {
		t.TickFrame(elapsed, n)
	}
}

// Apply runs every transform in order, each consuming the previous one's
// output. The returned buffer is always a fresh allocation of the same
// length as the input, even when the pipeline is empty.
func (pl *Pipeline) Apply(elapsed time.Duration, colors []color.Color) []color.Color {
	cur := cloneFrame(colors)
	for _, t := range pl.transforms {
		cur = t.Apply(elapsed, cur)
	}
	return cur
}

// IsAnimated reports whether any transform in the pipeline needs continuous
// re-rendering; an empty or all-static pipeline lets the render loop drop
// to its idle cadence.
func (pl *Pipeline) IsAnimated() bool {
	for _, t := range pl.transforms {
		if t.IsAnimated() {
			return true
		}
	}
	return false
}

// Transforms returns the pipeline's transforms in their applied order.
func (pl *Pipeline) Transforms() []Transform {
	out := make([]Transform, len(pl.transforms))
	copy(out, pl.transforms)
	return out
}
