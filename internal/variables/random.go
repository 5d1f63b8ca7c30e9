package variables

import (
	"math/rand"
	"time"
)

// Random is the singleton U(0,1) source. TickFrame is a no-op; each call to
// Value draws a fresh sample, matching the original's per-read semantics.
type Random struct {
	base
	rng *rand.Rand
}

// NewRandom builds a Random variable seeded from the wall clock.
func NewRandom(id string) *Random {
	return &Random{
		base: base{id: id, kind: KindRandom},
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Random) TickFrame(time.Duration) {}
func (r *Random) Value() float64          { return r.rng.Float64() }
func (r *Random) Close() error             { return nil }
