// Package variables implements the polymorphic variable runtime: scalar and
// color sources refreshed once per frame and optionally bound into
// transform parameters. See spec.md §3–4.3.
package variables

import (
	"time"

	"pilight-go/internal/color"
)

// Kind is the tagged-variant discriminator for a variable's implementation.
type Kind string

const (
	KindRandom       Kind = "random"
	KindAnalog       Kind = "analog"
	KindAudio        Kind = "audio"
	KindColorChannel Kind = "colorchannel"
)

// Singleton reports whether at most one instance of this kind may be active
// in a run, per spec.md §4.3.
func (k Kind) Singleton() bool {
	return k == KindRandom || k == KindAudio
}

// Variable is the contract every variable kind satisfies: tick once per
// frame, report close idempotently. Failures to initialize hardware must
// never surface here — callers get a degenerate constant-1.0 variable
// instead (spec.md §4.3).
type Variable interface {
	ID() string
	Kind() Kind
	TickFrame(elapsed time.Duration)
	Close() error
}

// ScalarSource is satisfied by variables whose value can drive a numeric
// parameter binding.
type ScalarSource interface {
	Variable
	Value() float64
}

// ColorSource is satisfied by variables whose value is a Color. Per
// spec.md's open question, color variables are never consulted for numeric
// bindings.
type ColorSource interface {
	Variable
	ColorValue() color.Color
}

// base carries the id/kind fields every concrete variable embeds.
type base struct {
	id   string
	kind Kind
}

func (b base) ID() string  { return b.id }
func (b base) Kind() Kind  { return b.kind }

// Constant is the degenerate fallback variable: always 1.0, tick and close
// are no-ops. Used whenever real hardware or a resource fails to
// initialize, so the render loop never observes an error from a variable.
type Constant struct {
	base
}

// NewConstant builds a degenerate constant-1.0 variable carrying the given
// id/kind so registry lookups still resolve.
func NewConstant(id string, kind Kind) *Constant {
	return &Constant{base: base{id: id, kind: kind}}
}

func (c *Constant) TickFrame(time.Duration) {}
func (c *Constant) Value() float64          { return 1.0 }
func (c *Constant) Close() error             { return nil }

// Registry is the run-scoped collection of active variable instances,
// ticked in insertion order once per frame.
type Registry struct {
	order []Variable
	byID  map[string]Variable
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: map[string]Variable{}}
}

// Add appends v to the tick order and indexes it by id. A duplicate id
// replaces the index entry but the original still ticks in its original
// slot (construction time should never produce duplicate ids in practice).
func (r *Registry) Add(v Variable) {
	r.order = append(r.order, v)
	r.byID[v.ID()] = v
}

// Get resolves a variable by id.
func (r *Registry) Get(id string) (Variable, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// TickFrame ticks every registered variable once, in insertion order.
func (r *Registry) TickFrame(elapsed time.Duration) {
	for _, v := range r.order {
		v.TickFrame(elapsed)
	}
}

// CloseAll calls Close on every registered variable exactly once.
func (r *Registry) CloseAll() {
	for _, v := range r.order {
		_ = v.Close()
	}
}

// All returns the variables in tick order.
func (r *Registry) All() []Variable {
	return r.order
}

// ScalarSourceFunc resolves id to a zero-arg scalar getter for use as a
// params.Binding source. Unresolved ids (or color-typed/unresolvable
// variables) fall back to the constant 1.0, per spec.md §3's binding
// contract.
func (r *Registry) ScalarSourceFunc(id string) func() float64 {
	v, ok := r.byID[id]
	if !ok {
		return func() float64 { return 1.0 }
	}
	scalar, ok := v.(ScalarSource)
	if !ok {
		return func() float64 { return 1.0 }
	}
	return scalar.Value
}
