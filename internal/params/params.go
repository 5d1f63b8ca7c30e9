// Package params implements the typed parameter model shared by transforms
// and variables: a static ParamsDef describing a kind's configurable knobs,
// and a Params value set that resolves each name either from a variable
// binding (for scalar-typed slots) or a static value, falling back to the
// def's default when a payload omits a name. See spec.md §3–4.2.
package params

import "math"

// Type enumerates the parameter value kinds a transform or variable can
// declare.
type Type string

const (
	Boolean Type = "boolean"
	Long    Type = "long"
	Float   Type = "float"
	Percent Type = "percent"
	ColorT  Type = "color"
	String  Type = "string"
)

// IsNumeric reports whether values of this type may carry a variable
// binding (spec.md: "only scalars may be variable-driven").
func (t Type) IsNumeric() bool {
	switch t {
	case Long, Float, Percent, Boolean:
		return true
	default:
		return false
	}
}

// Def describes one named, typed, defaulted parameter slot.
type Def struct {
	Name        string
	Type        Type
	Default     any
	Description string
}

// ParamsDef is an ordered map of name -> Def for one transform/variable kind.
type ParamsDef struct {
	order []string
	byKey map[string]Def
}

// NewDef builds a ParamsDef preserving the given declaration order, which
// to_dict round-trips use to produce deterministic output.
func NewDef(defs ...Def) *ParamsDef {
	pd := &ParamsDef{byKey: make(map[string]Def, len(defs))}
	for _, d := range defs {
		pd.order = append(pd.order, d.Name)
		pd.byKey[d.Name] = d
	}
	return pd
}

// Get returns the Def for name and whether it exists.
func (pd *ParamsDef) Get(name string) (Def, bool) {
	d, ok := pd.byKey[name]
	return d, ok
}

// Names returns the declared parameter names in definition order.
func (pd *ParamsDef) Names() []string {
	out := make([]string, len(pd.order))
	copy(out, pd.order)
	return out
}

// Binding overrides a numeric parameter's static value at read time:
// value = source() * Multiply + Add, then coerced to the target's type.
type Binding struct {
	Source   func() float64
	Multiply float64
	Add      float64
}

func (b Binding) resolve() float64 {
	return b.Source()*b.Multiply + b.Add
}

// Params is a resolved value set for one transform/variable instance:
// static values from config, plus bindings that win when present.
type Params struct {
	def      *ParamsDef
	values   map[string]any
	bindings map[string]Binding
}

// FromValues builds a Params from a raw value map, filling any name the def
// declares but values omits with the def's default, and dropping unknown
// names (spec.md §3 invariant).
func FromValues(def *ParamsDef, values map[string]any) *Params {
	p := &Params{def: def, values: make(map[string]any, len(def.order)), bindings: map[string]Binding{}}
	for _, name := range def.order {
		d := def.byKey[name]
		if v, ok := values[name]; ok {
			p.values[name] = v
		} else {
			p.values[name] = d.Default
		}
	}
	return p
}

// Bind attaches a variable binding to a numeric parameter slot. Binding a
// color-typed (or otherwise non-numeric) parameter is a no-op: color
// parameters are never dynamically bound per spec.md §4.2.
func (p *Params) Bind(name string, b Binding) {
	d, ok := p.def.byKey[name]
	if !ok || !d.Type.IsNumeric() {
		return
	}
	p.bindings[name] = b
}

func coerce(typ Type, v float64) any {
	switch typ {
	case Boolean:
		return v != 0
	case Long:
		return int64(math.Round(v))
	default:
		return v
	}
}

// value resolves the live value for name: binding wins if present, else the
// static value.
func (p *Params) value(name string) any {
	if b, ok := p.bindings[name]; ok {
		d := p.def.byKey[name]
		return coerce(d.Type, b.resolve())
	}
	return p.values[name]
}

// Float reads a numeric parameter as float64, regardless of its declared
// concrete numeric type.
func (p *Params) Float(name string) float64 {
	switch v := p.value(name).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Long reads a parameter as int64.
func (p *Params) Long(name string) int64 {
	switch v := p.value(name).(type) {
	case int64:
		return v
	case float64:
		return int64(math.Round(v))
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Bool reads a parameter as bool (truthiness per spec.md §3 binding coercion).
func (p *Params) Bool(name string) bool {
	switch v := p.value(name).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

// String reads a string-typed parameter; never bindable, so this always
// returns the static value.
func (p *Params) String(name string) string {
	if v, ok := p.values[name].(string); ok {
		return v
	}
	return ""
}

// Raw reads a parameter's static value as stored, typically for color-typed
// parameters, which are never bound. Callers must
// supply the stored representation via ToDict/FromDict at the edges; here
// it is kept as an opaque `any` slot holding whatever the color package's
// serialized form is, resolved by the caller's own accessor when needed.
func (p *Params) Raw(name string) any {
	return p.values[name]
}

// ToDict re-serializes in the def's declared order. Every declared name is
// always present in the output (never omitted), so round-tripping is
// deterministic even when the original payload was partial.
func (p *Params) ToDict() map[string]any {
	out := make(map[string]any, len(p.def.order))
	for _, name := range p.def.order {
		d := p.def.byKey[name]
		if v, ok := p.values[name]; ok && v != nil {
			out[name] = v
		} else {
			out[name] = d.Default
		}
	}
	return out
}
