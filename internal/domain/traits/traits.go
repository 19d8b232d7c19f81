// Package traits models the eight fixed personality / domain-fit axes and the
// two scales trait values are expressed on.
//
// A raw value is a 1..5 answer or declared level; a normalized value is the
// same quantity rescaled to 0..1. The two scales are distinct Go types (Raw
// and Normalized) so a normalized vector can never be normalized again.
package traits

import (
	"encoding/json"
	"fmt"
)

// Trait identifies one of the fixed axes.
type Trait int

// Axes in display order. The order is the radar's axis order.
const (
	Drive Trait = iota
	Collaboration
	Technical
	RiskAversion
	Speed
	Compliance
	Scale
	LongTerm
)

// Count is the number of trait axes.
const Count = int(LongTerm) + 1

var names = [Count]string{
	"drive",
	"collaboration",
	"technical",
	"risk_aversion",
	"speed",
	"compliance",
	"scale",
	"long_term",
}

// All returns every trait in axis order.
func All() []Trait {
	out := make([]Trait, Count)
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

// Valid reports whether t is one of the known axes.
func (t Trait) Valid() bool { return t >= 0 && int(t) < Count }

// String returns the wire name, e.g. "risk_aversion".
func (t Trait) String() string {
	if !t.Valid() {
		return fmt.Sprintf("trait(%d)", int(t))
	}
	return names[t]
}

// Label returns a human label ("risk aversion").
func (t Trait) Label() string {
	b := []byte(t.String())
	for i, c := range b {
		if c == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}

// MarshalText implements encoding.TextMarshaler.
func (t Trait) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrait, int(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trait) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// Parse resolves a wire name to a Trait.
func Parse(name string) (Trait, error) {
	for i, n := range names {
		if n == name {
			return Trait(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrait, name)
}

// Vector holds an optional value per trait. A slot that was never set is
// missing, which is different from a zero value.
type Vector struct {
	values [Count]float64
	set    [Count]bool
}

// VectorOf builds a vector from explicit trait values.
func VectorOf(m map[Trait]float64) Vector {
	var v Vector
	for t, val := range m {
		v.Set(t, val)
	}
	return v
}

// FromMap builds a vector from wire names. Unknown names are an error.
func FromMap(m map[string]float64) (Vector, error) {
	var v Vector
	for name, val := range m {
		t, err := Parse(name)
		if err != nil {
			return Vector{}, err
		}
		v.Set(t, val)
	}
	return v, nil
}

// Get returns the value for t and whether it is present.
func (v Vector) Get(t Trait) (float64, bool) {
	if !t.Valid() || !v.set[t] {
		return 0, false
	}
	return v.values[t], true
}

// ValueOr returns the value for t, or def when t is missing.
func (v Vector) ValueOr(t Trait, def float64) float64 {
	if val, ok := v.Get(t); ok {
		return val
	}
	return def
}

// Has reports whether t is present.
func (v Vector) Has(t Trait) bool {
	return t.Valid() && v.set[t]
}

// Set stores val for t. Invalid traits are ignored.
func (v *Vector) Set(t Trait, val float64) {
	if !t.Valid() {
		return
	}
	v.values[t] = val
	v.set[t] = true
}

// Unset marks t as missing.
func (v *Vector) Unset(t Trait) {
	if !t.Valid() {
		return
	}
	v.values[t] = 0
	v.set[t] = false
}

// Len returns the number of present traits.
func (v Vector) Len() int {
	n := 0
	for _, ok := range v.set {
		if ok {
			n++
		}
	}
	return n
}

// IsZero reports whether no trait is present. It also drives `omitzero`.
func (v Vector) IsZero() bool { return v.Len() == 0 }

// Traits returns the present traits in axis order.
func (v Vector) Traits() []Trait {
	out := make([]Trait, 0, Count)
	for i, ok := range v.set {
		if ok {
			out = append(out, Trait(i))
		}
	}
	return out
}

// Max returns the largest present value; ok is false for an empty vector.
func (v Vector) Max() (maxVal float64, ok bool) {
	for i, present := range v.set {
		if !present {
			continue
		}
		if !ok || v.values[i] > maxVal {
			maxVal = v.values[i]
			ok = true
		}
	}
	return maxVal, ok
}

// Map returns the present values keyed by wire name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, v.Len())
	for i, ok := range v.set {
		if ok {
			out[names[i]] = v.values[i]
		}
	}
	return out
}

// MarshalJSON encodes the vector as an object keyed by trait name.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON decodes an object keyed by trait name. Unknown keys are
// ignored so older exports stay importable; non-numeric values fail.
func (v *Vector) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("decode trait vector: %w", err)
	}
	*v = Vector{}
	for name, val := range m {
		if t, err := Parse(name); err == nil {
			v.Set(t, val)
		}
	}
	return nil
}

// Raw is a vector on the 1..5 scale.
type Raw struct{ Vector }

// Normalized is a vector on the 0..1 scale.
type Normalized struct{ Vector }

// RawOf builds a raw vector from explicit values.
func RawOf(m map[Trait]float64) Raw { return Raw{VectorOf(m)} }

// NormalizedOf builds a normalized vector from explicit values.
func NormalizedOf(m map[Trait]float64) Normalized { return Normalized{VectorOf(m)} }

// Normalize maps every present raw value onto 0..1 via (raw-1)/4. Missing
// traits stay missing.
func Normalize(raw Raw) Normalized {
	var out Normalized
	for _, t := range raw.Traits() {
		val, _ := raw.Get(t)
		out.Set(t, NormalizeValue(val))
	}
	return out
}

// NormalizeValue rescales a single 1..5 value to 0..1.
func NormalizeValue(raw float64) float64 {
	return (raw - 1) / 4
}
