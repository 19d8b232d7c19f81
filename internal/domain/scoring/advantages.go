package scoring

import (
	"fmt"

	"github.com/okian/matchboard/internal/domain/traits"
)

// AdvantageTable maps an advantage tag to its trait weight contributions.
// Weights are relative; Infer rescales the summed vector by its maximum.
type AdvantageTable map[string]traits.Vector

// DefaultAdvantageTable returns the built-in advantage weights.
func DefaultAdvantageTable() AdvantageTable {
	return AdvantageTable{
		"Cheap Energy":  traits.VectorOf(map[traits.Trait]float64{traits.Drive: 3, traits.Technical: 2, traits.Scale: 2}),
		"Data Centres":  traits.VectorOf(map[traits.Trait]float64{traits.Technical: 3, traits.Scale: 3, traits.Compliance: 2}),
		"Methane":       traits.VectorOf(map[traits.Trait]float64{traits.Technical: 2, traits.Compliance: 2, traits.Drive: 2}),
		"Nuclear":       traits.VectorOf(map[traits.Trait]float64{traits.Technical: 4, traits.Compliance: 4, traits.RiskAversion: 3}),
		"Land & Lumber": traits.VectorOf(map[traits.Trait]float64{traits.LongTerm: 3, traits.Collaboration: 2}),
		"Resources":     traits.VectorOf(map[traits.Trait]float64{traits.LongTerm: 2, traits.Scale: 2}),
		"AI / Compute":  traits.VectorOf(map[traits.Trait]float64{traits.Technical: 4, traits.Speed: 3}),
	}
}

// ParseAdvantageTable converts a name-keyed table, as found in config files,
// into an AdvantageTable. Unknown trait names are an error.
func ParseAdvantageTable(m map[string]map[string]float64) (AdvantageTable, error) {
	out := make(AdvantageTable, len(m))
	for tag, weights := range m {
		v, err := traits.FromMap(weights)
		if err != nil {
			return nil, fmt.Errorf("advantage %q: %w", tag, err)
		}
		out[tag] = v
	}
	return out, nil
}

// Tags returns the known advantage tags.
func (t AdvantageTable) Tags() []string {
	out := make([]string, 0, len(t))
	for tag := range t {
		out = append(out, tag)
	}
	return out
}

// Infer sums the contributions of every known tag and divides each trait by
// the largest sum so the dominant trait becomes 1.0. Unknown tags contribute
// nothing; ok is false when no tag contributed.
func (t AdvantageTable) Infer(advantages []string) (traits.Normalized, bool) {
	var sum traits.Vector
	for _, a := range advantages {
		w, found := t[a]
		if !found {
			continue
		}
		for _, tr := range w.Traits() {
			val, _ := w.Get(tr)
			sum.Set(tr, sum.ValueOr(tr, 0)+val)
		}
	}
	maxVal, ok := sum.Max()
	if !ok {
		return traits.Normalized{}, false
	}
	var out traits.Normalized
	for _, tr := range sum.Traits() {
		val, _ := sum.Get(tr)
		if maxVal > 0 {
			out.Set(tr, val/maxVal)
		} else {
			out.Set(tr, 0)
		}
	}
	return out, true
}
