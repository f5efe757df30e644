package scoring

import (
	"fmt"

	"strength-scanner/internal/types"
)

const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Rule is one band of a dimension. Rules are tried in order and the first
// whose predicate holds contributes its points.
type Rule struct {
	When   func(types.IndicatorSet) bool
	Points float64
	Reason func(types.IndicatorSet) string
}

// Dimension is an ordered rule table for one scoring axis.
type Dimension struct {
	Name  string
	Rules []Rule
}

// Table is a full scoring scheme.
type Table []Dimension

// Result holds per-dimension contributions, the pre-clamp sum and the clamped total.
type Result struct {
	Dimensions []types.DimensionScore `json:"dimensions"`
	Raw        float64                `json:"raw"`
	Total      float64                `json:"total"`
}

// Evaluate returns the contribution of the first matching rule, or 0 when none match.
func (d Dimension) Evaluate(ind types.IndicatorSet) types.DimensionScore {
	for _, r := range d.Rules {
		if r.When(ind) {
			return types.DimensionScore{
				Dimension:    d.Name,
				Contribution: r.Points,
				Rationale:    r.Reason(ind),
			}
		}
	}
	return types.DimensionScore{Dimension: d.Name, Rationale: "no signal"}
}

// Score evaluates every dimension and clamps the sum into [MinScore, MaxScore].
func (t Table) Score(ind types.IndicatorSet) Result {
	res := Result{Dimensions: make([]types.DimensionScore, 0, len(t))}
	for _, d := range t {
		ds := d.Evaluate(ind)
		res.Dimensions = append(res.Dimensions, ds)
		res.Raw += ds.Contribution
	}
	res.Total = Clamp(res.Raw, MinScore, MaxScore)
	return res
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func always(types.IndicatorSet) bool { return true }

func text(s string) func(types.IndicatorSet) string {
	return func(types.IndicatorSet) string { return s }
}

func textf(format string, field func(types.IndicatorSet) float64) func(types.IndicatorSet) string {
	return func(ind types.IndicatorSet) string { return fmt.Sprintf(format, field(ind)) }
}
