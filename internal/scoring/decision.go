package scoring

import (
	"fmt"

	"strength-scanner/internal/types"
)

// Sizing holds position percentages (0..1) for each sized action. RedFloor is
// the contrarian allocation allowed under a RED band.
type Sizing struct {
	Full     float64
	Half     float64
	Moderate float64
	RedFloor float64
}

func DefaultSizing() Sizing {
	return Sizing{Full: 1.0, Half: 0.5, Moderate: 0.3, RedFloor: 0}
}

func (s Sizing) Validate() error {
	for name, v := range map[string]float64{"full": s.Full, "half": s.Half, "moderate": s.Moderate, "red_floor": s.RedFloor} {
		if v < 0 || v > 1 {
			return fmt.Errorf("position %s must be within 0..1, got %.2f", name, v)
		}
	}
	return nil
}

// TierThresholds are inclusive lower bounds for the high and mid score tiers.
type TierThresholds struct {
	High float64
	Mid  float64
}

func DefaultTierThresholds() TierThresholds {
	return TierThresholds{High: 8, Mid: 5}
}

func (t TierThresholds) Tier(score float64) types.Tier {
	switch {
	case score >= t.High:
		return types.TierHigh
	case score >= t.Mid:
		return types.TierMid
	default:
		return types.TierLow
	}
}

type cell struct {
	action   types.Action
	position func(Sizing) float64
}

func none(Sizing) float64       { return 0 }
func full(s Sizing) float64     { return s.Full }
func half(s Sizing) float64     { return s.Half }
func moderate(s Sizing) float64 { return s.Moderate }
func floor(s Sizing) float64    { return s.RedFloor }

var decisionTable = map[types.Band]map[types.Tier]cell{
	types.BandGreen: {
		types.TierHigh: {types.ActionAggressive, full},
		types.TierMid:  {types.ActionModerate, moderate},
		types.TierLow:  {types.ActionAvoid, none},
	},
	types.BandYellow: {
		types.TierHigh: {types.ActionSelective, half},
		types.TierMid:  {types.ActionWatch, none},
		types.TierLow:  {types.ActionAvoid, none},
	},
	types.BandRed: {
		types.TierHigh: {types.ActionObserve, floor},
		types.TierMid:  {types.ActionObserve, floor},
		types.TierLow:  {types.ActionObserve, floor},
	},
}

var strategies = map[types.Band]string{
	types.BandGreen:  "six-dimension strength",
	types.BandYellow: "six-dimension strength (cautious)",
	types.BandRed:    "golden-pit rebound",
}

// Strategy names the stock selection approach used under a band.
func Strategy(b types.Band) string {
	if s, ok := strategies[b]; ok {
		return s
	}
	return strategies[types.BandRed]
}

// Classifier maps a final score and market band to an action.
type Classifier struct {
	sizing Sizing
	tiers  TierThresholds
}

func NewClassifier(s Sizing, t TierThresholds) *Classifier {
	return &Classifier{sizing: s, tiers: t}
}

// Classify is total over bands and tiers. An unrecognised band is treated as RED.
func (c *Classifier) Classify(final float64, band types.MarketBand) types.Decision {
	b := band.Value
	row, ok := decisionTable[b]
	if !ok {
		b = types.BandRed
		row = decisionTable[b]
	}
	tier := c.tiers.Tier(final)
	cl := row[tier]

	return types.Decision{
		Band:        b,
		Tier:        tier,
		Action:      cl.action,
		PositionPct: cl.position(c.sizing),
		Strategy:    Strategy(b),
		Supporting: types.SupportingScores{
			Technical:   final,
			Final:       final,
			MarketScore: band.Score,
		},
	}
}
