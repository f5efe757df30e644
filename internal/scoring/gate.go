package scoring

import (
	"fmt"
	"math"

	"strength-scanner/internal/types"
)

const weightTolerance = 1e-9

// Weights splits the market composite between technical and sentiment.
type Weights struct {
	Technical float64
	Sentiment float64
}

func DefaultWeights() Weights {
	return Weights{Technical: 0.7, Sentiment: 0.3}
}

func (w Weights) Validate() error {
	if w.Technical < 0 || w.Sentiment < 0 {
		return fmt.Errorf("weights must be non-negative, got technical=%.3f sentiment=%.3f", w.Technical, w.Sentiment)
	}
	if math.Abs(w.Technical+w.Sentiment-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", w.Technical+w.Sentiment)
	}
	return nil
}

// BandThresholds are inclusive lower bounds for GREEN and YELLOW.
type BandThresholds struct {
	Green  float64
	Yellow float64
}

func DefaultBandThresholds() BandThresholds {
	return BandThresholds{Green: 8, Yellow: 5}
}

func (b BandThresholds) Validate() error {
	if b.Yellow <= MinScore || b.Green > MaxScore || b.Yellow >= b.Green {
		return fmt.Errorf("band thresholds must satisfy 0 < yellow < green <= 10, got yellow=%.2f green=%.2f", b.Yellow, b.Green)
	}
	return nil
}

// Classify maps a composite score to a band.
func (b BandThresholds) Classify(composite float64) types.Band {
	switch {
	case composite >= b.Green:
		return types.BandGreen
	case composite >= b.Yellow:
		return types.BandYellow
	default:
		return types.BandRed
	}
}

// Gate classifies the market environment from a benchmark's indicators and
// an optional sentiment score.
type Gate struct {
	weights    Weights
	thresholds BandThresholds
}

func NewGate(w Weights, t BandThresholds) *Gate {
	return &Gate{weights: w, thresholds: t}
}

// Assessment is the full outcome of a gate evaluation.
type Assessment struct {
	Technical Result
	Composite types.CompositeScore
	Band      types.MarketBand
}

// Assess scores the benchmark with MarketTable and blends in sentiment when present.
func (g *Gate) Assess(ind types.IndicatorSet, sent *types.SentimentScore) Assessment {
	tech := ScoreMarket(ind)
	comp, band := g.Evaluate(tech.Total, sent)
	return Assessment{Technical: tech, Composite: comp, Band: band}
}

// Evaluate blends a technical score with sentiment. Without sentiment the
// technical score carries the full weight.
func (g *Gate) Evaluate(technical float64, sent *types.SentimentScore) (types.CompositeScore, types.MarketBand) {
	technical = Clamp(technical, MinScore, MaxScore)
	comp := types.CompositeScore{
		Technical:       technical,
		WeightTechnical: 1,
	}

	if sent != nil {
		scaled := Clamp(sent.Scaled, MinScore, MaxScore)
		comp.Sentiment = &scaled
		comp.WeightTechnical = g.weights.Technical
		comp.WeightSentiment = g.weights.Sentiment
	}

	final := comp.WeightTechnical * technical
	if comp.Sentiment != nil {
		final += comp.WeightSentiment * *comp.Sentiment
	}
	comp.Final = Clamp(final, MinScore, MaxScore)

	return comp, types.MarketBand{Value: g.thresholds.Classify(comp.Final), Score: comp.Final}
}

var riskTips = map[types.Band][]string{
	types.BandGreen: {
		"Healthy environment, build positions actively",
		"Focus on leaders of strong sectors",
		"Take profits in time and avoid chasing highs",
	},
	types.BandYellow: {
		"Choppy market, be selective",
		"Keep position size controlled and trade quickly",
		"Use strict stops and avoid heavy positions",
	},
	types.BandRed: {
		"Elevated market risk, stay on the sidelines",
		"Hold cash or probe with a minimal position",
		"Use strict stops and protect capital",
	},
}

// RiskTips returns the risk-control notes for a band.
func RiskTips(b types.Band) []string {
	tips := riskTips[b]
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
