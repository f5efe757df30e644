package scoring

import "strength-scanner/internal/types"

func amplitude(i types.IndicatorSet) float64     { return i.AmplitudePct }
func closePosition(i types.IndicatorSet) float64 { return i.ClosePositionPct }

// SecurityTable is the six-dimension strength scheme for individual
// securities. All contributions are non-negative and sum to at most 10.
var SecurityTable = Table{
	{
		Name: "trend",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.MA5 > i.MA10 && i.MA10 > i.MA20 }, Points: 2, Reason: text("MA5 > MA10 > MA20")},
			{When: func(i types.IndicatorSet) bool { return i.Close > i.MA5 }, Points: 1, Reason: text("close above MA5")},
			{When: always, Points: 0, Reason: text("no trend")},
		},
	},
	{
		Name: "candlestick",
		Rules: []Rule{
			{
				When:   func(i types.IndicatorSet) bool { return i.Bullish() && i.BodyRatioPct > 50 && i.UpperShadowPct < 25 },
				Points: 2,
				Reason: textf("solid green body %.0f%% with short upper shadow", bodyRatio),
			},
			{When: func(i types.IndicatorSet) bool { return i.Bullish() }, Points: 1, Reason: text("green candle")},
			{When: always, Points: 0, Reason: text("no green candle")},
		},
	},
	{
		Name: "volume_price",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.Bullish() && i.VolumeRatio > 1.5 }, Points: 2, Reason: textf("green candle on volume %.2fx", volumeRatio)},
			{When: func(i types.IndicatorSet) bool { return i.VolumeRatio > 1.2 }, Points: 1, Reason: textf("volume expanding %.2fx", volumeRatio)},
			{When: always, Points: 0, Reason: textf("volume %.2fx", volumeRatio)},
		},
	},
	{
		Name: "intraday",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.Close > i.Open }, Points: 1, Reason: text("closed above open")},
			{When: always, Points: 0, Reason: text("closed at or below open")},
		},
	},
	{
		Name: "order_book",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.AmplitudePct > 2 && i.AmplitudePct < 8 }, Points: 1, Reason: textf("active range %.2f%%", amplitude)},
			{When: always, Points: 0, Reason: textf("range %.2f%% outside 2-8%%", amplitude)},
		},
	},
	{
		Name: "close_auction",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.ClosePositionPct > 80 }, Points: 2, Reason: textf("closed near high %.0f%%", closePosition)},
			{When: func(i types.IndicatorSet) bool { return i.ClosePositionPct > 60 }, Points: 1, Reason: textf("closed upper range %.0f%%", closePosition)},
			{When: always, Points: 0, Reason: textf("closed at %.0f%% of range", closePosition)},
		},
	},
}

// ScoreSecurity applies SecurityTable.
func ScoreSecurity(ind types.IndicatorSet) Result {
	return SecurityTable.Score(ind)
}

// GradeThresholds are the minimum totals for S and A grades.
type GradeThresholds struct {
	S float64
	A float64
}

func DefaultGradeThresholds() GradeThresholds {
	return GradeThresholds{S: 8, A: 6}
}

func (g GradeThresholds) Grade(total float64) types.Grade {
	switch {
	case total >= g.S:
		return types.GradeS
	case total >= g.A:
		return types.GradeA
	default:
		return types.GradeB
	}
}
