package scoring

import "strength-scanner/internal/types"

func changePct(i types.IndicatorSet) float64   { return i.ChangePct }
func bodyRatio(i types.IndicatorSet) float64   { return i.BodyRatioPct }
func volumeRatio(i types.IndicatorSet) float64 { return i.VolumeRatio }

// MarketTable scores a benchmark index on four dimensions. Boundaries are
// inclusive on the more bullish band.
var MarketTable = Table{
	{
		Name: "change",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.ChangePct >= 2 }, Points: 3, Reason: textf("strong rally %+.2f%%", changePct)},
			{When: func(i types.IndicatorSet) bool { return i.ChangePct >= 0.5 }, Points: 1.5, Reason: textf("moderate gain %+.2f%%", changePct)},
			{When: func(i types.IndicatorSet) bool { return i.ChangePct >= -0.5 }, Points: 0, Reason: textf("flat session %+.2f%%", changePct)},
			{When: func(i types.IndicatorSet) bool { return i.ChangePct >= -2 }, Points: -1.5, Reason: textf("moderate decline %+.2f%%", changePct)},
			{When: always, Points: -3, Reason: textf("sharp decline %+.2f%%", changePct)},
		},
	},
	{
		Name: "moving_averages",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.Close > i.MA5 && i.MA5 > i.MA20 }, Points: 2, Reason: text("bullish alignment close > MA5 > MA20")},
			{When: func(i types.IndicatorSet) bool { return i.Close > i.MA20 }, Points: 1, Reason: text("close above MA20")},
			{When: func(i types.IndicatorSet) bool { return i.Close < i.MA5 && i.MA5 < i.MA20 }, Points: -2, Reason: text("bearish alignment close < MA5 < MA20")},
			{When: always, Points: -1, Reason: text("moving averages tangled")},
		},
	},
	{
		Name: "candlestick",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.Bullish() && i.BodyRatioPct > 60 }, Points: 2, Reason: textf("large green body %.0f%%", bodyRatio)},
			{When: func(i types.IndicatorSet) bool { return i.Bullish() }, Points: 1, Reason: textf("small green body %.0f%%", bodyRatio)},
			{When: func(i types.IndicatorSet) bool { return i.Bearish() && i.BodyRatioPct > 60 }, Points: -2, Reason: textf("large red body %.0f%%", bodyRatio)},
			{When: func(i types.IndicatorSet) bool { return i.Bearish() }, Points: -1, Reason: textf("small red body %.0f%%", bodyRatio)},
			{When: always, Points: 0, Reason: text("doji")},
		},
	},
	{
		Name: "volume_price",
		Rules: []Rule{
			{When: func(i types.IndicatorSet) bool { return i.VolumeRatio > 1.3 && i.Bullish() }, Points: 1, Reason: textf("green candle on volume %.2fx", volumeRatio)},
			{When: func(i types.IndicatorSet) bool { return i.VolumeRatio > 1.3 && i.Bearish() }, Points: -1, Reason: textf("red candle on volume %.2fx", volumeRatio)},
			{When: always, Points: 0, Reason: textf("volume unremarkable %.2fx", volumeRatio)},
		},
	},
}

// ScoreMarket applies MarketTable.
func ScoreMarket(ind types.IndicatorSet) Result {
	return MarketTable.Score(ind)
}
