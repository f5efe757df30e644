package ta

import (
	"math"

	"github.com/markcheno/go-talib"

	"strength-scanner/internal/types"
)

// MinBars is the shortest history Compute accepts.
const MinBars = 20

const volumeLookback = 5

// Compute derives the indicator set for the most recent bar of an
// oldest-to-newest history.
func Compute(bars []types.PriceBar) (types.IndicatorSet, error) {
	if len(bars) < MinBars {
		return types.IndicatorSet{}, &types.InsufficientHistoryError{Have: len(bars), Need: MinBars}
	}

	n := len(bars)
	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	cur, prev := bars[n-1], bars[n-2]
	ind := types.IndicatorSet{
		Date:      cur.Date,
		Open:      cur.Open,
		High:      cur.High,
		Low:       cur.Low,
		Close:     cur.Close,
		PrevClose: prev.Close,
		Volume:    cur.Volume,
		MA5:       last(talib.Sma(closes, 5)),
		MA10:      last(talib.Sma(closes, 10)),
		MA20:      last(talib.Sma(closes, 20)),
	}

	ind.ChangePct = pct(cur.Close-prev.Close, prev.Close)
	ind.AmplitudePct = pct(cur.High-cur.Low, prev.Close)

	if rng := cur.High - cur.Low; rng > 0 {
		ind.ClosePositionPct = (cur.Close - cur.Low) / rng * 100
		ind.BodyRatioPct = math.Abs(cur.Close-cur.Open) / rng * 100
		ind.UpperShadowPct = (cur.High - math.Max(cur.Open, cur.Close)) / rng * 100
		ind.LowerShadowPct = (math.Min(cur.Open, cur.Close) - cur.Low) / rng * 100
	}

	ind.VolumeRatio = VolumeRatio(bars)
	ind.BiasMA20Pct = pct(cur.Close-ind.MA20, ind.MA20)

	ind.RSI6 = last(talib.Rsi(closes, 6))
	if math.IsNaN(ind.RSI6) || math.IsInf(ind.RSI6, 0) {
		ind.RSI6 = 50
	}

	return ind, nil
}

// VolumeRatio divides the latest volume by the mean volume of the five bars
// before it. It is 0 when that mean is 0 or the history is too short.
func VolumeRatio(bars []types.PriceBar) float64 {
	n := len(bars)
	if n < volumeLookback+1 {
		return 0
	}
	sum := 0.0
	for _, b := range bars[n-1-volumeLookback : n-1] {
		sum += b.Volume
	}
	avg := sum / volumeLookback
	if avg == 0 {
		return 0
	}
	return bars[n-1].Volume / avg
}

func pct(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return delta / base * 100
}

func last(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}
