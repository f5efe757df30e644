package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"strength-scanner/internal/types"
)

func strongSecurity() types.IndicatorSet {
	return types.IndicatorSet{
		Open:             10,
		High:             11.1,
		Low:              9.9,
		Close:            11,
		PrevClose:        10.2,
		MA5:              10.5,
		MA10:             10.2,
		MA20:             9.8,
		VolumeRatio:      2.1,
		AmplitudePct:     5,
		ClosePositionPct: 92,
		BodyRatioPct:     83,
		UpperShadowPct:   8,
	}
}

func TestScoreSecurityMaximum(t *testing.T) {
	res := ScoreSecurity(strongSecurity())

	assert.Len(t, res.Dimensions, 6)
	assert.Equal(t, 10.0, res.Total)
	names := make([]string, 0, 6)
	for _, d := range res.Dimensions {
		names = append(names, d.Dimension)
	}
	assert.Equal(t, []string{"trend", "candlestick", "volume_price", "intraday", "order_book", "close_auction"}, names)
}

func TestScoreSecurityWeak(t *testing.T) {
	ind := types.IndicatorSet{
		Open: 10, Close: 9.5, MA5: 9.8, MA10: 9.9, MA20: 10,
		VolumeRatio: 0.9, AmplitudePct: 1.5, ClosePositionPct: 20, BodyRatioPct: 60,
	}
	res := ScoreSecurity(ind)
	assert.Equal(t, 0.0, res.Total)
}

func TestSecurityDimensionBoundaries(t *testing.T) {
	trend, candle, volume, _, book, auction := SecurityTable[0], SecurityTable[1], SecurityTable[2], SecurityTable[3], SecurityTable[4], SecurityTable[5]

	assert.Equal(t, 1.0, trend.Evaluate(types.IndicatorSet{Close: 11, MA5: 10, MA10: 10, MA20: 9}).Contribution)

	assert.Equal(t, 1.0, candle.Evaluate(types.IndicatorSet{Open: 10, Close: 11, BodyRatioPct: 50, UpperShadowPct: 10}).Contribution)
	assert.Equal(t, 1.0, candle.Evaluate(types.IndicatorSet{Open: 10, Close: 11, BodyRatioPct: 70, UpperShadowPct: 25}).Contribution)

	assert.Equal(t, 1.0, volume.Evaluate(types.IndicatorSet{Open: 11, Close: 10, VolumeRatio: 1.8}).Contribution)
	assert.Equal(t, 0.0, volume.Evaluate(types.IndicatorSet{Open: 10, Close: 11, VolumeRatio: 1.2}).Contribution)

	assert.Equal(t, 0.0, book.Evaluate(types.IndicatorSet{AmplitudePct: 2}).Contribution)
	assert.Equal(t, 0.0, book.Evaluate(types.IndicatorSet{AmplitudePct: 8}).Contribution)
	assert.Equal(t, 1.0, book.Evaluate(types.IndicatorSet{AmplitudePct: 7.99}).Contribution)

	assert.Equal(t, 1.0, auction.Evaluate(types.IndicatorSet{ClosePositionPct: 80}).Contribution)
	assert.Equal(t, 0.0, auction.Evaluate(types.IndicatorSet{ClosePositionPct: 60}).Contribution)
}

func TestGradeBoundaries(t *testing.T) {
	g := DefaultGradeThresholds()
	cases := []struct {
		total float64
		want  types.Grade
	}{
		{10, types.GradeS},
		{8, types.GradeS},
		{7.9, types.GradeA},
		{6, types.GradeA},
		{5.9, types.GradeB},
		{0, types.GradeB},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, g.Grade(tc.total), "total=%.1f", tc.total)
	}
}
