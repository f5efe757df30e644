package ta

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strength-scanner/internal/types"
)

func linearBars(n int) []types.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, n)
	for i := 0; i < n; i++ {
		c := float64(i + 1)
		bars[i] = types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 0.5,
			Low:    c - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return bars
}

func TestComputeMovingAverages(t *testing.T) {
	ind, err := Compute(linearBars(20))
	require.NoError(t, err)

	assert.InDelta(t, 18.0, ind.MA5, 1e-9)
	assert.InDelta(t, 15.5, ind.MA10, 1e-9)
	assert.InDelta(t, 10.5, ind.MA20, 1e-9)
	assert.Equal(t, 20.0, ind.Close)
	assert.Equal(t, 19.0, ind.PrevClose)
}

func TestComputeDerivedPercentages(t *testing.T) {
	bars := linearBars(20)
	// prev close 19; last bar spans 19..21, opens at 19.5, closes at 20.5
	bars[19] = types.PriceBar{Open: 19.5, High: 21, Low: 19, Close: 20.5, Volume: 100}

	ind, err := Compute(bars)
	require.NoError(t, err)

	assert.InDelta(t, 1.5/19*100, ind.ChangePct, 1e-9)
	assert.InDelta(t, 2.0/19*100, ind.AmplitudePct, 1e-9)
	assert.InDelta(t, 75.0, ind.ClosePositionPct, 1e-9)
	assert.InDelta(t, 50.0, ind.BodyRatioPct, 1e-9)
	assert.InDelta(t, 25.0, ind.UpperShadowPct, 1e-9)
	assert.InDelta(t, 25.0, ind.LowerShadowPct, 1e-9)
}

func TestComputeFlatBar(t *testing.T) {
	bars := linearBars(20)
	bars[19] = types.PriceBar{Open: 20, High: 20, Low: 20, Close: 20, Volume: 100}

	ind, err := Compute(bars)
	require.NoError(t, err)

	assert.Zero(t, ind.ClosePositionPct)
	assert.Zero(t, ind.BodyRatioPct)
	assert.Zero(t, ind.UpperShadowPct)
}

func TestVolumeRatioExcludesCurrentBar(t *testing.T) {
	bars := linearBars(20)
	for i := 14; i < 19; i++ {
		bars[i].Volume = 50
	}
	bars[19].Volume = 200

	assert.InDelta(t, 4.0, VolumeRatio(bars), 1e-9)
}

func TestVolumeRatioZeroAverage(t *testing.T) {
	bars := linearBars(20)
	for i := range bars {
		bars[i].Volume = 0
	}
	assert.Zero(t, VolumeRatio(bars))
}

func TestComputeInsufficientHistory(t *testing.T) {
	_, err := Compute(linearBars(15))
	require.Error(t, err)

	var ihe *types.InsufficientHistoryError
	require.True(t, errors.As(err, &ihe))
	assert.Equal(t, 15, ihe.Have)
	assert.Equal(t, MinBars, ihe.Need)
}

func TestComputeIsDeterministic(t *testing.T) {
	bars := linearBars(40)
	a, err := Compute(bars)
	require.NoError(t, err)
	b, err := Compute(bars)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
