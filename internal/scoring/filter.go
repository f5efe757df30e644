package scoring

import (
	"fmt"

	"strength-scanner/internal/types"
)

// Eligibility is the minimum price and volume ratio a security needs before
// it is scored under a band.
type Eligibility struct {
	MinPrice       float64
	MinVolumeRatio float64
}

// Filter holds per-band eligibility.
type Filter map[types.Band]Eligibility

func DefaultFilter() Filter {
	return Filter{
		types.BandGreen:  {MinPrice: 5, MinVolumeRatio: 0.5},
		types.BandYellow: {MinPrice: 8, MinVolumeRatio: 0.6},
		types.BandRed:    {MinPrice: 10, MinVolumeRatio: 0.8},
	}
}

// Check returns a non-empty reason when the security is not eligible under band.
func (f Filter) Check(band types.Band, ind types.IndicatorSet) (string, bool) {
	e, ok := f[band]
	if !ok {
		return "", true
	}
	if ind.Close < e.MinPrice {
		return fmt.Sprintf("price %.2f below %.2f for %s band", ind.Close, e.MinPrice, band), false
	}
	if ind.VolumeRatio < e.MinVolumeRatio {
		return fmt.Sprintf("volume ratio %.2f below %.2f for %s band", ind.VolumeRatio, e.MinVolumeRatio, band), false
	}
	return "", true
}
