package pricefeed

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/types"
)

var _ interfaces.PriceFeed = (*Static)(nil)

// Static generates synthetic daily bars for dry runs. The series for a
// symbol depends only on the symbol and the anchor date.
type Static struct {
	anchor time.Time
}

// NewStatic anchors generated histories at the given day. A zero anchor
// means today.
func NewStatic(anchor time.Time) *Static {
	if anchor.IsZero() {
		anchor = time.Now()
	}
	y, m, d := anchor.UTC().Date()
	return &Static{anchor: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (s *Static) Name() string { return "static" }

func (s *Static) History(ctx context.Context, symbol string, bars int) ([]types.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bars <= 0 {
		return nil, nil
	}

	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	base := 50 + rng.Float64()*950
	drift := (rng.Float64() - 0.45) * 0.01

	out := make([]types.PriceBar, bars)
	day := s.anchor
	for i := bars - 1; i >= 0; i-- {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, -1)
		}
		out[i].Date = day
		day = day.AddDate(0, 0, -1)
	}

	price := base
	for i := range out {
		open := price * (1 + (rng.Float64()-0.5)*0.01)
		c := open * (1 + drift + (rng.Float64()-0.5)*0.03)
		hi := max(open, c) * (1 + rng.Float64()*0.01)
		lo := min(open, c) * (1 - rng.Float64()*0.01)

		out[i].Open = open
		out[i].High = hi
		out[i].Low = lo
		out[i].Close = c
		out[i].Volume = 1e5 + rng.Float64()*9e5
		price = c
	}
	return out, nil
}
