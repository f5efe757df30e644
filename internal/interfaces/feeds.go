package interfaces

import (
	"context"

	"strength-scanner/internal/types"
)

// PriceFeed supplies daily bars ordered oldest to newest. Fetch failures are
// reported as *types.DataFetchError.
type PriceFeed interface {
	Name() string
	History(ctx context.Context, symbol string, bars int) ([]types.PriceBar, error)
}

// SentimentFeed supplies labelled articles.
type SentimentFeed interface {
	Name() string
	Fetch(ctx context.Context, q types.SentimentQuery) ([]types.SentimentEntry, error)
}
