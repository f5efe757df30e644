package feedobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/trace"
	"strength-scanner/internal/types"
)

// observableFeed wraps a PriceFeed with observability (logging & tracing)
type observableFeed struct {
	feed interfaces.PriceFeed
}

// Compile-time interface check
var _ interfaces.PriceFeed = (*observableFeed)(nil)

// Wrap wraps a price feed with observability middleware
func Wrap(feed interfaces.PriceFeed) interfaces.PriceFeed {
	return &observableFeed{feed: feed}
}

func (of *observableFeed) Name() string { return of.feed.Name() }

// History fetches bars with observability
func (of *observableFeed) History(ctx context.Context, symbol string, bars int) ([]types.PriceBar, error) {
	ctx, span := trace.StartSpan(ctx, "pricefeed.History")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed", of.feed.Name()),
		attribute.String("symbol", symbol),
		attribute.Int("bars", bars),
	)

	logger.DebugSkip(ctx, 1, "Fetching price history", "feed", of.feed.Name(), "symbol", symbol, "count", bars)

	out, err := of.feed.History(ctx, symbol, bars)
	if err != nil {
		span.RecordError(err)
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch price history", err, "feed", of.feed.Name(), "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Price history fetched", "feed", of.feed.Name(), "symbol", symbol, "count", len(out))
	return out, nil
}
