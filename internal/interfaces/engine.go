package interfaces

import (
	"context"

	"strength-scanner/internal/types"
)

// Scanner gates the market and ranks a universe of securities.
type Scanner interface {
	Market(ctx context.Context, req types.RunRequest) (*types.MarketReport, error)
	Run(ctx context.Context, req types.RunRequest) (*types.Report, error)
}
