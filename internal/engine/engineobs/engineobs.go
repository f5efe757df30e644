package engineobs

import (
	"context"
	"time"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/trace"
	"strength-scanner/internal/types"
)

type observableScanner struct {
	scanner interfaces.Scanner
}

var _ interfaces.Scanner = (*observableScanner)(nil)

func Wrap(s interfaces.Scanner) interfaces.Scanner {
	return &observableScanner{
		scanner: s,
	}
}

func (o *observableScanner) Market(ctx context.Context, req types.RunRequest) (*types.MarketReport, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Market")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Evaluating market environment",
		"benchmark", req.Benchmark,
	)

	market, err := o.scanner.Market(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Market evaluation failed", err,
			"benchmark", req.Benchmark,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Market evaluation completed",
		"benchmark", market.Symbol,
		"band", market.Band.Value,
		"composite", market.Composite.Final,
		"sentiment", market.SentimentStatus,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return market, nil
}

func (o *observableScanner) Run(ctx context.Context, req types.RunRequest) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting scan",
		"benchmark", req.Benchmark,
		"symbols", len(req.Symbols),
	)

	report, err := o.scanner.Run(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Scan failed", err,
			"benchmark", req.Benchmark,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Scan completed",
		"run_id", report.RunID,
		"band", report.Market.Band.Value,
		"ranked", len(report.Results),
		"skipped", len(report.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
