package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/scoring"
	"strength-scanner/internal/sentiment"
	"strength-scanner/internal/store"
	"strength-scanner/internal/ta"
	"strength-scanner/internal/types"
)

// Engine gates the market on a benchmark and ranks a universe under the
// resulting band.
type Engine struct {
	cfg        *store.Config
	prices     interfaces.PriceFeed
	sentiment  *sentiment.Service
	gate       *scoring.Gate
	classifier *scoring.Classifier
	filter     scoring.Filter
	grades     scoring.GradeThresholds
	now        func() time.Time
	newRunID   func() string
}

var _ interfaces.Scanner = (*Engine)(nil)

func newEngine(cfg *store.Config, prices interfaces.PriceFeed, sent *sentiment.Service) *Engine {
	if sent == nil {
		sent = sentiment.NotConfigured(nil)
	}
	return &Engine{
		cfg:        cfg,
		prices:     prices,
		sentiment:  sent,
		gate:       scoring.NewGate(cfg.Weights(), cfg.BandThresholds()),
		classifier: scoring.NewClassifier(cfg.Sizing(), cfg.TierThresholds()),
		filter:     cfg.Filter(),
		grades:     cfg.GradeThresholds(),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// Market evaluates the environment gate. A benchmark that cannot be fetched
// or is too short fails the call; missing sentiment only degrades it.
func (e *Engine) Market(ctx context.Context, req types.RunRequest) (*types.MarketReport, error) {
	benchmark := e.benchmark(req)

	bars, err := e.prices.History(ctx, benchmark, e.cfg.Run.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", benchmark, err)
	}
	ind, err := ta.Compute(bars)
	if err != nil {
		var ih *types.InsufficientHistoryError
		if errors.As(err, &ih) {
			ih.Symbol = benchmark
		}
		return nil, fmt.Errorf("benchmark %s: %w", benchmark, err)
	}

	score, status := e.sentiment.Get(ctx, e.sentimentQuery(req))
	a := e.gate.Assess(ind, score)

	logger.Gate(ctx, benchmark, string(a.Band.Value), a.Composite.Final,
		"technical", a.Technical.Total,
		"raw", a.Technical.Raw,
		"sentiment", status.State,
		"weight_technical", a.Composite.WeightTechnical,
	)

	return &types.MarketReport{
		Symbol:          benchmark,
		Indicators:      ind,
		Dimensions:      a.Technical.Dimensions,
		Technical:       a.Technical.Total,
		SentimentStatus: status.State,
		SentimentNote:   status.Note,
		Sentiment:       score,
		Composite:       a.Composite,
		Band:            a.Band,
		Strategy:        scoring.Strategy(a.Band.Value),
		RiskTips:        scoring.RiskTips(a.Band.Value),
	}, nil
}

// Run gates the market, then scores every symbol on a bounded worker pool.
// A failing symbol is recorded as a skip and never aborts the run.
func (e *Engine) Run(ctx context.Context, req types.RunRequest) (*types.Report, error) {
	symbols := normalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		symbols = normalizeSymbols(e.cfg.Run.Universe)
	}
	if len(symbols) == 0 {
		return nil, &types.ConfigurationError{Setting: "run.universe", Reason: "no symbols to scan"}
	}

	market, err := e.Market(ctx, req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Run.Workers, 1))

	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.scoreSecurity(gctx, symbol, market.Band)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &types.Report{
		RunID:       e.newRunID(),
		GeneratedAt: e.now(),
		Market:      *market,
		Results:     make([]types.SecurityResult, 0, len(symbols)),
		Skipped:     make([]types.Skip, 0),
	}
	for _, o := range outcomes {
		if o.skip != nil {
			report.Skipped = append(report.Skipped, *o.skip)
			continue
		}
		report.Results = append(report.Results, *o.result)
	}

	rank(report.Results)
	sort.SliceStable(report.Skipped, func(i, j int) bool { return report.Skipped[i].Symbol < report.Skipped[j].Symbol })

	if limit := e.limit(req); limit > 0 && len(report.Results) > limit {
		report.Results = report.Results[:limit]
	}
	return report, nil
}

type outcome struct {
	result *types.SecurityResult
	skip   *types.Skip
}

func (e *Engine) scoreSecurity(ctx context.Context, symbol string, band types.MarketBand) outcome {
	skip := func(reason string, err error) outcome {
		logger.Skip(ctx, symbol, reason, "error", err)
		return outcome{skip: &types.Skip{Symbol: symbol, Reason: reason, Detail: err.Error()}}
	}

	bars, err := e.prices.History(ctx, symbol, e.cfg.Run.HistoryDays)
	if err != nil {
		return skip(types.SkipFetchFailed, err)
	}

	ind, err := ta.Compute(bars)
	if err != nil {
		var ih *types.InsufficientHistoryError
		if errors.As(err, &ih) {
			ih.Symbol = symbol
			return skip(types.SkipInsufficientHistory, ih)
		}
		return skip(types.SkipFetchFailed, err)
	}

	if reason, ok := e.filter.Check(band.Value, ind); !ok {
		return skip(types.SkipFiltered, errors.New(reason))
	}

	res := scoring.ScoreSecurity(ind)
	comp, err := scoring.Compose(&res)
	if err != nil {
		return skip(types.SkipMissingScore, err)
	}

	decision := e.classifier.Classify(comp.Final, band)
	grade := e.grades.Grade(comp.Final)

	logger.Decision(ctx, symbol, string(decision.Action), comp.Final, decision.PositionPct,
		"band", string(decision.Band),
		"tier", string(decision.Tier),
		"grade", string(grade),
	)

	return outcome{result: &types.SecurityResult{
		Symbol:     symbol,
		Indicators: ind,
		Dimensions: res.Dimensions,
		Technical:  res.Total,
		Grade:      grade,
		Composite:  comp,
		Decision:   decision,
	}}
}

// rank orders results by final score, highest first, breaking ties by symbol.
func rank(results []types.SecurityResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Composite.Final, results[j].Composite.Final
		if a != b {
			return a > b
		}
		return results[i].Symbol < results[j].Symbol
	})
}
