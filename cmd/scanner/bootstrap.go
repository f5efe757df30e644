package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"strength-scanner/internal/engine"
	"strength-scanner/internal/engine/engineobs"
	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/pricefeed"
	"strength-scanner/internal/pricefeed/feedobs"
	"strength-scanner/internal/sentiment"
	"strength-scanner/internal/store"
	"strength-scanner/internal/trace"
	"strength-scanner/internal/types"
)

// initializeSystem loads .env and sets up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
		return nil, err
	}
	return cfg, nil
}

// initializePriceFeed returns the configured price feed with observability
func initializePriceFeed(ctx context.Context, cfg *store.Config) (interfaces.PriceFeed, error) {
	var feed interfaces.PriceFeed

	switch cfg.Run.PriceSource {
	case store.PriceSourceKite:
		kite, err := pricefeed.NewKite(pricefeed.KiteParams{
			APIKey:      os.Getenv(cfg.Price.Kite.APIKeyEnv),
			AccessToken: os.Getenv(cfg.Price.Kite.AccessTokenEnv),
			Exchange:    cfg.Price.Kite.Exchange,
			Timeout:     cfg.PriceTimeout(),
			MaxAttempts: cfg.Price.MaxAttempts,
		})
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "Using Kite historical candles", "exchange", cfg.Price.Kite.Exchange)
		feed = kite
	case store.PriceSourceStatic:
		logger.Warn(ctx, "Using STATIC synthetic candles - scores are not market data")
		feed = pricefeed.NewStatic(time.Now())
	default:
		logger.Info(ctx, "Using Yahoo chart API", "base_url", cfg.Price.YahooBaseURL)
		feed = pricefeed.NewYahoo(pricefeed.YahooConfig{
			BaseURL:     cfg.Price.YahooBaseURL,
			Timeout:     cfg.PriceTimeout(),
			MaxAttempts: cfg.Price.MaxAttempts,
		})
	}

	return feedobs.Wrap(feed), nil
}

// initializeSentiment returns the sentiment service. A missing key or a
// disabled provider yields a service that reports "not configured".
func initializeSentiment(ctx context.Context, cfg *store.Config) *sentiment.Service {
	cache, err := sentiment.NewCache(filepath.Join(cfg.Run.DataDir, "sentiment"))
	if err != nil {
		logger.Warn(ctx, "Sentiment snapshots disabled", "error", err)
		cache = nil
	}

	switch cfg.Sentiment.Provider {
	case store.SentimentNone:
		return sentiment.NotConfigured(&types.ConfigurationError{Setting: "sentiment.provider", Reason: "disabled"})
	case store.SentimentScraper:
		sources := sentiment.DefaultHeadlineSources()
		if len(cfg.Sentiment.HeadlineURLs) > 0 {
			sources = sentiment.SourcesFromURLs(cfg.Sentiment.HeadlineURLs)
		}
		return sentiment.NewService(sentiment.NewHeadlineScraper(sources, cfg.SentimentTimeout()), cache)
	default:
		av, err := sentiment.NewAlphaVantage(sentiment.AlphaVantageConfig{
			BaseURL:           cfg.Sentiment.BaseURL,
			APIKey:            cfg.SentimentAPIKey(),
			RequestsPerMinute: cfg.Sentiment.RequestsPerMinute,
			RequestsPerDay:    cfg.Sentiment.RequestsPerDay,
			Backoff:           cfg.SentimentBackoff(),
			MaxRetries:        cfg.Sentiment.MaxRetries,
			Timeout:           cfg.SentimentTimeout(),
		})
		if err != nil {
			logger.Warn(ctx, "Sentiment provider not configured - scoring on technicals only",
				"provider", cfg.Sentiment.Provider,
				"api_key_env", cfg.Sentiment.APIKeyEnv,
			)
			return sentiment.NotConfigured(err)
		}
		return sentiment.NewService(av, cache)
	}
}

// initializeScanner builds the engine with observability
func initializeScanner(ctx context.Context) (*store.Config, interfaces.Scanner, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	prices, err := initializePriceFeed(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(cfg, prices, initializeSentiment(ctx, cfg))
	return cfg, engineobs.Wrap(eng), nil
}
