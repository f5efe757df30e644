package sentiment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"strength-scanner/internal/api"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/types"
)

const alphaVantageTimeLayout = "20060102T150405"

// AlphaVantageConfig configures the NEWS_SENTIMENT client.
type AlphaVantageConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute float64
	RequestsPerDay    int
	Backoff           time.Duration
	MaxRetries        int
	Timeout           time.Duration
}

// AlphaVantage fetches labelled news from the Alpha Vantage NEWS_SENTIMENT endpoint.
// Requests are throttled client side and provider throttling is retried
// after a fixed backoff.
type AlphaVantage struct {
	client     *api.Client
	apiKey     string
	limiter    *rate.Limiter
	daily      *rate.Limiter
	perDay     int
	backoff    time.Duration
	maxRetries int
}

// NewAlphaVantage returns a *types.ConfigurationError when no API key is set.
func NewAlphaVantage(cfg AlphaVantageConfig) (*AlphaVantage, error) {
	if cfg.APIKey == "" {
		return nil, &types.ConfigurationError{Setting: "sentiment api key", Reason: "not set"}
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 5
	}
	if cfg.RequestsPerDay <= 0 {
		cfg.RequestsPerDay = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &AlphaVantage{
		client: api.NewClient(
			api.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
			api.WithTimeout(cfg.Timeout),
			api.WithHeaders(api.JSONHeaders()),
			api.WithLogging(true),
		),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1),
		daily:      rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(cfg.RequestsPerDay)), cfg.RequestsPerDay),
		perDay:     cfg.RequestsPerDay,
		backoff:    cfg.Backoff,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

type newsFeed struct {
	Items        string     `json:"items"`
	Feed         []newsItem `json:"feed"`
	Note         string     `json:"Note"`
	Information  string     `json:"Information"`
	ErrorMessage string     `json:"Error Message"`
}

type newsItem struct {
	Title                 string  `json:"title"`
	URL                   string  `json:"url"`
	TimePublished         string  `json:"time_published"`
	Source                string  `json:"source"`
	OverallSentimentScore float64 `json:"overall_sentiment_score"`
	OverallSentimentLabel string  `json:"overall_sentiment_label"`
}

// Fetch returns up to q.Limit articles. Provider throttling is retried
// maxRetries times after the backoff, then surfaced as *types.RateLimitError.
// Every attempt draws on the daily quota; an empty quota fails without waiting.
func (a *AlphaVantage) Fetch(ctx context.Context, q types.SentimentQuery) ([]types.SentimentEntry, error) {
	for attempt := 0; ; attempt++ {
		if !a.daily.Allow() {
			return nil, &types.RateLimitError{
				Provider:   a.Name(),
				Message:    fmt.Sprintf("daily quota of %d requests used", a.perDay),
				RetryAfter: 24 * time.Hour / time.Duration(a.perDay),
			}
		}

		entries, err := a.fetchOnce(ctx, q)
		var rl *types.RateLimitError
		if !errors.As(err, &rl) || attempt >= a.maxRetries {
			return entries, err
		}

		logger.Warn(ctx, "Sentiment provider rate limited, backing off",
			"provider", a.Name(),
			"attempt", attempt+1,
			"max_retries", a.maxRetries,
			"backoff_s", a.backoff.Seconds(),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.backoff):
		}
	}
}

func (a *AlphaVantage) fetchOnce(ctx context.Context, q types.SentimentQuery) ([]types.SentimentEntry, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("sort", "LATEST")
	params.Set("apikey", a.apiKey)
	if len(q.Topics) > 0 {
		params.Set("topics", strings.Join(q.Topics, ","))
	}
	if len(q.Tickers) > 0 {
		params.Set("tickers", strings.Join(q.Tickers, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	resp, err := a.client.Get(ctx, "/query", params)
	if err != nil {
		if api.IsTooManyRequests(err) {
			return nil, &types.RateLimitError{Provider: a.Name(), Message: "HTTP 429", RetryAfter: a.backoff}
		}
		return nil, &types.DataFetchError{Source: a.Name(), Err: err}
	}

	var feed newsFeed
	if err := resp.ParseJSON(&feed); err != nil {
		return nil, &types.DataFetchError{Source: a.Name(), Err: err}
	}

	switch {
	case feed.Note != "":
		return nil, &types.RateLimitError{Provider: a.Name(), Message: feed.Note, RetryAfter: a.backoff}
	case feed.Information != "":
		return nil, &types.RateLimitError{Provider: a.Name(), Message: feed.Information, RetryAfter: a.backoff}
	case feed.ErrorMessage != "":
		return nil, &types.DataFetchError{Source: a.Name(), Err: errors.New(feed.ErrorMessage)}
	}

	entries := make([]types.SentimentEntry, 0, len(feed.Feed))
	for _, item := range feed.Feed {
		if q.Limit > 0 && len(entries) >= q.Limit {
			break
		}
		published, _ := time.Parse(alphaVantageTimeLayout, item.TimePublished)
		entries = append(entries, types.SentimentEntry{
			Title:     item.Title,
			URL:       item.URL,
			Source:    item.Source,
			Published: published,
			Label:     NormalizeLabel(item.OverallSentimentLabel),
			Score:     item.OverallSentimentScore,
		})
	}

	logger.Debug(ctx, "Fetched sentiment feed", "provider", a.Name(), "articles", len(entries))
	return entries, nil
}
