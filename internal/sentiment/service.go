package sentiment

import (
	"context"
	"errors"
	"time"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/types"
)

// Status tells the report whether sentiment took part in scoring.
type Status struct {
	State string
	Note  string
}

// Service resolves the day's market sentiment, reusing the dated snapshot
// when present and degrading to "unavailable" on any provider failure.
type Service struct {
	feed      interfaces.SentimentFeed
	cache     *Cache
	configErr error
	now       func() time.Time
}

// NewService creates a service over feed. cache may be nil.
func NewService(feed interfaces.SentimentFeed, cache *Cache) *Service {
	return &Service{feed: feed, cache: cache, now: time.Now}
}

// NotConfigured returns a service that reports sentiment as not configured.
func NotConfigured(err error) *Service {
	return &Service{configErr: err, now: time.Now}
}

// Get never fails the run. A nil score means scoring must use technical weight only.
func (s *Service) Get(ctx context.Context, q types.SentimentQuery) (*types.SentimentScore, Status) {
	if s.feed == nil {
		note := "no sentiment provider"
		if s.configErr != nil {
			note = s.configErr.Error()
		}
		logger.Info(ctx, "Sentiment not configured, using technical score only", "reason", note)
		return nil, Status{State: types.SentimentNotConfigured, Note: note}
	}

	date := DateKey(s.now())
	if s.cache != nil {
		snap, ok, err := s.cache.Get(date)
		if err != nil {
			logger.Warn(ctx, "Failed to read sentiment snapshot", "date", date, "error", err)
		} else if ok {
			logger.Info(ctx, "Using cached sentiment snapshot", "date", date, "provider", snap.Provider)
			return &snap.Score, Status{State: types.SentimentAvailable, Note: "cached snapshot " + date}
		}
	}

	entries, err := s.feed.Fetch(ctx, q)
	if err != nil {
		logger.ErrorWithErr(ctx, "Sentiment fetch failed, degrading to technical only", err, "provider", s.feed.Name())
		return nil, Status{State: types.SentimentUnavailable, Note: describe(err)}
	}

	score, err := Aggregate(entries)
	if err != nil {
		logger.Warn(ctx, "Sentiment batch empty, degrading to technical only", "provider", s.feed.Name())
		return nil, Status{State: types.SentimentUnavailable, Note: describe(err)}
	}
	score.Date = date
	score.Provider = s.feed.Name()

	if s.cache != nil {
		stored, existing, err := s.cache.Put(Snapshot{
			Date:      date,
			Provider:  score.Provider,
			CreatedAt: s.now(),
			Score:     score,
			Entries:   entries,
		})
		switch {
		case err != nil:
			logger.Warn(ctx, "Failed to write sentiment snapshot", "date", date, "error", err)
		case !stored && existing != nil:
			logger.Info(ctx, "Sentiment snapshot already written for date, reusing it", "date", date)
			return &existing.Score, Status{State: types.SentimentAvailable, Note: "cached snapshot " + date}
		}
	}

	logger.Info(ctx, "Sentiment aggregated",
		"provider", score.Provider,
		"articles", score.ArticleCount,
		"raw", score.Raw,
		"scaled", score.Scaled,
		"mood", score.Mood,
	)
	return &score, Status{State: types.SentimentAvailable}
}

func describe(err error) string {
	var rl *types.RateLimitError
	var fe *types.DataFetchError
	switch {
	case errors.As(err, &rl):
		return "rate limit retries exhausted"
	case errors.Is(err, types.ErrNoSentimentData):
		return "no articles returned"
	case errors.As(err, &fe):
		return "fetch failed: " + fe.Err.Error()
	default:
		return err.Error()
	}
}
