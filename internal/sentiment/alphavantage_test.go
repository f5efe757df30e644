package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strength-scanner/internal/types"
)

const feedBody = `{
  "items": "2",
  "feed": [
    {"title": "Stocks climb", "url": "https://example.com/1", "time_published": "20240115T093000",
     "source": "Reuters", "overall_sentiment_score": 0.3, "overall_sentiment_label": "Somewhat-Bullish"},
    {"title": "Bonds slip", "url": "https://example.com/2", "time_published": "20240115T100000",
     "source": "Bloomberg", "overall_sentiment_score": -0.1, "overall_sentiment_label": "Neutral"}
  ]
}`

func testAlphaVantage(t *testing.T, url string, retries int) *AlphaVantage {
	t.Helper()
	av, err := NewAlphaVantage(AlphaVantageConfig{
		BaseURL:           url,
		APIKey:            "demo",
		RequestsPerMinute: 60000,
		Backoff:           time.Millisecond,
		MaxRetries:        retries,
		Timeout:           5 * time.Second,
	})
	require.NoError(t, err)
	return av
}

func TestAlphaVantageFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "NEWS_SENTIMENT", q.Get("function"))
		assert.Equal(t, "financial_markets,technology", q.Get("topics"))
		assert.Equal(t, "AAPL", q.Get("tickers"))
		assert.Equal(t, "LATEST", q.Get("sort"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "demo", q.Get("apikey"))
		w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	entries, err := testAlphaVantage(t, srv.URL, 0).Fetch(context.Background(), types.SentimentQuery{
		Topics:  []string{"financial_markets", "technology"},
		Tickers: []string{"AAPL"},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Stocks climb", entries[0].Title)
	assert.Equal(t, types.LabelSomewhatBullish, entries[0].Label)
	assert.Equal(t, 0.3, entries[0].Score)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), entries[0].Published)
}

func TestAlphaVantageRateLimitRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
			return
		}
		w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	entries, err := testAlphaVantage(t, srv.URL, 2).Fetch(context.Background(), types.SentimentQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.EqualValues(t, 2, calls)
}

func TestAlphaVantageRateLimitExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testAlphaVantage(t, srv.URL, 2).Fetch(context.Background(), types.SentimentQuery{})
	var rl *types.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.EqualValues(t, 3, calls)
}

func TestAlphaVantageDailyQuota(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"Information": "API rate limit reached"}`))
	}))
	defer srv.Close()

	av, err := NewAlphaVantage(AlphaVantageConfig{
		BaseURL:           srv.URL,
		APIKey:            "demo",
		RequestsPerMinute: 60000,
		RequestsPerDay:    2,
		Backoff:           time.Millisecond,
		MaxRetries:        5,
		Timeout:           5 * time.Second,
	})
	require.NoError(t, err)

	_, err = av.Fetch(context.Background(), types.SentimentQuery{})
	var rl *types.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Contains(t, rl.Message, "daily quota of 2 requests used")
	assert.EqualValues(t, 2, calls)

	_, err = av.Fetch(context.Background(), types.SentimentQuery{})
	require.True(t, errors.As(err, &rl))
	assert.EqualValues(t, 2, calls)
}

func TestAlphaVantageErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call"}`))
	}))
	defer srv.Close()

	_, err := testAlphaVantage(t, srv.URL, 2).Fetch(context.Background(), types.SentimentQuery{})
	var fe *types.DataFetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "Invalid API call")
}

func TestNewAlphaVantageWithoutKey(t *testing.T) {
	_, err := NewAlphaVantage(AlphaVantageConfig{})
	assert.True(t, types.IsConfigurationError(err))
}
