package sentiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strength-scanner/internal/types"
)

type fakeFeed struct {
	entries []types.SentimentEntry
	err     error
	calls   int
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) Fetch(ctx context.Context, q types.SentimentQuery) ([]types.SentimentEntry, error) {
	f.calls++
	return f.entries, f.err
}

var fixedDay = time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, feed *fakeFeed) (*Service, *Cache) {
	t.Helper()
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	svc := NewService(feed, cache)
	svc.now = func() time.Time { return fixedDay }
	return svc, cache
}

func TestServiceFetchesAndCaches(t *testing.T) {
	feed := &fakeFeed{entries: []types.SentimentEntry{{Title: "x", Label: types.LabelBullish, Score: 1}}}
	svc, cache := newTestService(t, feed)

	score, status := svc.Get(context.Background(), types.SentimentQuery{})
	require.NotNil(t, score)
	assert.Equal(t, types.SentimentAvailable, status.State)
	assert.Equal(t, 10.0, score.Scaled)
	assert.Equal(t, "2024-03-08", score.Date)
	assert.Equal(t, "fake", score.Provider)

	snap, ok, err := cache.Get("2024-03-08")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, snap.Entries, 1)

	again, _ := svc.Get(context.Background(), types.SentimentQuery{})
	require.NotNil(t, again)
	assert.Equal(t, 1, feed.calls)
}

func TestServiceDegradesOnRateLimit(t *testing.T) {
	feed := &fakeFeed{err: &types.RateLimitError{Provider: "fake", Message: "Note"}}
	svc, _ := newTestService(t, feed)

	score, status := svc.Get(context.Background(), types.SentimentQuery{})
	assert.Nil(t, score)
	assert.Equal(t, types.SentimentUnavailable, status.State)
	assert.Equal(t, "rate limit retries exhausted", status.Note)
}

func TestServiceDegradesOnEmptyBatch(t *testing.T) {
	svc, cache := newTestService(t, &fakeFeed{})

	score, status := svc.Get(context.Background(), types.SentimentQuery{})
	assert.Nil(t, score)
	assert.Equal(t, types.SentimentUnavailable, status.State)

	_, ok, err := cache.Get("2024-03-08")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceNotConfigured(t *testing.T) {
	svc := NotConfigured(&types.ConfigurationError{Setting: "sentiment api key", Reason: "not set"})

	score, status := svc.Get(context.Background(), types.SentimentQuery{})
	assert.Nil(t, score)
	assert.Equal(t, types.SentimentNotConfigured, status.State)
	assert.Contains(t, status.Note, "sentiment api key")
}

func TestCacheIsWriteOnce(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	first := Snapshot{Date: "2024-03-08", Provider: "a", Score: types.SentimentScore{Scaled: 7}}
	second := Snapshot{Date: "2024-03-08", Provider: "b", Score: types.SentimentScore{Scaled: 2}}

	stored, _, err := cache.Put(first)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, existing, err := cache.Put(second)
	require.NoError(t, err)
	assert.False(t, stored)
	require.NotNil(t, existing)
	assert.Equal(t, "a", existing.Provider)

	got, ok, err := cache.Get("2024-03-08")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7.0, got.Score.Scaled)
}

func TestCacheConcurrentPutsKeepOneSnapshot(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	storedCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, _, err := cache.Put(Snapshot{Date: "2024-03-09", Score: types.SentimentScore{ArticleCount: i}})
			assert.NoError(t, err)
			if stored {
				mu.Lock()
				storedCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, storedCount)

	files, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "2024-03-09.json")}, files)
}

func TestCacheGetCorrupt(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-10.json"), []byte("{"), 0o644))

	_, ok, err := cache.Get("2024-03-10")
	assert.False(t, ok)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
