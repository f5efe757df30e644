package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strength-scanner/internal/scoring"
	"strength-scanner/internal/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "^GSPC", cfg.Run.Benchmark)
	assert.Equal(t, PriceSourceYahoo, cfg.Run.PriceSource)
	assert.Equal(t, scoring.DefaultWeights(), cfg.Weights())
	assert.Equal(t, scoring.DefaultSizing(), cfg.Sizing())
	assert.Equal(t, scoring.DefaultFilter(), cfg.Filter())
	assert.Equal(t, 60, cfg.Sentiment.BackoffSeconds)
	assert.Equal(t, 2, cfg.Sentiment.MaxRetries)
	assert.Equal(t, 500, cfg.Sentiment.RequestsPerDay)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
run:
  benchmark: "^NSEI"
  universe: [" reliance ", "tcs"]
  price_source: static
scoring:
  weights:
    technical: 0.6
    sentiment: 0.4
  positions:
    red_floor: 0.1
  filters:
    red:
      min_price: 20
      min_volume_ratio: 1
sentiment:
  provider: scraper
  topics: [technology]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "^NSEI", cfg.Run.Benchmark)
	assert.Equal(t, []string{"RELIANCE", "TCS"}, cfg.Run.Universe)
	assert.Equal(t, PriceSourceStatic, cfg.Run.PriceSource)
	assert.Equal(t, SentimentScraper, cfg.Sentiment.Provider)
	assert.Equal(t, []string{"technology"}, cfg.Sentiment.Topics)
	assert.Equal(t, 0.1, cfg.Sizing().RedFloor)
	assert.Equal(t, 1.0, cfg.Sizing().Full)
	assert.Equal(t, scoring.Eligibility{MinPrice: 20, MinVolumeRatio: 1}, cfg.Filter()[types.BandRed])
	assert.Equal(t, 5.0, cfg.Filter()[types.BandGreen].MinPrice)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SCANNER_DATA_DIR", "/tmp/scanner")
	t.Setenv("SCANNER_PRICE_SOURCE", "kite")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scanner", cfg.Run.DataDir)
	assert.Equal(t, PriceSourceKite, cfg.Run.PriceSource)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"weights":      "scoring:\n  weights:\n    technical: 0.5\n    sentiment: 0.3\n",
		"price source": "run:\n  price_source: bloomberg\n",
		"workers":      "run:\n  workers: 0\n",
		"bands":        "scoring:\n  bands:\n    green: 4\n    yellow: 6\n",
		"positions":    "scoring:\n  positions:\n    full: 2\n",
		"provider":     "sentiment:\n  provider: twitter\n",
		"daily quota":  "sentiment:\n  requests_per_day: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "run: [unclosed"))
	assert.Error(t, err)
}
