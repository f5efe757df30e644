package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"strength-scanner/internal/scoring"
	"strength-scanner/internal/types"
)

const (
	PriceSourceYahoo  = "YAHOO"
	PriceSourceKite   = "KITE"
	PriceSourceStatic = "STATIC"

	SentimentAlphaVantage = "ALPHA_VANTAGE"
	SentimentScraper      = "SCRAPER"
	SentimentNone         = "NONE"
)

type Eligibility struct {
	MinPrice       float64 `yaml:"min_price"`
	MinVolumeRatio float64 `yaml:"min_volume_ratio"`
}

type Config struct {
	Run struct {
		Benchmark   string   `yaml:"benchmark"`
		Universe    []string `yaml:"universe"`
		Limit       int      `yaml:"limit"`
		Workers     int      `yaml:"workers"`
		HistoryDays int      `yaml:"history_days"`
		PriceSource string   `yaml:"price_source"`
		DataDir     string   `yaml:"data_dir"`
		Save        bool     `yaml:"save"`

		// RetentionDays after which journals and saved reports are gzipped.
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"run"`
	Scoring struct {
		Weights struct {
			Technical float64 `yaml:"technical"`
			Sentiment float64 `yaml:"sentiment"`
		} `yaml:"weights"`
		Bands struct {
			Green  float64 `yaml:"green"`
			Yellow float64 `yaml:"yellow"`
		} `yaml:"bands"`
		Tiers struct {
			High float64 `yaml:"high"`
			Mid  float64 `yaml:"mid"`
		} `yaml:"tiers"`
		Grades struct {
			S float64 `yaml:"s"`
			A float64 `yaml:"a"`
		} `yaml:"grades"`
		Positions struct {
			Full     float64 `yaml:"full"`
			Half     float64 `yaml:"half"`
			Moderate float64 `yaml:"moderate"`
			RedFloor float64 `yaml:"red_floor"`
		} `yaml:"positions"`
		Filters struct {
			Green  Eligibility `yaml:"green"`
			Yellow Eligibility `yaml:"yellow"`
			Red    Eligibility `yaml:"red"`
		} `yaml:"filters"`
	} `yaml:"scoring"`
	Sentiment struct {
		Provider          string   `yaml:"provider"`
		Topics            []string `yaml:"topics"`
		Tickers           []string `yaml:"tickers"`
		Limit             int      `yaml:"limit"`
		RequestsPerMinute float64  `yaml:"requests_per_minute"`
		RequestsPerDay    int      `yaml:"requests_per_day"`
		BackoffSeconds    int      `yaml:"rate_limit_backoff_seconds"`
		MaxRetries        int      `yaml:"max_retries"`
		TimeoutSeconds    int      `yaml:"timeout_seconds"`
		BaseURL           string   `yaml:"base_url"`
		APIKeyEnv         string   `yaml:"api_key_env"`
		HeadlineURLs      []string `yaml:"headline_urls"`
	} `yaml:"sentiment"`
	Price struct {
		YahooBaseURL   string `yaml:"yahoo_base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxAttempts    int    `yaml:"max_attempts"`
		Kite           struct {
			Exchange       string `yaml:"exchange"`
			APIKeyEnv      string `yaml:"api_key_env"`
			AccessTokenEnv string `yaml:"access_token_env"`
		} `yaml:"kite"`
	} `yaml:"price"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
}

// Default returns a configuration with every documented default filled in.
func Default() *Config {
	var c Config

	c.Run.Benchmark = "^GSPC"
	c.Run.Limit = 20
	c.Run.Workers = 4
	c.Run.HistoryDays = 60
	c.Run.PriceSource = PriceSourceYahoo
	c.Run.DataDir = "data"
	c.Run.RetentionDays = 30

	w := scoring.DefaultWeights()
	c.Scoring.Weights.Technical, c.Scoring.Weights.Sentiment = w.Technical, w.Sentiment
	b := scoring.DefaultBandThresholds()
	c.Scoring.Bands.Green, c.Scoring.Bands.Yellow = b.Green, b.Yellow
	t := scoring.DefaultTierThresholds()
	c.Scoring.Tiers.High, c.Scoring.Tiers.Mid = t.High, t.Mid
	g := scoring.DefaultGradeThresholds()
	c.Scoring.Grades.S, c.Scoring.Grades.A = g.S, g.A
	s := scoring.DefaultSizing()
	c.Scoring.Positions.Full, c.Scoring.Positions.Half = s.Full, s.Half
	c.Scoring.Positions.Moderate, c.Scoring.Positions.RedFloor = s.Moderate, s.RedFloor
	f := scoring.DefaultFilter()
	c.Scoring.Filters.Green = Eligibility(f[types.BandGreen])
	c.Scoring.Filters.Yellow = Eligibility(f[types.BandYellow])
	c.Scoring.Filters.Red = Eligibility(f[types.BandRed])

	c.Sentiment.Provider = SentimentAlphaVantage
	c.Sentiment.Topics = []string{"financial_markets"}
	c.Sentiment.Limit = 50
	c.Sentiment.RequestsPerMinute = 5
	c.Sentiment.RequestsPerDay = 500
	c.Sentiment.BackoffSeconds = 60
	c.Sentiment.MaxRetries = 2
	c.Sentiment.TimeoutSeconds = 30
	c.Sentiment.BaseURL = "https://www.alphavantage.co"
	c.Sentiment.APIKeyEnv = "ALPHA_VANTAGE_API_KEY"

	c.Price.YahooBaseURL = "https://query1.finance.yahoo.com"
	c.Price.TimeoutSeconds = 30
	c.Price.MaxAttempts = 3
	c.Price.Kite.Exchange = "NSE"
	c.Price.Kite.APIKeyEnv = "KITE_API_KEY"
	c.Price.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"

	c.Schedule.Cron = "0 30 16 * * 1-5"
	return &c
}

func (c *Config) Validate() error {
	if c.Run.Benchmark == "" {
		return errors.New("run.benchmark cannot be empty")
	}
	switch c.Run.PriceSource {
	case PriceSourceYahoo, PriceSourceKite, PriceSourceStatic:
	default:
		return fmt.Errorf("invalid run.price_source '%s': must be 'YAHOO', 'KITE' or 'STATIC'", c.Run.PriceSource)
	}
	if c.Run.Workers <= 0 {
		return fmt.Errorf("run.workers must be positive, got %d", c.Run.Workers)
	}
	if c.Run.Limit < 0 {
		return fmt.Errorf("run.limit cannot be negative, got %d", c.Run.Limit)
	}
	if c.Run.RetentionDays < 0 {
		return fmt.Errorf("run.retention_days cannot be negative, got %d", c.Run.RetentionDays)
	}
	if c.Run.HistoryDays < 21 {
		return fmt.Errorf("run.history_days must be at least 21, got %d", c.Run.HistoryDays)
	}
	switch c.Sentiment.Provider {
	case SentimentAlphaVantage, SentimentScraper, SentimentNone:
	default:
		return fmt.Errorf("invalid sentiment.provider '%s': must be 'ALPHA_VANTAGE', 'SCRAPER' or 'NONE'", c.Sentiment.Provider)
	}
	if c.Sentiment.RequestsPerMinute <= 0 {
		return fmt.Errorf("sentiment.requests_per_minute must be positive, got %.2f", c.Sentiment.RequestsPerMinute)
	}
	if c.Sentiment.RequestsPerDay <= 0 {
		return fmt.Errorf("sentiment.requests_per_day must be positive, got %d", c.Sentiment.RequestsPerDay)
	}
	if c.Sentiment.MaxRetries < 0 {
		return fmt.Errorf("sentiment.max_retries cannot be negative, got %d", c.Sentiment.MaxRetries)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if err := c.BandThresholds().Validate(); err != nil {
		return fmt.Errorf("scoring.bands: %w", err)
	}
	if err := c.Sizing().Validate(); err != nil {
		return fmt.Errorf("scoring.positions: %w", err)
	}
	if c.Scoring.Tiers.Mid >= c.Scoring.Tiers.High {
		return fmt.Errorf("scoring.tiers: mid (%.2f) must be below high (%.2f)", c.Scoring.Tiers.Mid, c.Scoring.Tiers.High)
	}
	if c.Scoring.Grades.A >= c.Scoring.Grades.S {
		return fmt.Errorf("scoring.grades: a (%.2f) must be below s (%.2f)", c.Scoring.Grades.A, c.Scoring.Grades.S)
	}
	return nil
}

// LoadConfig reads path over the defaults, applies environment overrides and
// validates. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyEnv()
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCANNER_DATA_DIR"); v != "" {
		c.Run.DataDir = v
	}
	if v := os.Getenv("SCANNER_PRICE_SOURCE"); v != "" {
		c.Run.PriceSource = v
	}
	if v := os.Getenv("SCANNER_SENTIMENT_PROVIDER"); v != "" {
		c.Sentiment.Provider = v
	}
}

func (c *Config) normalize() {
	c.Run.PriceSource = strings.ToUpper(c.Run.PriceSource)
	c.Sentiment.Provider = strings.ToUpper(c.Sentiment.Provider)
	for i, s := range c.Run.Universe {
		c.Run.Universe[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

// SentimentAPIKey resolves the sentiment provider key from the environment.
func (c *Config) SentimentAPIKey() string {
	return os.Getenv(c.Sentiment.APIKeyEnv)
}

func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{Technical: c.Scoring.Weights.Technical, Sentiment: c.Scoring.Weights.Sentiment}
}

func (c *Config) BandThresholds() scoring.BandThresholds {
	return scoring.BandThresholds{Green: c.Scoring.Bands.Green, Yellow: c.Scoring.Bands.Yellow}
}

func (c *Config) TierThresholds() scoring.TierThresholds {
	return scoring.TierThresholds{High: c.Scoring.Tiers.High, Mid: c.Scoring.Tiers.Mid}
}

func (c *Config) GradeThresholds() scoring.GradeThresholds {
	return scoring.GradeThresholds{S: c.Scoring.Grades.S, A: c.Scoring.Grades.A}
}

func (c *Config) Sizing() scoring.Sizing {
	p := c.Scoring.Positions
	return scoring.Sizing{Full: p.Full, Half: p.Half, Moderate: p.Moderate, RedFloor: p.RedFloor}
}

func (c *Config) Filter() scoring.Filter {
	f := c.Scoring.Filters
	return scoring.Filter{
		types.BandGreen:  scoring.Eligibility(f.Green),
		types.BandYellow: scoring.Eligibility(f.Yellow),
		types.BandRed:    scoring.Eligibility(f.Red),
	}
}

func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.Sentiment.TimeoutSeconds) * time.Second
}

func (c *Config) SentimentBackoff() time.Duration {
	return time.Duration(c.Sentiment.BackoffSeconds) * time.Second
}

func (c *Config) PriceTimeout() time.Duration {
	return time.Duration(c.Price.TimeoutSeconds) * time.Second
}
