package types

import "time"

// Sentiment availability markers shown in reports.
const (
	SentimentAvailable     = "available"
	SentimentUnavailable   = "unavailable"
	SentimentNotConfigured = "not configured"
)

// Skip reasons.
const (
	SkipInsufficientHistory = "insufficient_history"
	SkipFetchFailed         = "fetch_failed"
	SkipFiltered            = "filtered"
	SkipMissingScore        = "missing_technical_score"
)

// MarketReport is the benchmark gate outcome of a run.
type MarketReport struct {
	Symbol          string           `json:"symbol"`
	Indicators      IndicatorSet     `json:"indicators"`
	Dimensions      []DimensionScore `json:"dimensions"`
	Technical       float64          `json:"technical"`
	SentimentStatus string           `json:"sentiment_status"`
	SentimentNote   string           `json:"sentiment_note,omitempty"`
	Sentiment       *SentimentScore  `json:"sentiment,omitempty"`
	Composite       CompositeScore   `json:"composite"`
	Band            MarketBand       `json:"band"`
	Strategy        string           `json:"strategy"`
	RiskTips        []string         `json:"risk_tips"`
}

// SecurityResult is one scored security.
type SecurityResult struct {
	Symbol     string           `json:"symbol"`
	Indicators IndicatorSet     `json:"indicators"`
	Dimensions []DimensionScore `json:"dimensions"`
	Technical  float64          `json:"technical"`
	Grade      Grade            `json:"grade"`
	Composite  CompositeScore   `json:"composite"`
	Decision   Decision         `json:"decision"`
}

// Skip records why a security was excluded from the ranking.
type Skip struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Report is the structured output of a run.
type Report struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Market      MarketReport     `json:"market"`
	Results     []SecurityResult `json:"results"`
	Skipped     []Skip           `json:"skipped"`
}

// Top returns results with the given grade, in ranking order.
func (r *Report) Top(g Grade) []SecurityResult {
	out := make([]SecurityResult, 0)
	for _, res := range r.Results {
		if res.Grade == g {
			out = append(out, res)
		}
	}
	return out
}

// RunRequest is the input of a scan.
type RunRequest struct {
	Benchmark string   `json:"benchmark"`
	Symbols   []string `json:"symbols"`
	Topics    []string `json:"topics,omitempty"`
	Tickers   []string `json:"tickers,omitempty"`
	Limit     int      `json:"limit"`
}

// SentimentQuery selects articles from a sentiment feed.
type SentimentQuery struct {
	Topics  []string
	Tickers []string
	Limit   int
}
