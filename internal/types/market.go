package types

import "time"

// PriceBar is one daily OHLCV bar. Feeds return bars ordered oldest to newest.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IndicatorSet holds everything derived from the latest bar of a history.
type IndicatorSet struct {
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	PrevClose float64   `json:"prev_close"`
	Volume    float64   `json:"volume"`

	MA5  float64 `json:"ma5"`
	MA10 float64 `json:"ma10"`
	MA20 float64 `json:"ma20"`

	ChangePct        float64 `json:"change_pct"`
	VolumeRatio      float64 `json:"volume_ratio"`
	AmplitudePct     float64 `json:"amplitude_pct"`
	ClosePositionPct float64 `json:"close_position_pct"`
	BodyRatioPct     float64 `json:"body_ratio_pct"`

	UpperShadowPct float64 `json:"upper_shadow_pct"`
	LowerShadowPct float64 `json:"lower_shadow_pct"`
	RSI6           float64 `json:"rsi6"`
	BiasMA20Pct    float64 `json:"bias_ma20_pct"`
}

// Bullish reports a green candle (close above open).
func (i IndicatorSet) Bullish() bool { return i.Close > i.Open }

// Bearish reports a red candle (close below open).
func (i IndicatorSet) Bearish() bool { return i.Close < i.Open }

// DimensionScore is the contribution of a single rule dimension.
type DimensionScore struct {
	Dimension    string  `json:"dimension"`
	Contribution float64 `json:"contribution"`
	Rationale    string  `json:"rationale"`
}

type SentimentLabel string

const (
	LabelBearish         SentimentLabel = "Bearish"
	LabelSomewhatBearish SentimentLabel = "Somewhat-Bearish"
	LabelNeutral         SentimentLabel = "Neutral"
	LabelSomewhatBullish SentimentLabel = "Somewhat-Bullish"
	LabelBullish         SentimentLabel = "Bullish"
)

// SentimentLabels lists the histogram buckets in display order.
var SentimentLabels = []SentimentLabel{
	LabelBearish, LabelSomewhatBearish, LabelNeutral, LabelSomewhatBullish, LabelBullish,
}

// SentimentEntry is one article as labelled by a sentiment feed.
type SentimentEntry struct {
	Title     string         `json:"title"`
	URL       string         `json:"url,omitempty"`
	Source    string         `json:"source,omitempty"`
	Published time.Time      `json:"published,omitempty"`
	Label     SentimentLabel `json:"label"`
	Score     float64        `json:"score"`
}

// SentimentScore is the aggregated market mood for one calendar date.
type SentimentScore struct {
	Date         string                 `json:"date"`
	Provider     string                 `json:"provider"`
	Raw          float64                `json:"raw"`
	Scaled       float64                `json:"scaled"`
	ArticleCount int                    `json:"article_count"`
	LabelCounts  map[SentimentLabel]int `json:"label_counts"`
	Mood         string                 `json:"mood"`
	Headlines    []SentimentEntry       `json:"headlines,omitempty"`
}

type Band string

const (
	BandRed    Band = "RED"
	BandYellow Band = "YELLOW"
	BandGreen  Band = "GREEN"
)

type MarketBand struct {
	Value Band    `json:"value"`
	Score float64 `json:"score"`
}

// CompositeScore blends technical and sentiment signals. Sentiment is nil
// when no sentiment applies, in which case WeightTechnical is 1.
type CompositeScore struct {
	Technical       float64  `json:"technical"`
	Sentiment       *float64 `json:"sentiment,omitempty"`
	WeightTechnical float64  `json:"weight_technical"`
	WeightSentiment float64  `json:"weight_sentiment"`
	Final           float64  `json:"final"`
}

type Action string

const (
	ActionAggressive Action = "aggressive full position"
	ActionSelective  Action = "selective half-position"
	ActionModerate   Action = "moderate position"
	ActionWatch      Action = "watch"
	ActionAvoid      Action = "avoid"
	ActionObserve    Action = "avoid / observe only"
)

type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

type SupportingScores struct {
	Technical   float64 `json:"technical"`
	Final       float64 `json:"final"`
	MarketScore float64 `json:"market_score"`
}

// Decision is the terminal output for one security.
type Decision struct {
	Band        Band             `json:"band"`
	Tier        Tier             `json:"tier"`
	Action      Action           `json:"action"`
	PositionPct float64          `json:"position_pct"`
	Strategy    string           `json:"strategy"`
	Supporting  SupportingScores `json:"supporting_scores"`
}

// Grade is the strength rating of a security's technical score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
)
