package sentiment

import (
	"strings"

	"strength-scanner/internal/scoring"
	"strength-scanner/internal/types"
)

const (
	MoodOptimistic  = "optimistic"
	MoodNeutral     = "neutral"
	MoodPessimistic = "pessimistic"

	moodThreshold = 0.15
	maxHeadlines  = 5
)

// NormalizeLabel maps a provider label onto the five known buckets. Unknown
// labels fold by substring, falling back to Neutral.
func NormalizeLabel(raw string) types.SentimentLabel {
	for _, l := range types.SentimentLabels {
		if strings.EqualFold(raw, string(l)) {
			return l
		}
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "bullish"):
		return types.LabelBullish
	case strings.Contains(lower, "bearish"):
		return types.LabelBearish
	default:
		return types.LabelNeutral
	}
}

// Aggregate reduces a batch of articles to one score. raw is the mean
// article score and scaled maps it linearly onto [0,10]. An empty batch
// returns types.ErrNoSentimentData.
func Aggregate(entries []types.SentimentEntry) (types.SentimentScore, error) {
	if len(entries) == 0 {
		return types.SentimentScore{}, types.ErrNoSentimentData
	}

	counts := make(map[types.SentimentLabel]int, len(types.SentimentLabels))
	for _, l := range types.SentimentLabels {
		counts[l] = 0
	}

	sum := 0.0
	for _, e := range entries {
		sum += scoring.Clamp(e.Score, -1, 1)
		counts[NormalizeLabel(string(e.Label))]++
	}
	raw := sum / float64(len(entries))

	n := min(len(entries), maxHeadlines)
	headlines := make([]types.SentimentEntry, n)
	copy(headlines, entries[:n])

	return types.SentimentScore{
		Raw:          raw,
		Scaled:       Scale(raw),
		ArticleCount: len(entries),
		LabelCounts:  counts,
		Mood:         Mood(raw),
		Headlines:    headlines,
	}, nil
}

// Scale maps a raw score in [-1,1] onto [0,10].
func Scale(raw float64) float64 {
	return scoring.Clamp((raw+1)*5, scoring.MinScore, scoring.MaxScore)
}

func Mood(raw float64) string {
	switch {
	case raw > moodThreshold:
		return MoodOptimistic
	case raw < -moodThreshold:
		return MoodPessimistic
	default:
		return MoodNeutral
	}
}
