package sentiment

import (
	"strings"
	"unicode"

	"strength-scanner/internal/types"
)

// Lexicon scores headlines by counting finance-specific positive and negative words.
type Lexicon struct {
	positive map[string]bool
	negative map[string]bool
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: wordSet(positiveWords),
		negative: wordSet(negativeWords),
	}
}

// Score returns (pos-neg)/(pos+neg), or 0 when no lexicon word is present.
func (l *Lexicon) Score(text string) float64 {
	pos, neg := 0, 0
	for _, w := range tokenize(text) {
		if l.positive[w] {
			pos++
		}
		if l.negative[w] {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// Label buckets a score using the provider's published cut points.
func Label(score float64) types.SentimentLabel {
	switch {
	case score <= -0.35:
		return types.LabelBearish
	case score <= -0.15:
		return types.LabelSomewhatBearish
	case score < 0.15:
		return types.LabelNeutral
	case score < 0.35:
		return types.LabelSomewhatBullish
	default:
		return types.LabelBullish
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var positiveWords = []string{
	"beat", "beats", "boost", "boosts", "breakout", "bull", "bullish", "climb", "climbs",
	"gain", "gains", "growth", "high", "highs", "improve", "improved", "jump", "jumps",
	"optimism", "optimistic", "outperform", "profit", "profitable", "rally", "rallies",
	"rebound", "rebounds", "record", "recovery", "rise", "rises", "robust", "soar", "soars",
	"solid", "strength", "strong", "stronger", "surge", "surges", "upbeat", "upgrade", "upgrades",
}

var negativeWords = []string{
	"bear", "bearish", "collapse", "concern", "concerns", "crash", "crisis", "cut", "cuts",
	"decline", "declines", "default", "downgrade", "downgrades", "downturn", "drop", "drops",
	"fall", "falls", "fear", "fears", "headwind", "headwinds", "loss", "losses", "low", "lows",
	"miss", "misses", "plunge", "plunges", "recession", "selloff", "sell-off", "slide", "slides",
	"slowdown", "slump", "slumps", "tumble", "tumbles", "volatile", "weak", "weaker", "worst",
}
