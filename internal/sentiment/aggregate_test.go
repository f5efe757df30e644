package sentiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strength-scanner/internal/types"
)

func TestAggregate(t *testing.T) {
	entries := []types.SentimentEntry{
		{Title: "a", Label: types.LabelBullish, Score: 0.6},
		{Title: "b", Label: types.LabelSomewhatBullish, Score: 0.2},
		{Title: "c", Label: types.LabelNeutral, Score: 0},
		{Title: "d", Label: types.LabelBearish, Score: -0.4},
	}

	s, err := Aggregate(entries)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, s.Raw, 1e-9)
	assert.InDelta(t, 5.5, s.Scaled, 1e-9)
	assert.Equal(t, 4, s.ArticleCount)
	assert.Equal(t, MoodNeutral, s.Mood)
	assert.Equal(t, 1, s.LabelCounts[types.LabelBullish])
	assert.Equal(t, 1, s.LabelCounts[types.LabelBearish])
	assert.Equal(t, 0, s.LabelCounts[types.LabelSomewhatBearish])
	assert.Len(t, s.LabelCounts, 5)
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.True(t, errors.Is(err, types.ErrNoSentimentData))
}

func TestAggregateKeepsFiveHeadlines(t *testing.T) {
	entries := make([]types.SentimentEntry, 8)
	for i := range entries {
		entries[i] = types.SentimentEntry{Title: string(rune('a' + i)), Label: types.LabelNeutral}
	}
	s, err := Aggregate(entries)
	require.NoError(t, err)
	require.Len(t, s.Headlines, 5)
	assert.Equal(t, "a", s.Headlines[0].Title)
}

func TestScaleIsBoundedAndMonotonic(t *testing.T) {
	prev := -1.0
	for raw := -1.5; raw <= 1.5; raw += 0.01 {
		v := Scale(raw)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 10.0)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
	assert.Equal(t, 0.0, Scale(-1))
	assert.Equal(t, 5.0, Scale(0))
	assert.Equal(t, 10.0, Scale(1))
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]types.SentimentLabel{
		"Bullish":          types.LabelBullish,
		"somewhat-bullish": types.LabelSomewhatBullish,
		"Somewhat-Bearish": types.LabelSomewhatBearish,
		"Very Bullish":     types.LabelBullish,
		"mildly bearish":   types.LabelBearish,
		"Mixed":            types.LabelNeutral,
		"":                 types.LabelNeutral,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLabel(in), "label %q", in)
	}
}

func TestMood(t *testing.T) {
	assert.Equal(t, MoodOptimistic, Mood(0.16))
	assert.Equal(t, MoodNeutral, Mood(0.15))
	assert.Equal(t, MoodNeutral, Mood(-0.15))
	assert.Equal(t, MoodPessimistic, Mood(-0.16))
}

func TestLexicon(t *testing.T) {
	l := NewLexicon()
	assert.Equal(t, 1.0, l.Score("Stocks rally to record highs"))
	assert.Equal(t, -1.0, l.Score("Shares tumble as recession fears grow"))
	assert.Equal(t, 0.0, l.Score("Fed meeting scheduled for Wednesday"))
	assert.Equal(t, 0.0, l.Score("Gains fade into losses"))

	assert.Equal(t, types.LabelBullish, Label(1))
	assert.Equal(t, types.LabelSomewhatBullish, Label(0.2))
	assert.Equal(t, types.LabelNeutral, Label(0))
	assert.Equal(t, types.LabelSomewhatBearish, Label(-0.2))
	assert.Equal(t, types.LabelBearish, Label(-1))
}
