package engine

import (
	"strings"

	"strength-scanner/internal/types"
)

func (e *Engine) benchmark(req types.RunRequest) string {
	if b := strings.TrimSpace(req.Benchmark); b != "" {
		return b
	}
	return e.cfg.Run.Benchmark
}

func (e *Engine) limit(req types.RunRequest) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return e.cfg.Run.Limit
}

func (e *Engine) sentimentQuery(req types.RunRequest) types.SentimentQuery {
	q := types.SentimentQuery{
		Topics:  req.Topics,
		Tickers: req.Tickers,
		Limit:   e.cfg.Sentiment.Limit,
	}
	if len(q.Topics) == 0 {
		q.Topics = e.cfg.Sentiment.Topics
	}
	if len(q.Tickers) == 0 {
		q.Tickers = e.cfg.Sentiment.Tickers
	}
	return q
}

// normalizeSymbols trims, upper-cases and de-duplicates symbols, keeping
// first-seen order.
func normalizeSymbols(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
