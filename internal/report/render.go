package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"strength-scanner/internal/types"
)

// Render writes a human-readable report. Every figure shown is taken from
// the structured report as is.
func Render(w io.Writer, r *types.Report) error {
	if err := RenderMarket(w, &r.Market); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nRun %s  generated %s\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Results) == 0 {
		fmt.Fprintln(w, "\nNo securities ranked.")
	} else {
		fmt.Fprintln(w, "\nRanking")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSYMBOL\tCLOSE\tCHG%\tSCORE\tGRADE\tACTION\tPOSITION")
		for i, res := range r.Results {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t%+.2f\t%.1f\t%s\t%s\t%.0f%%\n",
				i+1,
				res.Symbol,
				res.Indicators.Close,
				res.Indicators.ChangePct,
				res.Composite.Final,
				res.Grade,
				res.Decision.Action,
				res.Decision.PositionPct*100,
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if top := r.Top(types.GradeS); len(top) > 0 {
			names := make([]string, len(top))
			for i, res := range top {
				names[i] = res.Symbol
			}
			fmt.Fprintf(w, "\nGrade S: %s\n", strings.Join(names, ", "))
		}

		for _, res := range r.Results {
			fmt.Fprintf(w, "\n%s  %.1f/10 (%s, %s tier)\n", res.Symbol, res.Technical, res.Grade, res.Decision.Tier)
			writeDimensions(w, res.Dimensions)
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintln(w, "\nSkipped")
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "  %-10s %-24s %s\n", s.Symbol, s.Reason, s.Detail)
		}
	}
	return nil
}

// RenderMarket writes the market environment section.
func RenderMarket(w io.Writer, m *types.MarketReport) error {
	fmt.Fprintf(w, "Market environment: %s  (composite %.2f)\n", m.Band.Value, m.Composite.Final)
	fmt.Fprintf(w, "Benchmark %s  close %.2f  change %+.2f%%  MA5 %.2f  MA20 %.2f  volume ratio %.2f\n",
		m.Symbol,
		m.Indicators.Close,
		m.Indicators.ChangePct,
		m.Indicators.MA5,
		m.Indicators.MA20,
		m.Indicators.VolumeRatio,
	)
	fmt.Fprintf(w, "Technical %.1f/10\n", m.Technical)
	writeDimensions(w, m.Dimensions)

	fmt.Fprintf(w, "Sentiment: %s\n", sentimentLine(m))
	fmt.Fprintf(w, "Weights: technical %.2f  sentiment %.2f\n", m.Composite.WeightTechnical, m.Composite.WeightSentiment)
	fmt.Fprintf(w, "Strategy: %s\n", m.Strategy)

	if len(m.RiskTips) > 0 {
		fmt.Fprintln(w, "Risk control:")
		for _, tip := range m.RiskTips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
	return nil
}

func sentimentLine(m *types.MarketReport) string {
	if m.Sentiment == nil {
		if m.SentimentNote != "" {
			return fmt.Sprintf("%s (%s)", m.SentimentStatus, m.SentimentNote)
		}
		return m.SentimentStatus
	}

	s := m.Sentiment
	parts := make([]string, 0, len(types.SentimentLabels))
	for _, l := range types.SentimentLabels {
		if n := s.LabelCounts[l]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", l, n))
		}
	}
	line := fmt.Sprintf("%.1f/10 %s (raw %+.3f, %d articles via %s)", s.Scaled, s.Mood, s.Raw, s.ArticleCount, s.Provider)
	if len(parts) > 0 {
		line += " [" + strings.Join(parts, ", ") + "]"
	}
	return line
}

func writeDimensions(w io.Writer, dims []types.DimensionScore) {
	for _, d := range dims {
		fmt.Fprintf(w, "  %-14s %+5.1f  %s\n", d.Dimension, d.Contribution, d.Rationale)
	}
}
