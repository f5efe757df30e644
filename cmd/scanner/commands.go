package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/report"
	"strength-scanner/internal/scheduler"
	"strength-scanner/internal/store"
	"strength-scanner/internal/types"
)

var (
	flagIndex   string
	flagSymbols []string
	flagTopics  []string
	flagTickers []string
	flagLimit   int
	flagSave    bool
	flagJSON    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Gate the market and rank a universe of securities",
	Example: `  scanner run --index ^GSPC --symbols AAPL,MSFT,NVDA --topics financial_markets --limit 20 --save
  scanner run --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, scanner, err := initializeScanner(ctx)
		if err != nil {
			return err
		}
		return scan(ctx, cmd.OutOrStdout(), cfg, scanner, flagSave || cfg.Run.Save)
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Evaluate the market environment gate only",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, scanner, err := initializeScanner(ctx)
		if err != nil {
			return err
		}

		m, err := scanner.Market(ctx, request())
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), m)
		}
		return report.RenderMarket(cmd.OutOrStdout(), m)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scan on the configured cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, scanner, err := initializeScanner(ctx)
		if err != nil {
			return err
		}

		s := scheduler.New(ctx, func(ctx context.Context) error {
			if err := scan(ctx, cmd.OutOrStdout(), cfg, scanner, true); err != nil {
				return err
			}
			if err := report.CompressOlder(cfg.Run.DataDir, cfg.Run.RetentionDays); err != nil {
				logger.Warn(ctx, "Failed to compress old reports", "error", err)
			}
			return nil
		})
		if err := s.Register(cfg.Schedule.Cron); err != nil {
			return err
		}

		if cfg.Schedule.RunOnStart {
			s.RunNow()
		}
		s.Start()
		logger.Info(ctx, "Waiting for scheduled scans", "cron", cfg.Schedule.Cron)

		<-ctx.Done()
		s.Stop()
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, marketCmd, scheduleCmd} {
		c.Flags().StringVar(&flagIndex, "index", "", "Benchmark index symbol (default from config)")
		c.Flags().StringSliceVar(&flagTopics, "topics", nil, "Sentiment topics, comma separated")
		c.Flags().StringSliceVar(&flagTickers, "tickers", nil, "Sentiment tickers, comma separated")
	}
	for _, c := range []*cobra.Command{runCmd, scheduleCmd} {
		c.Flags().StringSliceVar(&flagSymbols, "symbols", nil, "Securities to scan (default: run.universe)")
		c.Flags().IntVar(&flagLimit, "limit", 0, "Maximum number of ranked results (default: run.limit)")
	}
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Save the report and decision journal under run.data_dir")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")
	marketCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the market report as JSON")
}

func request() types.RunRequest {
	return types.RunRequest{
		Benchmark: flagIndex,
		Symbols:   flagSymbols,
		Topics:    flagTopics,
		Tickers:   flagTickers,
		Limit:     flagLimit,
	}
}

func scan(ctx context.Context, w io.Writer, cfg *store.Config, scanner interfaces.Scanner, save bool) error {
	rep, err := scanner.Run(ctx, request())
	if err != nil {
		return err
	}

	if flagJSON {
		err = writeJSON(w, rep)
	} else {
		err = report.Render(w, rep)
	}
	if err != nil {
		return err
	}

	if !save {
		return nil
	}
	path, err := report.Save(cfg.Run.DataDir, rep)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to save report", err)
		return err
	}
	if err := report.AppendDecisions(cfg.Run.DataDir, rep); err != nil {
		logger.Warn(ctx, "Failed to append decision journal", "error", err)
	}
	logger.Info(ctx, "Report saved", "path", path, "run_id", rep.RunID)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
