package report

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"strength-scanner/internal/types"
)

var mu sync.Mutex

// DecisionEntry is one line of the decision journal.
type DecisionEntry struct {
	Time        string  `json:"time"`
	RunID       string  `json:"run_id"`
	Symbol      string  `json:"symbol"`
	Band        string  `json:"band"`
	Action      string  `json:"action"`
	PositionPct float64 `json:"position_pct"`
	Score       float64 `json:"score"`
	Grade       string  `json:"grade"`
}

func reportPath(dir string, r *types.Report) string {
	return filepath.Join(dir, "reports", r.GeneratedAt.Format("2006-01-02")+"-"+r.RunID+".json")
}

func journalPath(dir string, t time.Time) string {
	return filepath.Join(dir, "decisions", t.Format("2006-01-02")+".txt")
}

// Save writes the structured report under dir/reports and returns its path.
func Save(dir string, r *types.Report) (string, error) {
	p := reportPath(dir, r)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// AppendDecisions appends one JSON line per ranked security to the day's journal.
func AppendDecisions(dir string, r *types.Report) error {
	mu.Lock()
	defer mu.Unlock()

	p := journalPath(dir, r.GeneratedAt)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	ts := r.GeneratedAt.Format("2006-01-02 15:04:05")
	for _, res := range r.Results {
		b, err := json.Marshal(DecisionEntry{
			Time:        ts,
			RunID:       r.RunID,
			Symbol:      res.Symbol,
			Band:        string(res.Decision.Band),
			Action:      string(res.Decision.Action),
			PositionPct: res.Decision.PositionPct,
			Score:       res.Composite.Final,
			Grade:       string(res.Grade),
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(f, string(b)); err != nil {
			return err
		}
	}
	return nil
}

// CompressOlder gzips journal and report files under dir last modified more
// than retentionDays ago. Unreadable files are left in place.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(p); ext != ".txt" && ext != ".json" {
			return nil
		}
		// Sentiment snapshots are read back by later runs on the same date.
		if filepath.Base(filepath.Dir(p)) == "sentiment" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
