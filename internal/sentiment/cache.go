package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"strength-scanner/internal/types"
)

const dateLayout = "2006-01-02"

// Snapshot is the persisted sentiment for one calendar date.
type Snapshot struct {
	Date      string                 `json:"date"`
	Provider  string                 `json:"provider"`
	CreatedAt time.Time              `json:"created_at"`
	Score     types.SentimentScore   `json:"score"`
	Entries   []types.SentimentEntry `json:"entries"`
}

// Cache keeps one write-once JSON snapshot per date. Once a date's file exists
// it is never rewritten, so concurrent runs on the same day agree.
type Cache struct {
	dir string
	mu  sync.Mutex
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sentiment cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

func (c *Cache) path(date string) string {
	return filepath.Join(c.dir, date+".json")
}

// Get returns the snapshot for date, if one was written.
func (c *Cache) Get(date string) (*Snapshot, bool, error) {
	data, err := os.ReadFile(c.path(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("decode sentiment snapshot %s: %w", date, err)
	}
	return &snap, true, nil
}

// Put writes the snapshot unless one already exists for its date, in which
// case the stored snapshot is returned and stored is false.
func (c *Cache) Put(snap Snapshot) (stored bool, existing *Snapshot, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, nil, err
	}

	tmp, err := os.CreateTemp(c.dir, snap.Date+".*.tmp")
	if err != nil {
		return false, nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, nil, err
	}
	if err := tmp.Close(); err != nil {
		return false, nil, err
	}

	// Link fails if the target exists, which makes the publish write-once.
	if err := os.Link(tmp.Name(), c.path(snap.Date)); err != nil {
		if errors.Is(err, os.ErrExist) {
			prev, _, gerr := c.Get(snap.Date)
			return false, prev, gerr
		}
		return false, nil, err
	}
	return true, nil, nil
}
