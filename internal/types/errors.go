package types

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSentimentData means a sentiment batch was empty. Callers treat it
	// as "sentiment unavailable", never as zero sentiment.
	ErrNoSentimentData = errors.New("no sentiment data")

	// ErrMissingTechnicalScore means a security never produced a dimension result.
	ErrMissingTechnicalScore = errors.New("missing technical score")
)

// InsufficientHistoryError is returned when fewer bars than needed were supplied.
type InsufficientHistoryError struct {
	Symbol string
	Have   int
	Need   int
}

func (e *InsufficientHistoryError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("insufficient history: have %d bars, need %d", e.Have, e.Need)
	}
	return fmt.Sprintf("insufficient history for %s: have %d bars, need %d", e.Symbol, e.Have, e.Need)
}

// DataFetchError wraps a network or provider failure for a price or sentiment fetch.
type DataFetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *DataFetchError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s fetch failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s fetch failed for %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// RateLimitError is a provider-reported throttle.
type RateLimitError struct {
	Provider   string
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %s", e.Provider, e.RetryAfter, e.Message)
}

// ConfigurationError reports a missing or invalid setting. Optional features
// that fail with it are reported as "not configured".
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
