package engine

import (
	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/sentiment"
	"strength-scanner/internal/store"
)

func New(cfg *store.Config, prices interfaces.PriceFeed, sent *sentiment.Service) interfaces.Scanner {
	return newEngine(cfg, prices, sent)
}
