package pricefeed

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"strength-scanner/internal/api"
	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/types"
)

var _ interfaces.PriceFeed = (*Kite)(nil)

// kiteAPI is the subset of the Kite Connect client used for history.
type kiteAPI interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

type KiteParams struct {
	APIKey      string
	AccessToken string
	Exchange    string
	Timeout     time.Duration
	MaxAttempts int
}

// Kite reads daily candles from Zerodha Kite Connect.
type Kite struct {
	kc       kiteAPI
	exchange string
	mapper   *instrumentMapper
	retry    *api.RetryConfig
	loadMu   sync.Mutex
	now      func() time.Time
}

// NewKite returns a *types.ConfigurationError when credentials are missing.
func NewKite(p KiteParams) (*Kite, error) {
	if p.APIKey == "" || p.AccessToken == "" {
		return nil, &types.ConfigurationError{Setting: "kite credentials", Reason: "missing API key/access token"}
	}
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}

	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.Timeout > 0 {
		kc.SetHTTPClient(&http.Client{Timeout: p.Timeout})
	}
	k := newKite(kc, p.Exchange)
	if p.MaxAttempts > 0 {
		k.retry.MaxAttempts = p.MaxAttempts
	}
	return k, nil
}

func newKite(kc kiteAPI, exchange string) *Kite {
	return &Kite{
		kc:       kc,
		exchange: exchange,
		mapper:   newInstrumentMapper(),
		retry:    api.DefaultRetryConfig(),
		now:      time.Now,
	}
}

func (k *Kite) Name() string { return "kite" }

func (k *Kite) loadInstruments(ctx context.Context) error {
	k.loadMu.Lock()
	defer k.loadMu.Unlock()

	if k.mapper.isLoaded() {
		return nil
	}

	instruments, err := api.DoWithRetry(ctx, k.retry, func(context.Context) (kiteconnect.Instruments, error) {
		return k.kc.GetInstrumentsByExchange(k.exchange)
	})
	if err != nil {
		return fmt.Errorf("failed to load %s instruments: %w", k.exchange, err)
	}
	for _, inst := range instruments {
		k.mapper.addMapping(inst.Tradingsymbol, inst.InstrumentToken)
	}
	k.mapper.markLoaded()

	logger.Info(ctx, "Loaded instrument tokens", "exchange", k.exchange, "count", k.mapper.size())
	return nil
}

// History fetches day candles covering bars sessions. The calendar window is
// padded for weekends and holidays and the result trimmed to bars.
func (k *Kite) History(ctx context.Context, symbol string, bars int) ([]types.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := k.loadInstruments(ctx); err != nil {
		return nil, &types.DataFetchError{Source: k.Name(), Symbol: symbol, Err: err}
	}

	token, ok := k.mapper.getToken(symbol)
	if !ok {
		return nil, &types.DataFetchError{
			Source: k.Name(),
			Symbol: symbol,
			Err:    fmt.Errorf("no instrument token on %s", k.exchange),
		}
	}

	to := k.now()
	from := to.AddDate(0, 0, -(bars*7/5 + 10))
	candles, err := api.DoWithRetry(ctx, k.retry, func(context.Context) ([]kiteconnect.HistoricalData, error) {
		return k.kc.GetHistoricalData(token, "day", from, to, false, false)
	})
	if err != nil {
		return nil, &types.DataFetchError{Source: k.Name(), Symbol: symbol, Err: err}
	}

	out := make([]types.PriceBar, 0, len(candles))
	for _, c := range candles {
		out = append(out, types.PriceBar{
			Date:   c.Date.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		})
	}
	if bars > 0 && len(out) > bars {
		out = out[len(out)-bars:]
	}
	return out, nil
}
