package pricefeed

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"strength-scanner/internal/api"
	"strength-scanner/internal/interfaces"
	"strength-scanner/internal/logger"
	"strength-scanner/internal/types"
)

var _ interfaces.PriceFeed = (*Yahoo)(nil)

// YahooConfig configures the chart API client.
type YahooConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	// SymbolMap rewrites index aliases to chart API tickers.
	SymbolMap map[string]string
}

// Yahoo reads daily bars from the public chart API.
type Yahoo struct {
	client    *api.Client
	retry     *api.RetryConfig
	symbolMap map[string]string
}

func NewYahoo(cfg YahooConfig) *Yahoo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	retry := api.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	symbolMap := map[string]string{
		"SPX":    "^GSPC",
		"SP500":  "^GSPC",
		"NDX":    "^NDX",
		"NIFTY":  "^NSEI",
		"SENSEX": "^BSESN",
	}
	for k, v := range cfg.SymbolMap {
		symbolMap[strings.ToUpper(k)] = v
	}

	return &Yahoo{
		client: api.NewClient(
			api.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
			api.WithTimeout(cfg.Timeout),
			api.WithHeaders(api.YahooFinanceHeaders()),
			api.WithLogging(true),
		),
		retry:     retry,
		symbolMap: symbolMap,
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

func (y *Yahoo) ticker(symbol string) string {
	if mapped, ok := y.symbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns up to bars daily bars, oldest first. Null bars
// (holidays, halted sessions) are dropped.
func (y *Yahoo) History(ctx context.Context, symbol string, bars int) ([]types.PriceBar, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", chartRange(bars))

	path := "/v8/finance/chart/" + url.PathEscape(y.ticker(symbol))
	resp, err := api.DoWithRetry(ctx, y.retry, func(ctx context.Context) (*api.Response, error) {
		return y.client.Get(ctx, path, params)
	})
	if err != nil {
		return nil, &types.DataFetchError{Source: y.Name(), Symbol: symbol, Err: err}
	}

	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, &types.DataFetchError{Source: y.Name(), Symbol: symbol, Err: err}
	}
	if chart.Chart.Error != nil {
		return nil, &types.DataFetchError{Source: y.Name(), Symbol: symbol, Err: errors.New(chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &types.DataFetchError{Source: y.Name(), Symbol: symbol, Err: errors.New("no data returned")}
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	out := make([]types.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if c == 0 || (o == 0 && h == 0 && l == 0) {
			continue
		}
		out = append(out, types.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	if bars > 0 && len(out) > bars {
		out = out[len(out)-bars:]
	}
	logger.Debug(ctx, "Fetched chart history", "symbol", symbol, "bars", len(out))
	return out, nil
}

func at(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

// chartRange picks the smallest range covering n trading days.
func chartRange(n int) string {
	switch {
	case n <= 55:
		return "3mo"
	case n <= 110:
		return "6mo"
	case n <= 230:
		return "1y"
	default:
		return "2y"
	}
}
