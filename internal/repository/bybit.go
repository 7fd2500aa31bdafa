package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	pkghttp "FutScan/pkg/http"
)

const bybitBaseURL = "https://api.bybit.com"

// bybitIntervals maps timeframes to Bybit's kline interval notation.
var bybitIntervals = map[repository.Timeframe]string{
	repository.TF15m: "15",
	repository.TF1h:  "60",
	repository.TF4h:  "240",
	repository.TF1d:  "D",
}

// BybitClient reads public Bybit v5 linear perpetual endpoints.
type BybitClient struct {
	http    *pkghttp.Client
	baseURL string
}

func NewBybitClient(client *pkghttp.Client) *BybitClient {
	return &BybitClient{http: client, baseURL: bybitBaseURL}
}

func (c *BybitClient) Name() string { return "bybit" }

type bybitEnvelope[T any] struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  T      `json:"result"`
}

func (c *BybitClient) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
}

type bybitTickerList struct {
	List []struct {
		Symbol      string `json:"symbol"`
		Turnover24h string `json:"turnover24h"`
		FundingRate string `json:"fundingRate"`
	} `json:"list"`
}

func (c *BybitClient) TopSymbols(ctx context.Context, limit int) ([]string, error) {
	var resp bybitEnvelope[bybitTickerList]
	err := c.get(ctx, "/v5/market/tickers", map[string][]string{"category": {"linear"}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bybit tickers: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit tickers: retCode %d: %s", resp.RetCode, resp.RetMsg)
	}

	type ranked struct {
		symbol   string
		turnover float64
	}
	candidates := make([]ranked, 0, len(resp.Result.List))
	for _, t := range resp.Result.List {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		turnover, err := strconv.ParseFloat(t.Turnover24h, 64)
		if err != nil {
			continue
		}
		candidates = append(candidates, ranked{symbol: t.Symbol, turnover: turnover})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].turnover > candidates[j].turnover })

	if limit > len(candidates) {
		limit = len(candidates)
	}
	symbols := make([]string, limit)
	for i := 0; i < limit; i++ {
		symbols[i] = candidates[i].symbol
	}
	return symbols, nil
}

type bybitKlineList struct {
	List [][]string `json:"list"`
}

// Klines returns closed bars oldest first. Bybit lists bars newest first,
// each as [startTime, open, high, low, close, volume, turnover].
func (c *BybitClient) Klines(ctx context.Context, symbol string, tf repository.Timeframe, limit int) ([]models.Candle, error) {
	interval, ok := bybitIntervals[tf]
	if !ok {
		return nil, fmt.Errorf("bybit klines: unsupported timeframe %s", tf)
	}

	var resp bybitEnvelope[bybitKlineList]
	err := c.get(ctx, "/v5/market/kline", map[string][]string{
		"category": {"linear"},
		"symbol":   {symbol},
		"interval": {interval},
		"limit":    {strconv.Itoa(limit)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bybit klines %s/%s: %w", symbol, tf, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit klines %s/%s: retCode %d: %s", symbol, tf, resp.RetCode, resp.RetMsg)
	}

	candles := make([]models.Candle, 0, len(resp.Result.List))
	for i := len(resp.Result.List) - 1; i >= 0; i-- {
		bar := resp.Result.List[i]
		if len(bar) < 6 {
			continue
		}
		candle, err := parseBybitBar(bar)
		if err != nil {
			return nil, fmt.Errorf("bybit klines %s/%s: %w", symbol, tf, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseBybitBar(bar []string) (models.Candle, error) {
	ms, err := strconv.ParseInt(bar[0], 10, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("bad start time: %w", err)
	}
	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		f, err := strconv.ParseFloat(bar[i], 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i-1] = f
	}
	return models.Candle{
		OpenTime: time.UnixMilli(ms).UTC(),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
	}, nil
}

func (c *BybitClient) FundingRate(ctx context.Context, symbol string) (models.FundingReading, error) {
	var resp bybitEnvelope[bybitTickerList]
	err := c.get(ctx, "/v5/market/tickers", map[string][]string{
		"category": {"linear"},
		"symbol":   {symbol},
	}, &resp)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("bybit funding %s: %w", symbol, err)
	}
	if resp.RetCode != 0 || len(resp.Result.List) == 0 {
		return models.FundingReading{}, fmt.Errorf("bybit funding %s: retCode %d: %s", symbol, resp.RetCode, resp.RetMsg)
	}

	rate, err := strconv.ParseFloat(resp.Result.List[0].FundingRate, 64)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("bybit funding %s: %w", symbol, err)
	}
	return models.FundingReading{Rate: rate, Timestamp: time.Now().UTC()}, nil
}

type bybitTradeList struct {
	List []struct {
		Price string `json:"price"`
		Size  string `json:"size"`
		Side  string `json:"side"`
		Time  string `json:"time"`
	} `json:"list"`
}

func (c *BybitClient) RecentTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	var resp bybitEnvelope[bybitTradeList]
	err := c.get(ctx, "/v5/market/recent-trade", map[string][]string{
		"category": {"linear"},
		"symbol":   {symbol},
		"limit":    {strconv.Itoa(limit)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bybit trades %s: %w", symbol, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit trades %s: retCode %d: %s", symbol, resp.RetCode, resp.RetMsg)
	}

	trades := make([]models.Trade, 0, len(resp.Result.List))
	for _, t := range resp.Result.List {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(t.Size, 64)
		if err != nil {
			continue
		}
		ms, err := strconv.ParseInt(t.Time, 10, 64)
		if err != nil {
			continue
		}
		trades = append(trades, models.Trade{
			Price:    price,
			Qty:      size,
			QuoteQty: price * size,
			Time:     time.UnixMilli(ms).UTC(),
			// A sell aggressor hits the bid, same convention as a
			// buyer-maker trade.
			IsBuyerMaker: t.Side == "Sell",
		})
	}
	return trades, nil
}

var _ repository.MarketData = (*BybitClient)(nil)
