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

const binanceFuturesBaseURL = "https://fapi.binance.com"

// BinanceClient reads public Binance USDT-M futures endpoints.
type BinanceClient struct {
	http    *pkghttp.Client
	baseURL string
}

func NewBinanceClient(client *pkghttp.Client) *BinanceClient {
	return &BinanceClient{http: client, baseURL: binanceFuturesBaseURL}
}

func (c *BinanceClient) Name() string { return "binance" }

type binanceTicker struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

// TopSymbols returns the USDT perpetuals with the highest 24h quote volume.
func (c *BinanceClient) TopSymbols(ctx context.Context, limit int) ([]string, error) {
	var tickers []binanceTicker
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/fapi/v1/ticker/24hr",
	}, &tickers)
	if err != nil {
		return nil, fmt.Errorf("binance 24hr tickers: %w", err)
	}

	type ranked struct {
		symbol string
		volume float64
	}
	candidates := make([]ranked, 0, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		vol, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil {
			continue
		}
		candidates = append(candidates, ranked{symbol: t.Symbol, volume: vol})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].volume > candidates[j].volume })

	if limit > len(candidates) {
		limit = len(candidates)
	}
	symbols := make([]string, limit)
	for i := 0; i < limit; i++ {
		symbols[i] = candidates[i].symbol
	}
	return symbols, nil
}

// Klines returns closed OHLCV bars, oldest first. Binance encodes each bar
// as a positional JSON array with numeric fields serialized as strings.
func (c *BinanceClient) Klines(ctx context.Context, symbol string, tf repository.Timeframe, limit int) ([]models.Candle, error) {
	var raw [][]interface{}
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/fapi/v1/klines",
		QueryParams: map[string][]string{
			"symbol":   {symbol},
			"interval": {string(tf)},
			"limit":    {strconv.Itoa(limit)},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s/%s: %w", symbol, tf, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, bar := range raw {
		if len(bar) < 6 {
			continue
		}
		c, err := parseBinanceBar(bar)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s/%s: %w", symbol, tf, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseBinanceBar(bar []interface{}) (models.Candle, error) {
	openTime, ok := bar[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("bad open time %v", bar[0])
	}
	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := bar[i].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("bad field %d: %v", i, bar[i])
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i-1] = f
	}
	return models.Candle{
		OpenTime: time.UnixMilli(int64(openTime)).UTC(),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
	}, nil
}

type binancePremiumIndex struct {
	Symbol          string `json:"symbol"`
	LastFundingRate string `json:"lastFundingRate"`
	Time            int64  `json:"time"`
}

func (c *BinanceClient) FundingRate(ctx context.Context, symbol string) (models.FundingReading, error) {
	var idx binancePremiumIndex
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + "/fapi/v1/premiumIndex",
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &idx)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("binance premium index %s: %w", symbol, err)
	}

	rate, err := strconv.ParseFloat(idx.LastFundingRate, 64)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("binance funding rate %s: %w", symbol, err)
	}
	return models.FundingReading{
		Rate:      rate,
		Timestamp: time.UnixMilli(idx.Time).UTC(),
	}, nil
}

type binanceAggTrade struct {
	Price        string `json:"p"`
	Qty          string `json:"q"`
	Time         int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

func (c *BinanceClient) RecentTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	var raw []binanceAggTrade
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/fapi/v1/aggTrades",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"limit":  {strconv.Itoa(limit)},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance agg trades %s: %w", symbol, err)
	}

	trades := make([]models.Trade, 0, len(raw))
	for _, t := range raw {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseFloat(t.Qty, 64)
		if err != nil {
			continue
		}
		trades = append(trades, models.Trade{
			Price:        price,
			Qty:          qty,
			QuoteQty:     price * qty,
			Time:         time.UnixMilli(t.Time).UTC(),
			IsBuyerMaker: t.IsBuyerMaker,
		})
	}
	return trades, nil
}

var _ repository.MarketData = (*BinanceClient)(nil)
