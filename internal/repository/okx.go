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

const okxBaseURL = "https://www.okx.com"

// okxBars maps timeframes to OKX candle bar notation.
var okxBars = map[repository.Timeframe]string{
	repository.TF15m: "15m",
	repository.TF1h:  "1H",
	repository.TF4h:  "4H",
	repository.TF1d:  "1D",
}

// OKXClient reads public OKX v5 swap endpoints. OKX names instruments
// BTC-USDT-SWAP; the rest of the system uses the compact BTCUSDT form, so
// symbols are translated at this boundary.
type OKXClient struct {
	http    *pkghttp.Client
	baseURL string
}

func NewOKXClient(client *pkghttp.Client) *OKXClient {
	return &OKXClient{http: client, baseURL: okxBaseURL}
}

func (c *OKXClient) Name() string { return "okx" }

type okxEnvelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

func (c *OKXClient) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
}

func toOKXInstrument(symbol string) string {
	base := strings.TrimSuffix(symbol, "USDT")
	return base + "-USDT-SWAP"
}

func fromOKXInstrument(instID string) string {
	return strings.ReplaceAll(strings.TrimSuffix(instID, "-SWAP"), "-", "")
}

type okxTicker struct {
	InstID      string `json:"instId"`
	VolCcy24h   string `json:"volCcy24h"`
	FundingRate string `json:"fundingRate"`
	FundingTime string `json:"fundingTime"`
}

func (c *OKXClient) TopSymbols(ctx context.Context, limit int) ([]string, error) {
	var resp okxEnvelope[[]okxTicker]
	err := c.get(ctx, "/api/v5/market/tickers", map[string][]string{"instType": {"SWAP"}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("okx tickers: %w", err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx tickers: code %s: %s", resp.Code, resp.Msg)
	}

	type ranked struct {
		symbol string
		volume float64
	}
	candidates := make([]ranked, 0, len(resp.Data))
	for _, t := range resp.Data {
		if !strings.HasSuffix(t.InstID, "-USDT-SWAP") {
			continue
		}
		vol, err := strconv.ParseFloat(t.VolCcy24h, 64)
		if err != nil {
			continue
		}
		candidates = append(candidates, ranked{symbol: fromOKXInstrument(t.InstID), volume: vol})
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

// Klines returns closed bars oldest first. OKX lists bars newest first, each
// as [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (c *OKXClient) Klines(ctx context.Context, symbol string, tf repository.Timeframe, limit int) ([]models.Candle, error) {
	bar, ok := okxBars[tf]
	if !ok {
		return nil, fmt.Errorf("okx candles: unsupported timeframe %s", tf)
	}

	var resp okxEnvelope[[][]string]
	err := c.get(ctx, "/api/v5/market/candles", map[string][]string{
		"instId": {toOKXInstrument(symbol)},
		"bar":    {bar},
		"limit":  {strconv.Itoa(limit)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("okx candles %s/%s: %w", symbol, tf, err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx candles %s/%s: code %s: %s", symbol, tf, resp.Code, resp.Msg)
	}

	candles := make([]models.Candle, 0, len(resp.Data))
	for i := len(resp.Data) - 1; i >= 0; i-- {
		row := resp.Data[i]
		if len(row) < 6 {
			continue
		}
		candle, err := parseOKXBar(row)
		if err != nil {
			return nil, fmt.Errorf("okx candles %s/%s: %w", symbol, tf, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseOKXBar(row []string) (models.Candle, error) {
	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("bad timestamp: %w", err)
	}
	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		f, err := strconv.ParseFloat(row[i], 64)
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

type okxFundingRate struct {
	FundingRate string `json:"fundingRate"`
	FundingTime string `json:"fundingTime"`
}

func (c *OKXClient) FundingRate(ctx context.Context, symbol string) (models.FundingReading, error) {
	var resp okxEnvelope[[]okxFundingRate]
	err := c.get(ctx, "/api/v5/public/funding-rate", map[string][]string{
		"instId": {toOKXInstrument(symbol)},
	}, &resp)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("okx funding %s: %w", symbol, err)
	}
	if resp.Code != "0" || len(resp.Data) == 0 {
		return models.FundingReading{}, fmt.Errorf("okx funding %s: code %s: %s", symbol, resp.Code, resp.Msg)
	}

	rate, err := strconv.ParseFloat(resp.Data[0].FundingRate, 64)
	if err != nil {
		return models.FundingReading{}, fmt.Errorf("okx funding %s: %w", symbol, err)
	}
	reading := models.FundingReading{Rate: rate, Timestamp: time.Now().UTC()}
	if ms, err := strconv.ParseInt(resp.Data[0].FundingTime, 10, 64); err == nil {
		reading.Timestamp = time.UnixMilli(ms).UTC()
	}
	return reading, nil
}

type okxTrade struct {
	Px   string `json:"px"`
	Sz   string `json:"sz"`
	Side string `json:"side"`
	TS   string `json:"ts"`
}

func (c *OKXClient) RecentTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	var resp okxEnvelope[[]okxTrade]
	err := c.get(ctx, "/api/v5/market/trades", map[string][]string{
		"instId": {toOKXInstrument(symbol)},
		"limit":  {strconv.Itoa(limit)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("okx trades %s: %w", symbol, err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx trades %s: code %s: %s", symbol, resp.Code, resp.Msg)
	}

	trades := make([]models.Trade, 0, len(resp.Data))
	for _, t := range resp.Data {
		price, err := strconv.ParseFloat(t.Px, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(t.Sz, 64)
		if err != nil {
			continue
		}
		ms, err := strconv.ParseInt(t.TS, 10, 64)
		if err != nil {
			continue
		}
		trades = append(trades, models.Trade{
			Price:        price,
			Qty:          size,
			QuoteQty:     price * size,
			Time:         time.UnixMilli(ms).UTC(),
			IsBuyerMaker: t.Side == "sell",
		})
	}
	return trades, nil
}

var _ repository.MarketData = (*OKXClient)(nil)
