package repository

import (
	"context"
	"errors"
	"fmt"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/logger"
)

// ErrNoExchangeAvailable is returned when every configured source failed.
var ErrNoExchangeAvailable = errors.New("no exchange available")

// ExchangeManager fronts an ordered list of market data sources and falls
// through to the next one when a call fails. Order encodes priority; the
// first source is the preferred exchange.
type ExchangeManager struct {
	sources []repository.MarketData
	logger  *logger.Logger
}

func NewExchangeManager(log *logger.Logger, sources ...repository.MarketData) (*ExchangeManager, error) {
	if len(sources) == 0 {
		return nil, errors.New("exchange manager needs at least one source")
	}
	return &ExchangeManager{sources: sources, logger: log}, nil
}

func (m *ExchangeManager) Name() string { return "manager" }

// fallthroughCall runs fn against each source in priority order until one
// succeeds. Context cancellation stops the chain immediately.
func (m *ExchangeManager) fallthroughCall(ctx context.Context, op string, fn func(repository.MarketData) error) error {
	var errs []error
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(src)
		if err == nil {
			return nil
		}
		m.logger.Warn("exchange call failed, trying next source",
			logger.String("exchange", src.Name()),
			logger.String("op", op),
			logger.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	return fmt.Errorf("%w: %s: %v", ErrNoExchangeAvailable, op, errors.Join(errs...))
}

func (m *ExchangeManager) TopSymbols(ctx context.Context, limit int) ([]string, error) {
	var out []string
	err := m.fallthroughCall(ctx, "top_symbols", func(src repository.MarketData) error {
		symbols, err := src.TopSymbols(ctx, limit)
		if err != nil {
			return err
		}
		out = symbols
		return nil
	})
	return out, err
}

func (m *ExchangeManager) Klines(ctx context.Context, symbol string, tf repository.Timeframe, limit int) ([]models.Candle, error) {
	var out []models.Candle
	err := m.fallthroughCall(ctx, "klines", func(src repository.MarketData) error {
		candles, err := src.Klines(ctx, symbol, tf, limit)
		if err != nil {
			return err
		}
		out = candles
		return nil
	})
	return out, err
}

func (m *ExchangeManager) FundingRate(ctx context.Context, symbol string) (models.FundingReading, error) {
	var out models.FundingReading
	err := m.fallthroughCall(ctx, "funding_rate", func(src repository.MarketData) error {
		reading, err := src.FundingRate(ctx, symbol)
		if err != nil {
			return err
		}
		out = reading
		return nil
	})
	return out, err
}

func (m *ExchangeManager) RecentTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	var out []models.Trade
	err := m.fallthroughCall(ctx, "recent_trades", func(src repository.MarketData) error {
		trades, err := src.RecentTrades(ctx, symbol, limit)
		if err != nil {
			return err
		}
		out = trades
		return nil
	})
	return out, err
}

var _ repository.MarketData = (*ExchangeManager)(nil)
