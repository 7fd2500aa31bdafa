package repository

import (
	"context"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
)

// TradeEstimator approximates liquidation volume from recent public trades
// when no force-order stream is available. Large aggressive trades are
// treated as likely liquidations: an aggressive sell flushes longs, an
// aggressive buy squeezes shorts. A coarse estimate, but it preserves the
// one-sidedness the evaluator cares about.
type TradeEstimator struct {
	market      repository.MarketData
	minNotional float64       // per-trade USD floor to count as a liquidation
	window      time.Duration // look-back over the fetched trades
	fetchLimit  int
}

func NewTradeEstimator(market repository.MarketData, minNotional float64, window time.Duration, fetchLimit int) *TradeEstimator {
	return &TradeEstimator{
		market:      market,
		minNotional: minNotional,
		window:      window,
		fetchLimit:  fetchLimit,
	}
}

func (e *TradeEstimator) Reading(ctx context.Context, symbol string) (models.LiquidationReading, bool, error) {
	trades, err := e.market.RecentTrades(ctx, symbol, e.fetchLimit)
	if err != nil {
		return models.LiquidationReading{}, false, err
	}
	if len(trades) == 0 {
		return models.LiquidationReading{}, false, nil
	}

	cutoff := time.Now().UTC().Add(-e.window)
	var reading models.LiquidationReading
	for _, t := range trades {
		if t.Time.Before(cutoff) || t.QuoteQty < e.minNotional {
			continue
		}
		if t.IsBuyerMaker {
			// Aggressive sell into the bid: longs getting flushed.
			reading.LongVolume += t.QuoteQty
		} else {
			reading.ShortVolume += t.QuoteQty
		}
	}
	return reading, true, nil
}

func (e *TradeEstimator) Close() error { return nil }

var _ repository.LiquidationFeed = (*TradeEstimator)(nil)
