package repository

import (
	"context"
	"time"

	"FutScan/internal/domain/models"
)

// MarketData is a read-only futures market data source (REST-backed).
type MarketData interface {
	Name() string
	TopSymbols(ctx context.Context, limit int) ([]string, error)
	Klines(ctx context.Context, symbol string, tf Timeframe, limit int) ([]models.Candle, error)
	FundingRate(ctx context.Context, symbol string) (models.FundingReading, error)
	RecentTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error)
}

// LiquidationFeed yields aggregated liquidation volume per symbol over the
// feed's look-back window. The bool result is false when the feed has no
// data for the symbol, which downstream treats as missing rather than zero.
type LiquidationFeed interface {
	Reading(ctx context.Context, symbol string) (models.LiquidationReading, bool, error)
	Close() error
}

// Notifier delivers scan results to an external messaging endpoint.
type Notifier interface {
	SendSummary(ctx context.Context, s *models.Summary) error
	SendAlert(ctx context.Context, a *models.DetailedAlert) error
	SendNoSignals(ctx context.Context, at time.Time) error
}

// EventPublisher publishes scored opportunities to a message broker.
type EventPublisher interface {
	PublishOpportunity(ctx context.Context, op *models.ScoredOpportunity) error
	Close() error
}

// AlertGate suppresses repeat alerts inside a cooldown window.
type AlertGate interface {
	Allow(ctx context.Context, instrument, timeframe string, dir models.Direction) (bool, error)
}

// SummaryStore caches the latest scan summary for the HTTP API.
type SummaryStore interface {
	Put(ctx context.Context, s *models.Summary) error
	Latest(ctx context.Context) (*models.Summary, error)
}

// Metrics records operational metrics for a scan run.
type Metrics interface {
	RecordOpportunity(direction, timeframe string)
	RecordError(kind string)
	RecordScore(symbol, timeframe string, score float64)
	RecordScanDuration(seconds float64)
}
