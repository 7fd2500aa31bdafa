package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"FutScan/internal/domain/models"
	drepo "FutScan/internal/domain/repository"
)

type fakeTradeSource struct {
	trades []models.Trade
	err    error
}

func (f *fakeTradeSource) Name() string { return "fake" }

func (f *fakeTradeSource) TopSymbols(context.Context, int) ([]string, error) { return nil, nil }

func (f *fakeTradeSource) Klines(context.Context, string, drepo.Timeframe, int) ([]models.Candle, error) {
	return nil, nil
}

func (f *fakeTradeSource) FundingRate(context.Context, string) (models.FundingReading, error) {
	return models.FundingReading{}, nil
}

func (f *fakeTradeSource) RecentTrades(context.Context, string, int) ([]models.Trade, error) {
	return f.trades, f.err
}

func TestTradeEstimator_Reading(t *testing.T) {
	now := time.Now().UTC()

	t.Run("large aggressive trades split by side", func(t *testing.T) {
		src := &fakeTradeSource{trades: []models.Trade{
			{QuoteQty: 150_000, Time: now, IsBuyerMaker: true},   // sell pressure -> long flush
			{QuoteQty: 200_000, Time: now, IsBuyerMaker: true},   // sell pressure -> long flush
			{QuoteQty: 120_000, Time: now, IsBuyerMaker: false},  // buy pressure -> short squeeze
			{QuoteQty: 5_000, Time: now, IsBuyerMaker: true},     // too small, ignored
			{QuoteQty: 500_000, Time: now.Add(-time.Hour), IsBuyerMaker: true}, // stale, ignored
		}}
		est := NewTradeEstimator(src, 100_000, 15*time.Minute, 1000)

		reading, ok, err := est.Reading(context.Background(), "BTCUSDT")
		if err != nil {
			t.Fatalf("Reading: %v", err)
		}
		if !ok {
			t.Fatal("ok = false, want true")
		}
		if reading.LongVolume != 350_000 {
			t.Errorf("LongVolume = %v, want 350000", reading.LongVolume)
		}
		if reading.ShortVolume != 120_000 {
			t.Errorf("ShortVolume = %v, want 120000", reading.ShortVolume)
		}
	})

	t.Run("empty trade list means no data", func(t *testing.T) {
		est := NewTradeEstimator(&fakeTradeSource{}, 100_000, 15*time.Minute, 1000)
		_, ok, err := est.Reading(context.Background(), "BTCUSDT")
		if err != nil {
			t.Fatalf("Reading: %v", err)
		}
		if ok {
			t.Error("ok = true, want false for an empty trade list")
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		wantErr := errors.New("source down")
		est := NewTradeEstimator(&fakeTradeSource{err: wantErr}, 100_000, 15*time.Minute, 1000)
		_, _, err := est.Reading(context.Background(), "BTCUSDT")
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v, want %v", err, wantErr)
		}
	})
}
