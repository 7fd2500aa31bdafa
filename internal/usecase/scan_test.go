package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"FutScan/internal/domain/models"
	drepo "FutScan/internal/domain/repository"
	"FutScan/internal/services/indicators"
	"FutScan/internal/services/signal"
	"FutScan/pkg/logger"
)

type fakeMarket struct {
	symbols    []string
	candles    map[string][]models.Candle
	funding    map[string]float64
	klinesErr  error
	fundingErr error
}

func (f *fakeMarket) Name() string { return "fake" }

func (f *fakeMarket) TopSymbols(_ context.Context, limit int) ([]string, error) {
	if limit > len(f.symbols) {
		limit = len(f.symbols)
	}
	return f.symbols[:limit], nil
}

func (f *fakeMarket) Klines(_ context.Context, symbol string, _ drepo.Timeframe, _ int) ([]models.Candle, error) {
	if f.klinesErr != nil {
		return nil, f.klinesErr
	}
	return f.candles[symbol], nil
}

func (f *fakeMarket) FundingRate(_ context.Context, symbol string) (models.FundingReading, error) {
	if f.fundingErr != nil {
		return models.FundingReading{}, f.fundingErr
	}
	return models.FundingReading{Rate: f.funding[symbol], Timestamp: time.Now()}, nil
}

func (f *fakeMarket) RecentTrades(context.Context, string, int) ([]models.Trade, error) {
	return nil, nil
}

type fakeLiqFeed struct {
	readings map[string]models.LiquidationReading
}

func (f *fakeLiqFeed) Reading(_ context.Context, symbol string) (models.LiquidationReading, bool, error) {
	r, ok := f.readings[symbol]
	return r, ok, nil
}

func (f *fakeLiqFeed) Close() error { return nil }

type fakePublisher struct {
	mu        sync.Mutex
	published []models.ScoredOpportunity
}

func (f *fakePublisher) PublishOpportunity(_ context.Context, op *models.ScoredOpportunity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, *op)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeStore struct {
	mu     sync.Mutex
	latest *models.Summary
}

func (f *fakeStore) Put(_ context.Context, s *models.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = s
	return nil
}

func (f *fakeStore) Latest(context.Context) (*models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
	scans  int
}

func (f *fakeMetrics) RecordOpportunity(string, string) {}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errors == nil {
		f.errors = make(map[string]int)
	}
	f.errors[kind]++
}

func (f *fakeMetrics) RecordScore(string, string, float64) {}

func (f *fakeMetrics) RecordScanDuration(float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
}

func breakoutCandles() []models.Candle {
	candles := make([]models.Candle, 40)
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = models.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     100, High: 101, Low: 99, Close: 100,
			Volume: 100,
		}
	}
	candles[39].Close = 110
	candles[39].Volume = 300
	return candles
}

func newScanUseCase(t *testing.T, market *fakeMarket, feed *fakeLiqFeed, pub *fakePublisher, store *fakeStore, metrics *fakeMetrics) *ScanUseCase {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	sigCfg := signal.DefaultConfig()
	return NewScanUseCase(
		ScanConfig{
			Timeframes:  []drepo.Timeframe{drepo.TF1h},
			TopSymbols:  20,
			KlineLimit:  100,
			Concurrency: 4,
			Timeout:     5 * time.Second,
		},
		market,
		feed,
		indicators.NewCalculator(indicators.DefaultConfig()),
		signal.NewTechnicalEvaluator(sigCfg),
		signal.NewFundingEvaluator(sigCfg),
		signal.NewLiquidationEvaluator(sigCfg),
		signal.NewAggregator(sigCfg),
		signal.NewRanker(sigCfg),
		pub,
		store,
		metrics,
		log,
	)
}

func TestScanUseCase_Run(t *testing.T) {
	market := &fakeMarket{
		symbols: []string{"BTCUSDT"},
		candles: map[string][]models.Candle{"BTCUSDT": breakoutCandles()},
		funding: map[string]float64{"BTCUSDT": 0.0012},
	}
	pub := &fakePublisher{}
	store := &fakeStore{}
	metrics := &fakeMetrics{}

	uc := newScanUseCase(t, market, &fakeLiqFeed{}, pub, store, metrics)

	summary, alerts, err := uc.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 1 {
		t.Errorf("Total = %d, want 1", summary.Total)
	}
	if len(summary.Short) != 1 {
		t.Fatalf("len(Short) = %d, want 1", len(summary.Short))
	}

	opp := summary.Short[0]
	// The breakout bar pushes RSI to 100 (overbought), amplified by the
	// volume spike: technical is short at full severity. With extreme
	// positive funding agreeing: 5*1.0 + 3*1.0 = 8.0, *1.1 = 8.8.
	if opp.Instrument != "BTCUSDT" || opp.Direction != models.Short {
		t.Errorf("opp = %s/%s, want BTCUSDT/short", opp.Instrument, opp.Direction)
	}
	if diff := opp.Score - 8.8; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score = %v, want 8.8", opp.Score)
	}
	if opp.Tier != models.TierVeryStrong {
		t.Errorf("Tier = %v, want %v", opp.Tier, models.TierVeryStrong)
	}
	if opp.Price != 110 {
		t.Errorf("Price = %v, want the last close 110", opp.Price)
	}
	if opp.Timestamp.IsZero() {
		t.Error("Timestamp was not stamped")
	}

	if store.latest == nil {
		t.Error("summary was not stored")
	}
	if len(pub.published) != 1 {
		t.Errorf("published %d opportunities, want 1", len(pub.published))
	}
	if metrics.scans != 1 {
		t.Errorf("scan duration recorded %d times, want 1", metrics.scans)
	}
	if len(alerts) != 1 {
		t.Errorf("len(alerts) = %d, want 1 above the detailed threshold", len(alerts))
	}
}

func TestScanUseCase_MissingTechnicalDataIsAWarningNotAFailure(t *testing.T) {
	market := &fakeMarket{
		symbols:   []string{"BTCUSDT"},
		klinesErr: errors.New("klines unavailable"),
		funding:   map[string]float64{"BTCUSDT": -0.0012},
	}
	store := &fakeStore{}
	uc := newScanUseCase(t, market, &fakeLiqFeed{}, &fakePublisher{}, store, &fakeMetrics{})

	summary, _, err := uc.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Funding alone scores 3.0, below the ranking threshold, so nothing
	// survives and the summary reports zero signals.
	if summary.Total != 0 {
		t.Errorf("Total = %d, want 0", summary.Total)
	}
	if len(summary.Long)+len(summary.Short) != 0 {
		t.Errorf("ranked %d opportunities, want 0", len(summary.Long)+len(summary.Short))
	}
	if len(summary.Warnings) == 0 {
		t.Fatal("expected a warning for the failed klines fetch")
	}
	if !strings.Contains(summary.Warnings[0], "BTCUSDT/1h") {
		t.Errorf("warning %q should name the instrument and timeframe", summary.Warnings[0])
	}
}

func TestScanUseCase_LiquidationFeedContributes(t *testing.T) {
	market := &fakeMarket{
		symbols: []string{"BTCUSDT"},
		candles: map[string][]models.Candle{"BTCUSDT": breakoutCandles()},
		funding: map[string]float64{"BTCUSDT": 0.0012},
	}
	feed := &fakeLiqFeed{readings: map[string]models.LiquidationReading{
		"BTCUSDT": {LongVolume: 1_000_000, ShortVolume: 10_000_000},
	}}

	uc := newScanUseCase(t, market, feed, &fakePublisher{}, &fakeStore{}, &fakeMetrics{})

	summary, _, err := uc.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Short) != 1 {
		t.Fatalf("len(Short) = %d, want 1", len(summary.Short))
	}
	opp := summary.Short[0]
	if opp.Breakdown["liquidation"] != 2.0 {
		t.Errorf("liquidation contribution = %v, want 2.0", opp.Breakdown["liquidation"])
	}
	if opp.Confluence != 1.2 {
		t.Errorf("Confluence = %v, want 1.2 with three agreeing parts", opp.Confluence)
	}
}
