package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FutScan/internal/domain/models"
	drepo "FutScan/internal/domain/repository"
	domsvc "FutScan/internal/domain/service"
	"FutScan/internal/services/indicators"
	"FutScan/internal/services/signal"
	"FutScan/pkg/logger"
)

// ScanConfig bounds one scan run.
type ScanConfig struct {
	Timeframes  []drepo.Timeframe
	TopSymbols  int
	KlineLimit  int
	Concurrency int
	Timeout     time.Duration
}

// ScanUseCase runs one full market scan: pick the most liquid symbols,
// gather readings per instrument+timeframe, evaluate and aggregate them,
// then rank the survivors into a summary.
type ScanUseCase struct {
	cfg       ScanConfig
	market    drepo.MarketData
	liqFeed   drepo.LiquidationFeed
	calc      *indicators.Calculator
	technical domsvc.TechnicalEvaluator
	funding   domsvc.FundingEvaluator
	liq       domsvc.LiquidationEvaluator
	agg       domsvc.Aggregator
	ranker    *signal.Ranker
	publisher drepo.EventPublisher
	store     drepo.SummaryStore
	metrics   drepo.Metrics
	logger    *logger.Logger
}

func NewScanUseCase(
	cfg ScanConfig,
	market drepo.MarketData,
	liqFeed drepo.LiquidationFeed,
	calc *indicators.Calculator,
	technical domsvc.TechnicalEvaluator,
	funding domsvc.FundingEvaluator,
	liq domsvc.LiquidationEvaluator,
	agg domsvc.Aggregator,
	ranker *signal.Ranker,
	publisher drepo.EventPublisher,
	store drepo.SummaryStore,
	metrics drepo.Metrics,
	log *logger.Logger,
) *ScanUseCase {
	return &ScanUseCase{
		cfg:       cfg,
		market:    market,
		liqFeed:   liqFeed,
		calc:      calc,
		technical: technical,
		funding:   funding,
		liq:       liq,
		agg:       agg,
		ranker:    ranker,
		publisher: publisher,
		store:     store,
		metrics:   metrics,
		logger:    log,
	}
}

type scanResult struct {
	opp      models.ScoredOpportunity
	warnings []string
	skipped  bool
}

// Run executes one scan across all configured timeframes and returns the
// ranked summary plus the detailed alerts that cleared the high threshold.
func (uc *ScanUseCase) Run(ctx context.Context, timeframes []drepo.Timeframe) (*models.Summary, []models.DetailedAlert, error) {
	start := time.Now()
	if len(timeframes) == 0 {
		timeframes = uc.cfg.Timeframes
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	symbols, err := uc.market.TopSymbols(ctx, uc.cfg.TopSymbols)
	if err != nil {
		uc.metrics.RecordError("top_symbols")
		return nil, nil, fmt.Errorf("top symbols: %w", err)
	}

	type job struct {
		symbol string
		tf     drepo.Timeframe
	}
	jobs := make([]job, 0, len(symbols)*len(timeframes))
	for _, sym := range symbols {
		for _, tf := range timeframes {
			jobs = append(jobs, job{symbol: sym, tf: tf})
		}
	}

	results := make(chan scanResult, len(jobs))
	sem := make(chan struct{}, uc.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- uc.evaluateOne(ctx, j.symbol, j.tf)
		}(j)
	}
	go func() { wg.Wait(); close(results) }()

	var opps []models.ScoredOpportunity
	var warnings []string
	for res := range results {
		warnings = append(warnings, res.warnings...)
		if res.skipped {
			continue
		}
		opps = append(opps, res.opp)
		uc.metrics.RecordScore(res.opp.Instrument, res.opp.Timeframe, res.opp.Score)
	}

	long, short := uc.ranker.Rank(opps)
	summary := &models.Summary{
		Long:     long,
		Short:    short,
		Warnings: warnings,
		// Total counts the signals that survived ranking, not every
		// instrument evaluated.
		Total:       len(long) + len(short),
		GeneratedAt: time.Now().UTC(),
	}

	uc.publishRanked(ctx, summary)
	if err := uc.store.Put(ctx, summary); err != nil {
		uc.metrics.RecordError("summary_store")
		uc.logger.Warn("failed to cache summary", logger.Error(err))
	}

	uc.metrics.RecordScanDuration(time.Since(start).Seconds())
	uc.logger.Info("scan finished",
		logger.Int("symbols", len(symbols)),
		logger.Int("evaluated", len(opps)),
		logger.Int("long", len(long)),
		logger.Int("short", len(short)),
		logger.Int("warnings", len(warnings)),
		logger.Duration("took", time.Since(start)),
	)

	return summary, uc.ranker.DetailedAlerts(long, short), nil
}

type instrumentReadings struct {
	technical *models.TechnicalReading
	funding   *models.FundingReading
	liq       *models.LiquidationReading
	warnings  []string
}

// gather fetches the three readings for one instrument+timeframe in
// parallel. A failed or missing part stays nil and is reported as a
// warning; it never fails the whole instrument.
func (uc *ScanUseCase) gather(ctx context.Context, symbol string, tf drepo.Timeframe) instrumentReadings {
	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		candles, err := uc.market.Klines(ctx, symbol, tf, uc.cfg.KlineLimit)
		if err != nil {
			ch <- item{"technical", nil, err}
			return
		}
		reading, err := uc.calc.BuildReading(candles)
		ch <- item{"technical", reading, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		reading, err := uc.market.FundingRate(ctx, symbol)
		if err != nil {
			ch <- item{"funding", nil, err}
			return
		}
		ch <- item{"funding", &reading, nil}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		reading, ok, err := uc.liqFeed.Reading(ctx, symbol)
		if err != nil || !ok {
			ch <- item{"liquidation", nil, err}
			return
		}
		ch <- item{"liquidation", &reading, nil}
	}()

	go func() { wg.Wait(); close(ch) }()

	var out instrumentReadings
	for it := range ch {
		if it.err != nil {
			uc.metrics.RecordError(it.name)
			out.warnings = append(out.warnings, fmt.Sprintf("%s/%s: %s: %v", symbol, tf, it.name, it.err))
			continue
		}
		switch it.name {
		case "technical":
			if v, ok := it.val.(*models.TechnicalReading); ok {
				out.technical = v
			}
		case "funding":
			if v, ok := it.val.(*models.FundingReading); ok {
				out.funding = v
			}
		case "liquidation":
			if v, ok := it.val.(*models.LiquidationReading); ok {
				out.liq = v
			}
		}
	}
	return out
}

func (uc *ScanUseCase) evaluateOne(ctx context.Context, symbol string, tf drepo.Timeframe) scanResult {
	readings := uc.gather(ctx, symbol, tf)
	res := scanResult{warnings: readings.warnings}

	tv, err := uc.technical.Evaluate(readings.technical)
	if err != nil {
		res.warnings = append(res.warnings, fmt.Sprintf("%s/%s: technical verdict: %v", symbol, tf, err))
		res.skipped = true
		uc.metrics.RecordError("technical_verdict")
		return res
	}
	fv, err := uc.funding.Evaluate(readings.funding)
	if err != nil {
		res.warnings = append(res.warnings, fmt.Sprintf("%s/%s: funding verdict: %v", symbol, tf, err))
		res.skipped = true
		uc.metrics.RecordError("funding_verdict")
		return res
	}
	lv, err := uc.liq.Evaluate(readings.liq)
	if err != nil {
		res.warnings = append(res.warnings, fmt.Sprintf("%s/%s: liquidation verdict: %v", symbol, tf, err))
		res.skipped = true
		uc.metrics.RecordError("liquidation_verdict")
		return res
	}

	opp, err := uc.agg.Aggregate(symbol, string(tf), tv, fv, lv)
	if err != nil {
		res.warnings = append(res.warnings, fmt.Sprintf("%s/%s: aggregate: %v", symbol, tf, err))
		res.skipped = true
		uc.metrics.RecordError("aggregate")
		return res
	}

	// Price and time are stamped here so the aggregation itself stays a
	// pure function of the verdicts.
	if readings.technical != nil {
		opp.Price = readings.technical.Price
	}
	opp.Timestamp = time.Now().UTC()

	res.opp = opp
	return res
}

func (uc *ScanUseCase) publishRanked(ctx context.Context, summary *models.Summary) {
	for _, list := range [][]models.ScoredOpportunity{summary.Long, summary.Short} {
		for i := range list {
			op := list[i]
			uc.metrics.RecordOpportunity(string(op.Direction), op.Timeframe)
			if uc.publisher == nil {
				continue
			}
			if err := uc.publisher.PublishOpportunity(ctx, &op); err != nil {
				uc.metrics.RecordError("publish")
				uc.logger.Warn("failed to publish opportunity",
					logger.String("instrument", op.Instrument),
					logger.String("timeframe", op.Timeframe),
					logger.Error(err),
				)
			}
		}
	}
}
