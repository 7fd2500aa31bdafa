package signal

import (
	"testing"

	"FutScan/internal/domain/models"
)

func opp(instrument, timeframe string, dir models.Direction, score, confluence float64) models.ScoredOpportunity {
	return models.ScoredOpportunity{
		Instrument: instrument,
		Timeframe:  timeframe,
		Direction:  dir,
		Score:      score,
		Tier:       models.TierForScore(score),
		Confluence: confluence,
	}
}

func instruments(opps []models.ScoredOpportunity) []string {
	out := make([]string, len(opps))
	for i, o := range opps {
		out[i] = o.Instrument
	}
	return out
}

func TestRanker_Rank(t *testing.T) {
	ranker := NewRanker(DefaultConfig())

	t.Run("minimum score is inclusive", func(t *testing.T) {
		long, short := ranker.Rank([]models.ScoredOpportunity{
			opp("BTCUSDT", "1h", models.Long, 7.0, 1),
			opp("ETHUSDT", "1h", models.Long, 6.999, 1),
			opp("SOLUSDT", "1h", models.Short, 7.5, 1.1),
		})
		if got := instruments(long); !equalStrings(got, []string{"BTCUSDT"}) {
			t.Errorf("long = %v, want [BTCUSDT]", got)
		}
		if got := instruments(short); !equalStrings(got, []string{"SOLUSDT"}) {
			t.Errorf("short = %v, want [SOLUSDT]", got)
		}
	})

	t.Run("neutral is never ranked", func(t *testing.T) {
		long, short := ranker.Rank([]models.ScoredOpportunity{
			opp("BTCUSDT", "1h", models.Neutral, 9.0, 1.2),
		})
		if len(long)+len(short) != 0 {
			t.Errorf("ranked %d opportunities, want 0", len(long)+len(short))
		}
	})

	t.Run("ordering is score then confluence then instrument then timeframe", func(t *testing.T) {
		long, _ := ranker.Rank([]models.ScoredOpportunity{
			opp("ETHUSDT", "1h", models.Long, 8.0, 1),
			opp("BTCUSDT", "4h", models.Long, 8.0, 1.1),
			opp("BTCUSDT", "1h", models.Long, 8.0, 1),
			opp("SOLUSDT", "1h", models.Long, 9.0, 1),
		})
		want := []string{"SOLUSDT", "BTCUSDT", "BTCUSDT", "ETHUSDT"}
		if got := instruments(long); !equalStrings(got, want) {
			t.Errorf("long order = %v, want %v", got, want)
		}
		if long[1].Timeframe != "4h" {
			t.Errorf("higher confluence should rank first, got timeframe %s", long[1].Timeframe)
		}
	})

	t.Run("each direction is capped at TopN", func(t *testing.T) {
		var in []models.ScoredOpportunity
		for _, sym := range []string{"A", "B", "C", "D", "E", "F", "G"} {
			in = append(in, opp(sym+"USDT", "1h", models.Long, 8.0, 1))
		}
		long, _ := ranker.Rank(in)
		if len(long) != 5 {
			t.Errorf("len(long) = %d, want 5", len(long))
		}
	})
}

func TestRanker_DetailedAlerts(t *testing.T) {
	ranker := NewRanker(DefaultConfig())

	t.Run("threshold is inclusive and both sides compete", func(t *testing.T) {
		long := []models.ScoredOpportunity{
			opp("BTCUSDT", "1h", models.Long, 9.2, 1.2),
			opp("ETHUSDT", "1h", models.Long, 8.4, 1),
		}
		short := []models.ScoredOpportunity{
			opp("SOLUSDT", "1h", models.Short, 8.5, 1.1),
		}
		alerts := ranker.DetailedAlerts(long, short)
		if len(alerts) != 2 {
			t.Fatalf("len(alerts) = %d, want 2", len(alerts))
		}
		if alerts[0].Opportunity.Instrument != "BTCUSDT" || alerts[1].Opportunity.Instrument != "SOLUSDT" {
			t.Errorf("alert order = %s, %s", alerts[0].Opportunity.Instrument, alerts[1].Opportunity.Instrument)
		}
	})

	t.Run("at most MaxDetailed alerts per run", func(t *testing.T) {
		var long []models.ScoredOpportunity
		for _, sym := range []string{"A", "B", "C", "D", "E"} {
			long = append(long, opp(sym+"USDT", "1h", models.Long, 9.0, 1.2))
		}
		alerts := ranker.DetailedAlerts(long, nil)
		if len(alerts) != 3 {
			t.Errorf("len(alerts) = %d, want 3", len(alerts))
		}
	})

	t.Run("reasons are flattened in evaluator order", func(t *testing.T) {
		o := opp("BTCUSDT", "1h", models.Long, 9.0, 1.2)
		o.Verdicts = map[string]models.SignalVerdict{
			"technical":   {Direction: models.Long, Severity: 1, Reasons: []string{"RSI oversold (25.0)", "MACD bullish crossover"}},
			"funding":     {Direction: models.Long, Severity: 1, Reasons: []string{"EXTREME negative funding (-0.1200%)"}},
			"liquidation": {Direction: models.Neutral},
		}
		alerts := ranker.DetailedAlerts([]models.ScoredOpportunity{o}, nil)
		if len(alerts) != 1 {
			t.Fatalf("len(alerts) = %d, want 1", len(alerts))
		}
		want := []string{
			"RSI oversold (25.0)",
			"MACD bullish crossover",
			"EXTREME negative funding (-0.1200%)",
		}
		if !equalStrings(alerts[0].Reasons, want) {
			t.Errorf("Reasons = %v, want %v", alerts[0].Reasons, want)
		}
	})

	t.Run("opposing verdicts keep their reasons", func(t *testing.T) {
		o := opp("ETHUSDT", "1h", models.Long, 8.6, 1.1)
		o.Verdicts = map[string]models.SignalVerdict{
			"technical":   {Direction: models.Long, Severity: 1, Reasons: []string{"RSI oversold (22.4)"}},
			"funding":     {Direction: models.Long, Severity: 0.5, Reasons: []string{"moderate negative funding (-0.0600%)"}},
			"liquidation": {Direction: models.Short, Severity: 0.4, Reasons: []string{"short squeeze exhaustion ($2000000)"}},
		}
		alerts := ranker.DetailedAlerts([]models.ScoredOpportunity{o}, nil)
		if len(alerts) != 1 {
			t.Fatalf("len(alerts) = %d, want 1", len(alerts))
		}
		want := []string{
			"RSI oversold (22.4)",
			"moderate negative funding (-0.0600%)",
			"short squeeze exhaustion ($2000000)",
		}
		if !equalStrings(alerts[0].Reasons, want) {
			t.Errorf("Reasons = %v, want %v", alerts[0].Reasons, want)
		}
	})
}

func TestEndToEndScore(t *testing.T) {
	cfg := DefaultConfig()
	tech := NewTechnicalEvaluator(cfg)
	fund := NewFundingEvaluator(cfg)
	liq := NewLiquidationEvaluator(cfg)
	agg := NewAggregator(cfg)
	ranker := NewRanker(cfg)

	tv, err := tech.Evaluate(&models.TechnicalReading{
		RSI: 5, MACDState: models.BullishCross, EMAState: models.BullishCross,
		VolumeSpike: true, Price: 43000,
	})
	if err != nil {
		t.Fatalf("technical: %v", err)
	}
	fv, err := fund.Evaluate(&models.FundingReading{Rate: -0.0007})
	if err != nil {
		t.Fatalf("funding: %v", err)
	}
	lv, err := liq.Evaluate(nil)
	if err != nil {
		t.Fatalf("liquidation: %v", err)
	}

	got, err := agg.Aggregate("BTCUSDT", "1h", tv, fv, lv)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// technical 5*1.0 + funding 3*0.5 = 6.5, two agreeing parts -> *1.1
	if !closeTo(got.Score, 7.15) {
		t.Errorf("Score = %v, want 7.15", got.Score)
	}
	if got.Direction != models.Long {
		t.Errorf("Direction = %v, want %v", got.Direction, models.Long)
	}
	if got.Tier != models.TierStrong {
		t.Errorf("Tier = %v, want %v", got.Tier, models.TierStrong)
	}

	long, short := ranker.Rank([]models.ScoredOpportunity{got})
	if len(long) != 1 || len(short) != 0 {
		t.Fatalf("rank: long=%d short=%d, want 1/0", len(long), len(short))
	}
	if alerts := ranker.DetailedAlerts(long, short); len(alerts) != 0 {
		t.Errorf("score below the detailed threshold produced %d alerts", len(alerts))
	}
}
