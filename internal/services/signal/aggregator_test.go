package signal

import (
	"reflect"
	"testing"

	"FutScan/internal/domain/models"
)

func verdict(dir models.Direction, severity float64, reasons ...string) models.SignalVerdict {
	return models.SignalVerdict{Direction: dir, Severity: severity, Reasons: reasons}
}

func neutral() models.SignalVerdict {
	return models.SignalVerdict{Direction: models.Neutral}
}

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	tests := []struct {
		name           string
		technical      models.SignalVerdict
		funding        models.SignalVerdict
		liquidation    models.SignalVerdict
		wantDir        models.Direction
		wantScore      float64
		wantConfluence float64
		wantTier       models.StrengthTier
	}{
		{
			name:      "all neutral scores zero",
			technical: neutral(), funding: neutral(), liquidation: neutral(),
			wantDir: models.Neutral, wantScore: 0, wantConfluence: 0, wantTier: models.TierWeak,
		},
		{
			name:      "single evaluator carries its weighted severity",
			technical: verdict(models.Long, 1.0), funding: neutral(), liquidation: neutral(),
			wantDir: models.Long, wantScore: 5.0, wantConfluence: 1, wantTier: models.TierModerate,
		},
		{
			name:      "two agreeing evaluators earn a confluence bonus",
			technical: verdict(models.Long, 1.0), funding: verdict(models.Long, 0.5), liquidation: neutral(),
			wantDir: models.Long, wantScore: 6.5 * 1.1, wantConfluence: 1.1, wantTier: models.TierStrong,
		},
		{
			name:      "full agreement caps at ten",
			technical: verdict(models.Long, 1.0), funding: verdict(models.Long, 1.0), liquidation: verdict(models.Long, 1.0),
			wantDir: models.Long, wantScore: 10, wantConfluence: 1.2, wantTier: models.TierVeryStrong,
		},
		{
			name:      "conflicting evaluators do not count as confluence",
			technical: verdict(models.Long, 1.0), funding: verdict(models.Short, 1.0), liquidation: neutral(),
			wantDir: models.Long, wantScore: 5.0, wantConfluence: 1, wantTier: models.TierModerate,
		},
		{
			name:      "equal opposing force is neutral",
			technical: verdict(models.Long, 0.6), funding: verdict(models.Short, 1.0), liquidation: neutral(),
			wantDir: models.Neutral, wantScore: 0, wantConfluence: 0, wantTier: models.TierWeak,
		},
		{
			name:      "short side wins symmetrically",
			technical: verdict(models.Short, 0.8), funding: neutral(), liquidation: verdict(models.Short, 0.5),
			wantDir: models.Short, wantScore: (4.0 + 1.0) * 1.1, wantConfluence: 1.1, wantTier: models.TierModerate,
		},
		{
			name:      "zero-severity verdict with a direction is ignored",
			technical: verdict(models.Long, 1.0), funding: verdict(models.Long, 0), liquidation: neutral(),
			wantDir: models.Long, wantScore: 5.0, wantConfluence: 1, wantTier: models.TierModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.Aggregate("BTCUSDT", "1h", tt.technical, tt.funding, tt.liquidation)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if !closeTo(got.Score, tt.wantScore) {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if !closeTo(got.Confluence, tt.wantConfluence) {
				t.Errorf("Confluence = %v, want %v", got.Confluence, tt.wantConfluence)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %v, want %v", got.Tier, tt.wantTier)
			}
		})
	}
}

func TestAggregator_Breakdown(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	got, err := agg.Aggregate("ETHUSDT", "4h",
		verdict(models.Long, 1.0, "RSI oversold (25.0)"),
		verdict(models.Long, 0.5, "moderate negative funding (-0.0700%)"),
		neutral(),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	wantBreakdown := map[string]float64{
		"technical":   5.0,
		"funding":     1.5,
		"liquidation": 0,
	}
	if !reflect.DeepEqual(got.Breakdown, wantBreakdown) {
		t.Errorf("Breakdown = %v, want %v", got.Breakdown, wantBreakdown)
	}
	if len(got.Verdicts) != 3 {
		t.Errorf("Verdicts has %d entries, want 3", len(got.Verdicts))
	}
	if !equalStrings(got.Verdicts["technical"].Reasons, []string{"RSI oversold (25.0)"}) {
		t.Errorf("technical verdict not preserved: %+v", got.Verdicts["technical"])
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	tech := verdict(models.Long, 0.7, "MACD bullish crossover")
	fund := verdict(models.Long, 0.5, "moderate negative funding (-0.0600%)")
	liq := verdict(models.Short, 0.4, "short squeeze exhaustion ($2000000)")

	first, err := agg.Aggregate("SOLUSDT", "1h", tech, fund, liq)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	second, err := agg.Aggregate("SOLUSDT", "1h", tech, fund, liq)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestAggregator_ConfluenceNeverLowersScore(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	alone, err := agg.Aggregate("BTCUSDT", "1h", verdict(models.Long, 0.9), neutral(), neutral())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	joined, err := agg.Aggregate("BTCUSDT", "1h", verdict(models.Long, 0.9), verdict(models.Long, 0.1), neutral())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if joined.Score < alone.Score {
		t.Errorf("adding an agreeing verdict lowered the score: %v -> %v", alone.Score, joined.Score)
	}
}
