package signal

import (
	"errors"
	"math"
	"testing"

	"FutScan/internal/domain/models"
)

func TestTechnicalEvaluator_Evaluate(t *testing.T) {
	eval := NewTechnicalEvaluator(DefaultConfig())

	tests := []struct {
		name         string
		reading      *models.TechnicalReading
		wantDir      models.Direction
		wantSeverity float64
		wantReasons  []string
	}{
		{
			name:    "nil reading is neutral",
			reading: nil,
			wantDir: models.Neutral,
		},
		{
			name: "oversold RSI alone leans long",
			reading: &models.TechnicalReading{
				RSI: 28.5, MACDState: models.NoCross, EMAState: models.NoCross, Price: 100,
			},
			wantDir:      models.Long,
			wantSeverity: (30 - 28.5) / 30,
			wantReasons:  []string{"RSI oversold (28.5)"},
		},
		{
			name: "oversold RSI plus MACD bullish stacks",
			reading: &models.TechnicalReading{
				RSI: 28.5, MACDState: models.BullishCross, EMAState: models.NoCross, Price: 100,
			},
			wantDir:      models.Long,
			wantSeverity: (30-28.5)/30 + 0.5,
			wantReasons:  []string{"RSI oversold (28.5)", "MACD bullish crossover"},
		},
		{
			name: "overbought RSI leans short",
			reading: &models.TechnicalReading{
				RSI: 75, MACDState: models.NoCross, EMAState: models.NoCross, Price: 100,
			},
			wantDir:      models.Short,
			wantSeverity: (75.0 - 70) / 30,
			wantReasons:  []string{"RSI overbought (75.0)"},
		},
		{
			name: "opposing crosses resolve to the heavier side",
			reading: &models.TechnicalReading{
				RSI: 50, MACDState: models.BullishCross, EMAState: models.BearishCross, Price: 100,
			},
			wantDir:      models.Long,
			wantSeverity: 0.5,
			wantReasons:  []string{"MACD bullish crossover", "EMA bearish crossover"},
		},
		{
			name: "volume spike amplifies the dominant side",
			reading: &models.TechnicalReading{
				RSI: 50, MACDState: models.BullishCross, EMAState: models.NoCross,
				VolumeSpike: true, Price: 100,
			},
			wantDir:      models.Long,
			wantSeverity: 0.5 * 1.2,
			wantReasons:  []string{"MACD bullish crossover", "volume spike confirmation"},
		},
		{
			name: "volume spike alone is not a signal",
			reading: &models.TechnicalReading{
				RSI: 50, MACDState: models.NoCross, EMAState: models.NoCross,
				VolumeSpike: true, Price: 100,
			},
			wantDir: models.Neutral,
		},
		{
			name: "severity is capped at one",
			reading: &models.TechnicalReading{
				RSI: 5, MACDState: models.BullishCross, EMAState: models.BullishCross,
				VolumeSpike: true, Price: 100,
			},
			wantDir:      models.Long,
			wantSeverity: 1.0,
			wantReasons: []string{
				"RSI oversold (5.0)", "MACD bullish crossover",
				"EMA bullish crossover", "volume spike confirmation",
			},
		},
		{
			name: "quiet market is neutral",
			reading: &models.TechnicalReading{
				RSI: 55, MACDState: models.NoCross, EMAState: models.NoCross, Price: 100,
			},
			wantDir: models.Neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.reading)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if !closeTo(got.Severity, tt.wantSeverity) {
				t.Errorf("Severity = %v, want %v", got.Severity, tt.wantSeverity)
			}
			if tt.wantReasons != nil && !equalStrings(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestTechnicalEvaluator_ExactTieIsNeutral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EMAWeight = cfg.MACDWeight

	eval := NewTechnicalEvaluator(cfg)
	got, err := eval.Evaluate(&models.TechnicalReading{
		RSI: 50, MACDState: models.BullishCross, EMAState: models.BearishCross, Price: 100,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.Direction != models.Neutral {
		t.Errorf("Direction = %v, want %v", got.Direction, models.Neutral)
	}
	if got.Severity != 0 {
		t.Errorf("Severity = %v, want 0", got.Severity)
	}
}

func TestTechnicalEvaluator_Validation(t *testing.T) {
	eval := NewTechnicalEvaluator(DefaultConfig())

	tests := []struct {
		name    string
		reading *models.TechnicalReading
	}{
		{"RSI above range", &models.TechnicalReading{RSI: 101, MACDState: models.NoCross, EMAState: models.NoCross, Price: 100}},
		{"RSI below range", &models.TechnicalReading{RSI: -1, MACDState: models.NoCross, EMAState: models.NoCross, Price: 100}},
		{"RSI NaN", &models.TechnicalReading{RSI: math.NaN(), MACDState: models.NoCross, EMAState: models.NoCross, Price: 100}},
		{"non-positive price", &models.TechnicalReading{RSI: 50, MACDState: models.NoCross, EMAState: models.NoCross, Price: 0}},
		{"unknown MACD state", &models.TechnicalReading{RSI: 50, MACDState: "sideways", EMAState: models.NoCross, Price: 100}},
		{"unknown EMA state", &models.TechnicalReading{RSI: 50, MACDState: models.NoCross, EMAState: "sideways", Price: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.Evaluate(tt.reading)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Evaluate() error = %v, want *ValidationError", err)
			}
		})
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
