package signal

import (
	"errors"
	"math"
	"testing"
	"time"

	"FutScan/internal/domain/models"
)

func TestFundingEvaluator_Evaluate(t *testing.T) {
	eval := NewFundingEvaluator(DefaultConfig())
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		reading      *models.FundingReading
		wantDir      models.Direction
		wantSeverity float64
		wantReason   string
	}{
		{
			name:    "nil reading is neutral",
			reading: nil,
			wantDir: models.Neutral,
		},
		{
			name:         "extreme negative funding is a strong long",
			reading:      &models.FundingReading{Rate: -0.0012, Timestamp: now},
			wantDir:      models.Long,
			wantSeverity: 1.0,
			wantReason:   "EXTREME negative funding (-0.1200%)",
		},
		{
			name:         "extreme boundary is inclusive",
			reading:      &models.FundingReading{Rate: -0.001, Timestamp: now},
			wantDir:      models.Long,
			wantSeverity: 1.0,
			wantReason:   "EXTREME negative funding (-0.1000%)",
		},
		{
			name:         "moderate negative funding is a half-strength long",
			reading:      &models.FundingReading{Rate: -0.0007, Timestamp: now},
			wantDir:      models.Long,
			wantSeverity: 0.5,
			wantReason:   "moderate negative funding (-0.0700%)",
		},
		{
			name:         "extreme positive funding is a strong short",
			reading:      &models.FundingReading{Rate: 0.0015, Timestamp: now},
			wantDir:      models.Short,
			wantSeverity: 1.0,
			wantReason:   "EXTREME positive funding (0.1500%)",
		},
		{
			name:         "moderate boundary is inclusive",
			reading:      &models.FundingReading{Rate: 0.0005, Timestamp: now},
			wantDir:      models.Short,
			wantSeverity: 0.5,
			wantReason:   "moderate positive funding (0.0500%)",
		},
		{
			name:    "small rate is neutral",
			reading: &models.FundingReading{Rate: 0.0004, Timestamp: now},
			wantDir: models.Neutral,
		},
		{
			name:    "zero rate is neutral",
			reading: &models.FundingReading{Rate: 0, Timestamp: now},
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
			if tt.wantReason != "" {
				if len(got.Reasons) != 1 || got.Reasons[0] != tt.wantReason {
					t.Errorf("Reasons = %v, want [%q]", got.Reasons, tt.wantReason)
				}
			}
		})
	}
}

func TestFundingEvaluator_RejectsNonFiniteRate(t *testing.T) {
	eval := NewFundingEvaluator(DefaultConfig())

	for _, rate := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := eval.Evaluate(&models.FundingReading{Rate: rate})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Evaluate(rate=%v) error = %v, want *ValidationError", rate, err)
		}
	}
}
