package signal

import (
	"fmt"
	"math"

	"FutScan/internal/domain/models"
	domsvc "FutScan/internal/domain/service"
)

// FundingEvaluator classifies a funding rate into a contrarian bias:
// extreme negative funding means shorts are paying longs heavily, which is
// read as a long opportunity, and vice versa. Exactly one tier fires.
type FundingEvaluator struct {
	cfg Config
}

func NewFundingEvaluator(cfg Config) *FundingEvaluator {
	return &FundingEvaluator{cfg: cfg}
}

func (e *FundingEvaluator) Evaluate(r *models.FundingReading) (models.SignalVerdict, error) {
	if r == nil {
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}
	if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) {
		return models.SignalVerdict{}, validationErrorf("rate", "not a finite number")
	}

	pct := r.Rate * 100

	switch {
	case r.Rate <= -e.cfg.FundingExtreme:
		return models.SignalVerdict{
			Direction: models.Long,
			Severity:  1.0,
			Reasons:   []string{fmt.Sprintf("EXTREME negative funding (%.4f%%)", pct)},
		}, nil
	case r.Rate <= -e.cfg.FundingModerate:
		return models.SignalVerdict{
			Direction: models.Long,
			Severity:  0.5,
			Reasons:   []string{fmt.Sprintf("moderate negative funding (%.4f%%)", pct)},
		}, nil
	case r.Rate >= e.cfg.FundingExtreme:
		return models.SignalVerdict{
			Direction: models.Short,
			Severity:  1.0,
			Reasons:   []string{fmt.Sprintf("EXTREME positive funding (%.4f%%)", pct)},
		}, nil
	case r.Rate >= e.cfg.FundingModerate:
		return models.SignalVerdict{
			Direction: models.Short,
			Severity:  0.5,
			Reasons:   []string{fmt.Sprintf("moderate positive funding (%.4f%%)", pct)},
		}, nil
	default:
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}
}

var _ domsvc.FundingEvaluator = (*FundingEvaluator)(nil)
