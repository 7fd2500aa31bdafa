package signal

import (
	"fmt"
	"math"

	"FutScan/internal/domain/models"
	domsvc "FutScan/internal/domain/service"
)

// LiquidationEvaluator reads one-sided liquidation volume as exhaustion:
// a long liquidation cascade marks capitulation (long bias), a short
// squeeze marks squeeze exhaustion (short bias). Balanced or small volume
// is noise and stays neutral.
type LiquidationEvaluator struct {
	cfg Config
}

func NewLiquidationEvaluator(cfg Config) *LiquidationEvaluator {
	return &LiquidationEvaluator{cfg: cfg}
}

func (e *LiquidationEvaluator) Evaluate(r *models.LiquidationReading) (models.SignalVerdict, error) {
	if r == nil {
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}
	if math.IsNaN(r.LongVolume) || r.LongVolume < 0 {
		return models.SignalVerdict{}, validationErrorf("long_volume", "must be >= 0: %v", r.LongVolume)
	}
	if math.IsNaN(r.ShortVolume) || r.ShortVolume < 0 {
		return models.SignalVerdict{}, validationErrorf("short_volume", "must be >= 0: %v", r.ShortVolume)
	}

	larger, smaller := r.LongVolume, r.ShortVolume
	dir := models.Long
	reason := "long liquidation cascade"
	if r.ShortVolume > r.LongVolume {
		larger, smaller = r.ShortVolume, r.LongVolume
		dir = models.Short
		reason = "short squeeze exhaustion"
	}

	if larger <= e.cfg.LiqMinNotable || larger < smaller*e.cfg.LiqRatio {
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}

	severity := math.Min(larger/(e.cfg.LiqMinNotable*e.cfg.LiqDivisor), 1.0)
	return models.SignalVerdict{
		Direction: dir,
		Severity:  severity,
		Reasons:   []string{fmt.Sprintf("%s ($%.0f)", reason, larger)},
	}, nil
}

var _ domsvc.LiquidationEvaluator = (*LiquidationEvaluator)(nil)
