package signal

import (
	"fmt"
	"math"

	"FutScan/internal/domain/models"
	domsvc "FutScan/internal/domain/service"
)

// TechnicalEvaluator turns an indicator snapshot into a directional verdict.
// Each rule contributes independently to a long or short total; the larger
// total wins. An exact nonzero tie is deliberately resolved to Neutral.
type TechnicalEvaluator struct {
	cfg Config
}

func NewTechnicalEvaluator(cfg Config) *TechnicalEvaluator {
	return &TechnicalEvaluator{cfg: cfg}
}

func (e *TechnicalEvaluator) Evaluate(r *models.TechnicalReading) (models.SignalVerdict, error) {
	if r == nil {
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}
	if err := validateTechnical(r); err != nil {
		return models.SignalVerdict{}, err
	}

	var long, short float64
	var reasons []string

	if r.RSI < e.cfg.RSIOversold {
		contrib := math.Min((e.cfg.RSIOversold-r.RSI)/e.cfg.RSIOversold, 1.0)
		long += contrib
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", r.RSI))
	} else if r.RSI > e.cfg.RSIOverbought {
		contrib := math.Min((r.RSI-e.cfg.RSIOverbought)/(100-e.cfg.RSIOverbought), 1.0)
		short += contrib
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", r.RSI))
	}

	switch r.MACDState {
	case models.BullishCross:
		long += e.cfg.MACDWeight
		reasons = append(reasons, "MACD bullish crossover")
	case models.BearishCross:
		short += e.cfg.MACDWeight
		reasons = append(reasons, "MACD bearish crossover")
	}

	switch r.EMAState {
	case models.BullishCross:
		long += e.cfg.EMAWeight
		reasons = append(reasons, "EMA bullish crossover")
	case models.BearishCross:
		short += e.cfg.EMAWeight
		reasons = append(reasons, "EMA bearish crossover")
	}

	// Volume amplifies an existing edge; it never creates one.
	if r.VolumeSpike {
		switch {
		case long > short:
			long *= e.cfg.VolumeFactor
			reasons = append(reasons, "volume spike confirmation")
		case short > long:
			short *= e.cfg.VolumeFactor
			reasons = append(reasons, "volume spike confirmation")
		}
	}

	switch {
	case long > short:
		return models.SignalVerdict{
			Direction: models.Long,
			Severity:  math.Min(long, 1.0),
			Reasons:   reasons,
		}, nil
	case short > long:
		return models.SignalVerdict{
			Direction: models.Short,
			Severity:  math.Min(short, 1.0),
			Reasons:   reasons,
		}, nil
	default:
		// Either nothing fired or the sides cancel exactly; no clear edge.
		return models.SignalVerdict{Direction: models.Neutral}, nil
	}
}

func validateTechnical(r *models.TechnicalReading) error {
	if math.IsNaN(r.RSI) || r.RSI < 0 || r.RSI > 100 {
		return validationErrorf("rsi", "out of range [0,100]: %v", r.RSI)
	}
	if math.IsNaN(r.Price) || r.Price <= 0 {
		return validationErrorf("price", "must be positive: %v", r.Price)
	}
	if !validCross(r.MACDState) {
		return validationErrorf("macd_state", "unknown state %q", r.MACDState)
	}
	if !validCross(r.EMAState) {
		return validationErrorf("ema_state", "unknown state %q", r.EMAState)
	}
	return nil
}

func validCross(s models.CrossState) bool {
	switch s {
	case models.BullishCross, models.BearishCross, models.NoCross:
		return true
	default:
		return false
	}
}

var _ domsvc.TechnicalEvaluator = (*TechnicalEvaluator)(nil)
