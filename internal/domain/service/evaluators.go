package service

import "FutScan/internal/domain/models"

// Evaluators are pure functions over immutable readings: same input, same
// verdict, no hidden state. A nil reading means "unavailable" and must yield
// a neutral zero-severity verdict rather than an error.

// TechnicalEvaluator classifies an indicator snapshot into a direction bias.
type TechnicalEvaluator interface {
	Evaluate(r *models.TechnicalReading) (models.SignalVerdict, error)
}

// FundingEvaluator classifies a funding rate into a contrarian bias.
type FundingEvaluator interface {
	Evaluate(r *models.FundingReading) (models.SignalVerdict, error)
}

// LiquidationEvaluator classifies one-sided liquidation pressure.
type LiquidationEvaluator interface {
	Evaluate(r *models.LiquidationReading) (models.SignalVerdict, error)
}

// Aggregator merges the three verdicts for one instrument+timeframe into a
// single scored opportunity.
type Aggregator interface {
	Aggregate(instrument, timeframe string, technical, funding, liquidation models.SignalVerdict) (models.ScoredOpportunity, error)
}
