package signal

import (
	"math"

	"FutScan/internal/domain/models"
	domsvc "FutScan/internal/domain/service"
)

const (
	partTechnical   = "technical"
	partFunding     = "funding"
	partLiquidation = "liquidation"
)

// Aggregator combines the three evaluator verdicts into one scored
// opportunity. It is a pure function of its inputs: calling it twice with
// the same verdicts yields an identical result, and it never consults the
// clock. The caller stamps price and time afterwards.
type Aggregator struct {
	cfg Config
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

func (a *Aggregator) Aggregate(instrument, timeframe string, technical, funding, liquidation models.SignalVerdict) (models.ScoredOpportunity, error) {
	parts := []struct {
		name    string
		verdict models.SignalVerdict
		weight  float64
	}{
		{partTechnical, technical, a.cfg.TechnicalWeight},
		{partFunding, funding, a.cfg.FundingWeight},
		{partLiquidation, liquidation, a.cfg.LiquidationWeight},
	}

	var longScore, shortScore float64
	var longCount, shortCount int
	verdicts := make(map[string]models.SignalVerdict, len(parts))
	breakdown := make(map[string]float64, len(parts))

	for _, p := range parts {
		verdicts[p.name] = p.verdict
		contribution := p.weight * p.verdict.Severity
		switch {
		case p.verdict.Direction == models.Long && p.verdict.Severity > 0:
			longScore += contribution
			longCount++
			breakdown[p.name] = contribution
		case p.verdict.Direction == models.Short && p.verdict.Severity > 0:
			shortScore += contribution
			shortCount++
			breakdown[p.name] = contribution
		default:
			breakdown[p.name] = 0
		}
	}

	opp := models.ScoredOpportunity{
		Instrument: instrument,
		Timeframe:  timeframe,
		Direction:  models.Neutral,
		Verdicts:   verdicts,
		Breakdown:  breakdown,
	}

	var score float64
	var agreeing int
	switch {
	case longScore > shortScore:
		opp.Direction = models.Long
		score, agreeing = longScore, longCount
	case shortScore > longScore:
		opp.Direction = models.Short
		score, agreeing = shortScore, shortCount
	default:
		// No edge, or both sides argue with equal force.
		opp.Tier = models.TierForScore(0)
		return opp, nil
	}

	// Agreement across independent evaluators is worth more than the
	// sum of its parts.
	if agreeing >= 2 {
		opp.Confluence = 1 + 0.1*float64(agreeing-1)
		score *= opp.Confluence
	} else {
		opp.Confluence = 1
	}
	score = math.Min(score, 10)

	if score < 0 || math.IsNaN(score) {
		return models.ScoredOpportunity{}, &InvariantViolation{
			Instrument: instrument,
			Timeframe:  timeframe,
			Check:      "score must be a number in [0,10]",
		}
	}

	opp.Score = score
	opp.Tier = models.TierForScore(score)
	return opp, nil
}

var _ domsvc.Aggregator = (*Aggregator)(nil)
