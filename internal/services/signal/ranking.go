package signal

import (
	"sort"

	"FutScan/internal/domain/models"
)

// Ranker filters, orders and partitions scored opportunities for delivery.
type Ranker struct {
	cfg Config
}

func NewRanker(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank keeps opportunities at or above the minimum score, orders them
// deterministically (score, then confluence, then instrument, then
// timeframe) and splits them by direction, capping each side at TopN.
func (r *Ranker) Rank(opps []models.ScoredOpportunity) ([]models.ScoredOpportunity, []models.ScoredOpportunity) {
	kept := make([]models.ScoredOpportunity, 0, len(opps))
	for _, o := range opps {
		if o.Direction == models.Neutral || o.Score < r.cfg.MinScore {
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confluence != b.Confluence {
			return a.Confluence > b.Confluence
		}
		if a.Instrument != b.Instrument {
			return a.Instrument < b.Instrument
		}
		return a.Timeframe < b.Timeframe
	})

	var long, short []models.ScoredOpportunity
	for _, o := range kept {
		switch o.Direction {
		case models.Long:
			if len(long) < r.cfg.TopN {
				long = append(long, o)
			}
		case models.Short:
			if len(short) < r.cfg.TopN {
				short = append(short, o)
			}
		}
	}
	return long, short
}

// DetailedAlerts picks the strongest ranked opportunities for individual
// alerts. Input order is assumed already ranked; both directions compete
// for the same MaxDetailed slots.
func (r *Ranker) DetailedAlerts(long, short []models.ScoredOpportunity) []models.DetailedAlert {
	merged := make([]models.ScoredOpportunity, 0, len(long)+len(short))
	merged = append(merged, long...)
	merged = append(merged, short...)
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confluence != b.Confluence {
			return a.Confluence > b.Confluence
		}
		if a.Instrument != b.Instrument {
			return a.Instrument < b.Instrument
		}
		return a.Timeframe < b.Timeframe
	})

	var alerts []models.DetailedAlert
	for _, o := range merged {
		if o.Score < r.cfg.DetailedThreshold {
			break
		}
		if len(alerts) == r.cfg.MaxDetailed {
			break
		}
		alerts = append(alerts, models.DetailedAlert{
			Opportunity: o,
			Reasons:     collectReasons(o),
		})
	}
	return alerts
}

// collectReasons flattens the reasons of every contributing verdict in a
// fixed evaluator order so alert text is stable run to run. Verdicts that
// oppose the final direction are kept: their reasons explain what the
// score already absorbed.
func collectReasons(o models.ScoredOpportunity) []string {
	var out []string
	for _, part := range []string{partTechnical, partFunding, partLiquidation} {
		if v, ok := o.Verdicts[part]; ok && v.Direction != models.Neutral {
			out = append(out, v.Reasons...)
		}
	}
	return out
}
