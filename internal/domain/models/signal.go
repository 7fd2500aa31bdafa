package models

import "time"

// Direction is the directional bias of a signal or opportunity.
type Direction string

const (
	Long    Direction = "long"
	Short   Direction = "short"
	Neutral Direction = "neutral"
)

// CrossState describes an indicator crossover condition.
type CrossState string

const (
	BullishCross CrossState = "bullish"
	BearishCross CrossState = "bearish"
	NoCross      CrossState = "none"
)

// TechnicalReading is a snapshot of already-computed indicator values for one
// instrument+timeframe. Produced fresh each run; immutable once read.
type TechnicalReading struct {
	RSI         float64
	MACDState   CrossState
	EMAState    CrossState
	VolumeSpike bool
	Price       float64
}

// FundingReading is the latest funding rate for an instrument. Rate is the
// raw signed rate (e.g. -0.0012 for -0.12%).
type FundingReading struct {
	Rate      float64
	Timestamp time.Time
}

// LiquidationReading aggregates liquidation volume by side over a fixed
// look-back window, in quote currency (USD).
type LiquidationReading struct {
	LongVolume  float64
	ShortVolume float64
}

// SignalVerdict is the output of a single evaluator. Severity 0 means the
// evaluator found nothing notable and contributes no weight downstream.
type SignalVerdict struct {
	Direction Direction `json:"direction"`
	Severity  float64   `json:"severity"`
	Reasons   []string  `json:"reasons,omitempty"`
}

// StrengthTier labels a score band for the notification renderer.
type StrengthTier string

const (
	TierWeak       StrengthTier = "weak"
	TierModerate   StrengthTier = "moderate"
	TierStrong     StrengthTier = "strong"
	TierVeryStrong StrengthTier = "very_strong"
)

// TierForScore maps a 0-10 score onto its strength tier.
func TierForScore(score float64) StrengthTier {
	switch {
	case score >= 8.5:
		return TierVeryStrong
	case score >= 7:
		return TierStrong
	case score >= 5:
		return TierModerate
	default:
		return TierWeak
	}
}

// ScoredOpportunity is the aggregator's output for one instrument+timeframe.
type ScoredOpportunity struct {
	Instrument string                   `json:"instrument"`
	Timeframe  string                   `json:"timeframe"`
	Direction  Direction                `json:"direction"`
	Score      float64                  `json:"score"`
	Tier       StrengthTier             `json:"tier"`
	Verdicts   map[string]SignalVerdict `json:"verdicts"`
	Breakdown  map[string]float64       `json:"breakdown"` // weighted contribution per evaluator
	Confluence float64                  `json:"confluence"` // agreement bonus multiplier, 0 when neutral
	Price      float64                  `json:"price,omitempty"`
	Timestamp  time.Time                `json:"timestamp"`
}

// Summary is the compact ranked report for one scan run.
type Summary struct {
	Long        []ScoredOpportunity `json:"long"`
	Short       []ScoredOpportunity `json:"short"`
	Total       int                 `json:"total"`
	Warnings    []string            `json:"warnings,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// DetailedAlert is the expanded report for a single high-score opportunity,
// carrying the full reasons list from every contributing verdict.
type DetailedAlert struct {
	Opportunity ScoredOpportunity `json:"opportunity"`
	Reasons     []string          `json:"reasons"`
}

// Candle is one OHLCV bar used for indicator computation.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Trade is one executed futures trade, used to estimate liquidation volume.
type Trade struct {
	Price        float64
	Qty          float64
	QuoteQty     float64
	Time         time.Time
	IsBuyerMaker bool
}
