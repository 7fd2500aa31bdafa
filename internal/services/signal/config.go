package signal

// Config carries every weight and threshold the evaluators and aggregator
// use. It is passed in explicitly so evaluation stays deterministic and
// testable; nothing reads process-wide state.
type Config struct {
	// Technical evaluator
	RSIOversold   float64
	RSIOverbought float64
	MACDWeight    float64 // fixed contribution of a MACD crossover
	EMAWeight     float64 // fixed contribution of an EMA crossover
	VolumeFactor  float64 // multiplier applied to an existing bias on a volume spike

	// Funding evaluator (raw rate, e.g. 0.001 = 0.10%)
	FundingExtreme  float64
	FundingModerate float64

	// Liquidation evaluator
	LiqMinNotable float64 // USD volume below which liquidations are ignored
	LiqRatio      float64 // dominant side must exceed the other by this factor
	LiqDivisor    float64 // severity = vol / (LiqMinNotable * LiqDivisor)

	// Aggregator weights (sum to the score's 0-10 range)
	TechnicalWeight   float64
	FundingWeight     float64
	LiquidationWeight float64

	// Ranking
	MinScore          float64 // inclusive threshold for the summary
	DetailedThreshold float64 // inclusive threshold for detailed alerts
	TopN              int     // per-direction cap on ranked output
	MaxDetailed       int     // cap on detailed alerts per run
}

// DefaultConfig returns the stock thresholds and weights.
func DefaultConfig() Config {
	return Config{
		RSIOversold:       30,
		RSIOverbought:     70,
		MACDWeight:        0.5,
		EMAWeight:         0.3,
		VolumeFactor:      1.2,
		FundingExtreme:    0.001,
		FundingModerate:   0.0005,
		LiqMinNotable:     1_000_000,
		LiqRatio:          2.0,
		LiqDivisor:        5.0,
		TechnicalWeight:   5.0,
		FundingWeight:     3.0,
		LiquidationWeight: 2.0,
		MinScore:          7.0,
		DetailedThreshold: 8.5,
		TopN:              5,
		MaxDetailed:       3,
	}
}
