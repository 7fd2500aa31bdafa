// Package indicators computes the technical indicator snapshot an
// evaluation run needs from raw OHLCV candles. All functions are pure and
// operate on closed bars only; the caller is expected to drop the
// still-forming candle before calling in here.
package indicators

import (
	"errors"
	"fmt"

	"FutScan/internal/domain/models"
)

// ErrInsufficientData marks a symbol/timeframe with too little history to
// compute a stable snapshot. Callers should treat it as missing data, not
// as a failure.
var ErrInsufficientData = errors.New("insufficient candle history")

// Config holds indicator periods and the volume spike ratio.
type Config struct {
	RSIPeriod        int
	MACDFast         int
	MACDSlow         int
	MACDSignal       int
	VolumeLookback   int
	VolumeSpikeRatio float64
}

// DefaultConfig returns the standard RSI(14), MACD(12,26,9) setup with a
// 20-bar volume baseline.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		VolumeLookback:   20,
		VolumeSpikeRatio: 2.0,
	}
}

// warmup is the number of extra bars required beyond the slowest period so
// the EMAs have converged before we read a crossover off them.
const warmup = 10

// MinBars is the minimum candle count BuildReading accepts.
func (c Config) MinBars() int {
	return c.MACDSlow + warmup
}

// Calculator derives a TechnicalReading from candles.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// BuildReading computes the full snapshot for one symbol+timeframe.
// Returns ErrInsufficientData when the history is too short.
func (c *Calculator) BuildReading(candles []models.Candle) (*models.TechnicalReading, error) {
	if len(candles) < c.cfg.MinBars() {
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientData, len(candles), c.cfg.MinBars())
	}

	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, k := range candles {
		closes[i] = k.Close
		volumes[i] = k.Volume
	}

	rsi, err := RSI(closes, c.cfg.RSIPeriod)
	if err != nil {
		return nil, err
	}

	macdState, err := MACDCross(closes, c.cfg.MACDFast, c.cfg.MACDSlow, c.cfg.MACDSignal)
	if err != nil {
		return nil, err
	}

	emaState := emaCross(closes, c.cfg.MACDFast, c.cfg.MACDSlow)

	ratio := VolumeRatio(volumes, c.cfg.VolumeLookback)

	return &models.TechnicalReading{
		RSI:         rsi,
		MACDState:   macdState,
		EMAState:    emaState,
		VolumeSpike: ratio >= c.cfg.VolumeSpikeRatio,
		Price:       closes[len(closes)-1],
	}, nil
}

// RSI computes the relative strength index over the last `period` price
// changes using simple averages of gains and losses.
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, fmt.Errorf("%w: RSI(%d) needs %d closes", ErrInsufficientData, period, period+1)
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		return 100, nil
	}
	rs := gains / losses
	return 100 - 100/(1+rs), nil
}

// EMA returns the exponential moving average series with alpha 2/(span+1),
// seeded with the first value. Output has the same length as the input.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDCross reports whether the MACD line crossed its signal line between
// the last two bars.
func MACDCross(closes []float64, fast, slow, signal int) (models.CrossState, error) {
	if len(closes) < slow+2 {
		return models.NoCross, fmt.Errorf("%w: MACD(%d,%d,%d) needs %d closes", ErrInsufficientData, fast, slow, signal, slow+2)
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMA(macd, signal)

	n := len(closes)
	prev := macd[n-2] - signalLine[n-2]
	curr := macd[n-1] - signalLine[n-1]
	return crossFromDiffs(prev, curr), nil
}

// emaCross reports whether the fast EMA crossed the slow EMA between the
// last two bars. Length is already checked by BuildReading.
func emaCross(closes []float64, fast, slow int) models.CrossState {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	n := len(closes)
	prev := fastEMA[n-2] - slowEMA[n-2]
	curr := fastEMA[n-1] - slowEMA[n-1]
	return crossFromDiffs(prev, curr)
}

func crossFromDiffs(prev, curr float64) models.CrossState {
	switch {
	case prev <= 0 && curr > 0:
		return models.BullishCross
	case prev >= 0 && curr < 0:
		return models.BearishCross
	default:
		return models.NoCross
	}
}

// VolumeRatio compares the latest bar's volume against the mean of the
// preceding `lookback` bars. Returns 0 when the baseline is empty or flat.
func VolumeRatio(volumes []float64, lookback int) float64 {
	if len(volumes) < lookback+1 {
		return 0
	}
	var sum float64
	for i := len(volumes) - 1 - lookback; i < len(volumes)-1; i++ {
		sum += volumes[i]
	}
	mean := sum / float64(lookback)
	if mean == 0 {
		return 0
	}
	return volumes[len(volumes)-1] / mean
}
