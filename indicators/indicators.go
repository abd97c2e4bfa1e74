// Package indicators provides the technical analysis functions behind
// the shipped signal providers. Indicator math runs on float64 closes;
// exact decimals matter for the ledgers, not for signal generation.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/stratsim/market"
)

func closes(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i], _ = bars[i].Close.Float64()
	}
	return out
}

// SMA calculates the Simple Moving Average over the last period bars.
func SMA(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}
	cs := closes(bars)
	sum := 0.0
	for i := len(cs) - period; i < len(cs); i++ {
		sum += cs[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period bars.
func EMA(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}
	cs := closes(bars)

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += cs[i]
	}
	ema := sma / float64(period)

	for i := period; i < len(cs); i++ {
		ema = (cs[i]-ema)*multiplier + ema
	}
	return ema, nil
}

// RSI calculates the Relative Strength Index over the last period
// intervals using Wilder's smoothing.
func RSI(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}
	cs := closes(bars)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := cs[i] - cs[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(cs); i++ {
		delta := cs[i] - cs[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
