package indicators

import (
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/strategy"
)

// MACross signals Buy when the fast moving average crosses above the
// slow one and Sell on the cross back down. Hold until both averages
// have enough history and on every non-crossing day.
type MACross struct {
	Fast, Slow  int
	Exponential bool

	prevDiff float64
	seeded   bool
}

func (m *MACross) Evaluate(window []market.Bar) strategy.Signal {
	avg := SMA
	if m.Exponential {
		avg = EMA
	}
	fast, err := avg(window, m.Fast)
	if err != nil {
		return strategy.Hold
	}
	slow, err := avg(window, m.Slow)
	if err != nil {
		return strategy.Hold
	}

	diff := fast - slow
	defer func() { m.prevDiff, m.seeded = diff, true }()

	if !m.seeded {
		return strategy.Hold
	}
	switch {
	case m.prevDiff <= 0 && diff > 0:
		return strategy.Buy
	case m.prevDiff >= 0 && diff < 0:
		return strategy.Sell
	}
	return strategy.Hold
}

// RSIBands signals Buy below the lower band and Sell above the upper
// band, once per excursion.
type RSIBands struct {
	Period       int
	Lower, Upper float64

	inLower, inUpper bool
}

func (r *RSIBands) Evaluate(window []market.Bar) strategy.Signal {
	v, err := RSI(window, r.Period)
	if err != nil {
		return strategy.Hold
	}

	switch {
	case v <= r.Lower:
		if !r.inLower {
			r.inLower = true
			return strategy.Buy
		}
	case v >= r.Upper:
		if !r.inUpper {
			r.inUpper = true
			return strategy.Sell
		}
	default:
		r.inLower, r.inUpper = false, false
	}
	return strategy.Hold
}
