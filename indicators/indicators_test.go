package indicators

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/strategy"
)

func barsFrom(closes ...float64) []market.Bar {
	start := market.Date(2024, 3, 1)
	out := make([]market.Bar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromFloat(c)
		out[i] = market.Bar{Date: start.AddDate(0, 0, i), Open: d, High: d, Low: d, Close: d}
	}
	return out
}

func near(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %f, want %f", what, got, want)
	}
}

func TestSMA(t *testing.T) {
	v, err := SMA(barsFrom(1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	near(t, v, 4, "sma")

	if _, err := SMA(barsFrom(1, 2), 3); err == nil {
		t.Error("short window accepted")
	}
	if _, err := SMA(barsFrom(1, 2, 3), 0); err == nil {
		t.Error("zero period accepted")
	}
}

func TestEMA(t *testing.T) {
	// Seeded with SMA(1,2,3)=2, multiplier 0.5: 3 then 4.
	v, err := EMA(barsFrom(1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	near(t, v, 4, "ema")

	if _, err := EMA(barsFrom(1, 2), 3); err == nil {
		t.Error("short window accepted")
	}
}

func TestRSI(t *testing.T) {
	up, err := RSI(barsFrom(1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	near(t, up, 100, "rsi all gains")

	down, err := RSI(barsFrom(5, 4, 3, 2, 1), 3)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	near(t, down, 0, "rsi all losses")

	mixed, err := RSI(barsFrom(44, 45, 46, 45), 3)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	near(t, mixed, 100-100/(1+2.0), "rsi mixed")

	if _, err := RSI(barsFrom(1, 2, 3), 3); err == nil {
		t.Error("window without period+1 bars accepted")
	}
}

// walk feeds the provider growing windows, one bar at a time.
func walk(p strategy.SignalProvider, bars []market.Bar) []strategy.Signal {
	out := make([]strategy.Signal, len(bars))
	for i := range bars {
		out[i] = p.Evaluate(bars[:i+1])
	}
	return out
}

func TestMACross(t *testing.T) {
	bars := barsFrom(10, 9, 8, 12, 14, 9, 7)
	got := walk(&MACross{Fast: 2, Slow: 3}, bars)
	want := []strategy.Signal{
		strategy.Hold, // no history
		strategy.Hold, // slow not ready
		strategy.Hold, // seeding day
		strategy.Buy,  // fast crosses above
		strategy.Hold,
		strategy.Sell, // fast crosses back below
		strategy.Hold,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRSIBandsOncePerExcursion(t *testing.T) {
	bars := barsFrom(50, 45, 40, 38, 50, 60, 55)
	got := walk(&RSIBands{Period: 2, Lower: 30, Upper: 70}, bars)
	want := []strategy.Signal{
		strategy.Hold, // no history
		strategy.Hold, // not enough bars
		strategy.Buy,  // oversold
		strategy.Hold, // still oversold, no repeat
		strategy.Sell, // overbought
		strategy.Hold, // still overbought, no repeat
		strategy.Hold, // back between bands
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %v, want %v", i, got[i], want[i])
		}
	}
}
