package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one trading day's OHLC (Open, High, Low, Close) prices.
// Monetary fields are exact decimals; a Bar is never mutated after load.
type Bar struct {
	Date  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// Day truncates t to midnight UTC. All bar dates are stored this way so
// date comparisons are exact across the module.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a bar date for year/month/day, midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
