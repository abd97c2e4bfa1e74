package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/stats"
)

// Report is the result of one completed run: final ledger state plus the
// statistics and ROI outputs collected from the event stream.
type Report struct {
	Instrument string
	Start      time.Time
	End        time.Time
	Bars       int

	FinalBalance decimal.Decimal
	FinalEquity  decimal.Decimal
	FinalNet     decimal.Decimal

	Counters stats.Counters

	Cumulative decimal.Decimal
	TotalROI   decimal.Decimal
	DailyROI   []stats.PeriodROI
	MonthlyROI []stats.PeriodROI
	YearlyROI  []stats.PeriodROI
}
