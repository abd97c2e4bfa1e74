package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/event"
)

// Period is a ROI bucketing granularity.
type Period int

const (
	Daily Period = iota
	Monthly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}
	return "unknown"
}

// partialCountDays is the tie-break for a trailing partial month or
// year: it counts as a full period once the run is more than this many
// days into it.
const partialCountDays = 20

// PeriodROI is one emitted bucket output.
type PeriodROI struct {
	Period  Period
	Start   time.Time
	End     time.Time
	Percent decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// pctChange returns (to-from)/from*100 rounded to 4 places; zero when
// from is zero.
func pctChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred).Round(4)
}

// bucket accumulates net worth per period and emits one output each time
// its period boundary is crossed. baseNW is the closing net worth of the
// previous period, so each output measures period-over-period change.
type bucket struct {
	period Period
	total  *Total // set on the bucket that feeds the total accumulator

	periodStart time.Time
	baseNW      decimal.Decimal
	lastDate    time.Time
	lastNW      decimal.Decimal
	seeded      bool
	first       bool

	outputs []PeriodROI
}

func (b *bucket) sameBucket(a, d time.Time) bool {
	switch b.period {
	case Daily:
		return a.Equal(d)
	case Monthly:
		return a.Year() == d.Year() && a.Month() == d.Month()
	case Yearly:
		return a.Year() == d.Year()
	}
	return false
}

// periodBegin returns the calendar start of the period containing d.
func (b *bucket) periodBegin(d time.Time) time.Time {
	switch b.period {
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

// degenerate reports a first bucket holding only its seed observation:
// there is no earlier net worth to measure against, so it emits nothing.
func (b *bucket) degenerate() bool {
	return b.first && b.lastDate.Equal(b.periodStart)
}

func (b *bucket) observe(date time.Time, nw decimal.Decimal) {
	if !b.seeded {
		b.periodStart = date
		b.baseNW = nw
		b.lastDate, b.lastNW = date, nw
		b.seeded = true
		b.first = true
		return
	}
	if !b.sameBucket(b.periodStart, date) {
		if !b.degenerate() {
			b.flush()
		}
		b.first = false
		b.baseNW = b.lastNW
		b.periodStart = date
	}
	b.lastDate, b.lastNW = date, nw
}

func (b *bucket) flush() {
	out := PeriodROI{
		Period:  b.period,
		Start:   b.periodStart,
		End:     b.lastDate,
		Percent: pctChange(b.baseNW, b.lastNW),
	}
	b.outputs = append(b.outputs, out)
	if b.total != nil {
		b.total.add(out.Percent)
	}
}

// finalize decides whether the trailing partial period counts. Daily
// buckets always flush; monthly and yearly only when the run reached
// more than partialCountDays past the calendar start of the trailing
// period.
func (b *bucket) finalize() {
	if !b.seeded || b.degenerate() {
		return
	}
	if b.period != Daily {
		into := int(b.lastDate.Sub(b.periodBegin(b.lastDate)).Hours() / 24)
		if into <= partialCountDays {
			return
		}
	}
	b.flush()
}

// Total compounds the yearly bucket outputs into one overall return.
// Each granularity re-measures the same run, so only one layer may feed
// the total without double counting.
type Total struct {
	factor decimal.Decimal // product of (1 + p/100)
	seeded bool
}

func (t *Total) add(percent decimal.Decimal) {
	f := decimal.NewFromInt(1).Add(percent.Div(hundred))
	if !t.seeded {
		t.factor = f
		t.seeded = true
		return
	}
	t.factor = t.factor.Mul(f)
}

// Percent reports the compounded total return.
func (t *Total) Percent() decimal.Decimal {
	if !t.seeded {
		return decimal.Zero
	}
	return t.factor.Sub(decimal.NewFromInt(1)).Mul(hundred).Round(4)
}

// Chain is the ROI listener chain: a cumulative calculator that updates
// on every net worth event and forwards to daily, monthly and yearly
// buckets, with the yearly layer feeding the final total accumulator.
// Feeding the same event sequence into a fresh chain yields identical
// outputs.
type Chain struct {
	initial decimal.Decimal
	prev    decimal.Decimal
	seeded  bool

	cumulative decimal.Decimal
	lastChange decimal.Decimal

	daily   *bucket
	monthly *bucket
	yearly  *bucket
	total   *Total
}

func NewChain() *Chain {
	t := &Total{}
	return &Chain{
		daily:   &bucket{period: Daily},
		monthly: &bucket{period: Monthly},
		yearly:  &bucket{period: Yearly, total: t},
		total:   t,
	}
}

// Handle consumes net worth events; all other kinds are ignored. The
// Final event also finalizes the trailing partial buckets.
func (c *Chain) Handle(e event.Event) {
	nw, ok := e.(event.NetWorthEvent)
	if !ok {
		return
	}
	if !c.seeded {
		c.initial = nw.NetWorth
		c.prev = nw.NetWorth
		c.seeded = true
	} else {
		c.lastChange = pctChange(c.prev, nw.NetWorth)
		c.cumulative = pctChange(c.initial, nw.NetWorth)
		c.prev = nw.NetWorth
	}

	c.daily.observe(nw.Date, nw.NetWorth)
	c.monthly.observe(nw.Date, nw.NetWorth)
	c.yearly.observe(nw.Date, nw.NetWorth)

	if nw.Final {
		c.daily.finalize()
		c.monthly.finalize()
		c.yearly.finalize()
	}
}

// Cumulative reports the percentage change from the first observed net
// worth to the latest.
func (c *Chain) Cumulative() decimal.Decimal { return c.cumulative }

// LastChange reports the percentage change between the two most recent
// net worth observations.
func (c *Chain) LastChange() decimal.Decimal { return c.lastChange }

// Outputs returns the emitted bucket outputs for a period.
func (c *Chain) Outputs(p Period) []PeriodROI {
	switch p {
	case Daily:
		return c.daily.outputs
	case Monthly:
		return c.monthly.outputs
	case Yearly:
		return c.yearly.outputs
	}
	return nil
}

// Total reports the compounded total across the yearly outputs.
func (c *Chain) Total() decimal.Decimal { return c.total.Percent() }
