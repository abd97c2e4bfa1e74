package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
)

// IntervalEntry places a fixed-value entry order every Every trading
// days, the first one Every days after the run starts. Orders trigger
// immediately and stay valid until filled or deleted.
type IntervalEntry struct {
	Every       int
	Value       decimal.Decimal
	OnShortfall Action

	days int
}

// NewIntervalEntry builds the dollar-cost style entry policy.
func NewIntervalEntry(every int, value decimal.Decimal, onShortfall Action) *IntervalEntry {
	return &IntervalEntry{Every: every, Value: value, OnShortfall: onShortfall}
}

func (p *IntervalEntry) Evaluate(bar market.Bar, _ []market.Bar, _ *broker.Brokerage, _ *account.Cash) *order.Order {
	p.days++
	if p.Every <= 0 || p.days%p.Every != 0 {
		return nil
	}
	o := order.New(order.Entry, bar.Date)
	o.Value = p.Value
	o.Trigger = order.Trigger{Kind: order.TriggerImmediate}
	return o
}

func (p *IntervalEntry) OnInsufficientFunds(_ *order.Order) Action { return p.OnShortfall }
