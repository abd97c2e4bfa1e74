// Package stats contains the pure event sinks: running counters per
// event category and the period-bucketed return-on-investment chain.
// Nothing here queries engine state; everything is derived from the
// delivered event stream.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/event"
)

// Counters is a snapshot of the aggregator. Counts only ever increase;
// sums only ever grow.
type Counters struct {
	CashCredits      int
	CashDebits       int
	Deposits         int
	InterestCredits  int
	OrdersExecuted   int
	OrdersDeleted    int
	Buys             int
	Sells            int
	ManagementFees   int
	DepositTotal     decimal.Decimal
	InterestTotal    decimal.Decimal
	TradeFeeTotal    decimal.Decimal
	MgmtFeeTotal     decimal.Decimal
	GrossBoughtTotal decimal.Decimal
	GrossSoldTotal   decimal.Decimal
}

// Aggregator tallies events. It implements event.Listener and is never
// rolled back; replaying a run into a fresh aggregator reproduces the
// same snapshot.
type Aggregator struct {
	c Counters
}

func NewAggregator() *Aggregator { return &Aggregator{} }

func (a *Aggregator) Handle(e event.Event) {
	switch ev := e.(type) {
	case event.CashEvent:
		switch ev.Reason {
		case event.CashCredit:
			a.c.CashCredits++
		case event.CashDebit:
			a.c.CashDebits++
		case event.CashDeposit:
			a.c.Deposits++
			a.c.DepositTotal = a.c.DepositTotal.Add(ev.Amount)
		case event.CashInterest:
			a.c.InterestCredits++
			a.c.InterestTotal = a.c.InterestTotal.Add(ev.Amount)
		}
	case event.OrderEvent:
		switch ev.Action {
		case event.OrderExecuted:
			a.c.OrdersExecuted++
		case event.OrderDeleted:
			a.c.OrdersDeleted++
		}
	case event.BrokerageEvent:
		switch ev.Side {
		case event.BrokerageBuy:
			a.c.Buys++
			a.c.GrossBoughtTotal = a.c.GrossBoughtTotal.Add(ev.Gross)
			a.c.TradeFeeTotal = a.c.TradeFeeTotal.Add(ev.Fee)
		case event.BrokerageSell:
			a.c.Sells++
			a.c.GrossSoldTotal = a.c.GrossSoldTotal.Add(ev.Gross)
			a.c.TradeFeeTotal = a.c.TradeFeeTotal.Add(ev.Fee)
		case event.BrokerageMgmtFee:
			a.c.ManagementFees++
			a.c.MgmtFeeTotal = a.c.MgmtFeeTotal.Add(ev.Fee)
		}
	}
}

// Snapshot returns the current counter values.
func (a *Aggregator) Snapshot() Counters { return a.c }
