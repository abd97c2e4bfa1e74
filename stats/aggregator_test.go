package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/market"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregatorCounts(t *testing.T) {
	a := NewAggregator()
	day := market.Date(2024, 3, 4)

	a.Handle(event.CashEvent{Date: day, Reason: event.CashDeposit, Amount: amount("100")})
	a.Handle(event.CashEvent{Date: day, Reason: event.CashDeposit, Amount: amount("100")})
	a.Handle(event.CashEvent{Date: day, Reason: event.CashInterest, Amount: amount("1.27")})
	a.Handle(event.CashEvent{Date: day, Reason: event.CashDebit, Amount: amount("50")})
	a.Handle(event.CashEvent{Date: day, Reason: event.CashCredit, Amount: amount("25")})

	a.Handle(event.OrderEvent{Date: day, Action: event.OrderExecuted})
	a.Handle(event.OrderEvent{Date: day, Action: event.OrderDeleted})
	a.Handle(event.OrderEvent{Date: day, Action: event.OrderDeleted})

	a.Handle(event.BrokerageEvent{Date: day, Side: event.BrokerageBuy, Gross: amount("200"), Fee: amount("2")})
	a.Handle(event.BrokerageEvent{Date: day, Side: event.BrokerageSell, Gross: amount("150"), Fee: amount("1.5")})
	a.Handle(event.BrokerageEvent{Date: day, Side: event.BrokerageMgmtFee, Fee: amount("4.4")})

	c := a.Snapshot()
	if c.Deposits != 2 || c.DepositTotal.String() != "200" {
		t.Errorf("deposits = %d total %s", c.Deposits, c.DepositTotal)
	}
	if c.InterestCredits != 1 || c.InterestTotal.String() != "1.27" {
		t.Errorf("interest = %d total %s", c.InterestCredits, c.InterestTotal)
	}
	if c.CashDebits != 1 || c.CashCredits != 1 {
		t.Errorf("debits/credits = %d/%d", c.CashDebits, c.CashCredits)
	}
	if c.OrdersExecuted != 1 || c.OrdersDeleted != 2 {
		t.Errorf("orders = %d executed, %d deleted", c.OrdersExecuted, c.OrdersDeleted)
	}
	if c.Buys != 1 || c.GrossBoughtTotal.String() != "200" {
		t.Errorf("buys = %d gross %s", c.Buys, c.GrossBoughtTotal)
	}
	if c.Sells != 1 || c.GrossSoldTotal.String() != "150" {
		t.Errorf("sells = %d gross %s", c.Sells, c.GrossSoldTotal)
	}
	if c.TradeFeeTotal.String() != "3.5" {
		t.Errorf("trade fees = %s, want 3.5", c.TradeFeeTotal)
	}
	if c.ManagementFees != 1 || c.MgmtFeeTotal.String() != "4.4" {
		t.Errorf("mgmt fees = %d total %s", c.ManagementFees, c.MgmtFeeTotal)
	}
}

func TestAggregatorReplayIdentical(t *testing.T) {
	events := []event.Event{
		event.CashEvent{Reason: event.CashDeposit, Amount: amount("100")},
		event.BrokerageEvent{Side: event.BrokerageBuy, Gross: amount("99"), Fee: amount("1")},
		event.OrderEvent{Action: event.OrderExecuted},
	}

	a, b := NewAggregator(), NewAggregator()
	for _, e := range events {
		a.Handle(e)
		b.Handle(e)
	}

	ca, cb := a.Snapshot(), b.Snapshot()
	if ca.Deposits != cb.Deposits || ca.Buys != cb.Buys || ca.OrdersExecuted != cb.OrdersExecuted {
		t.Fatalf("replay counts diverged: %+v vs %+v", ca, cb)
	}
	if !ca.DepositTotal.Equal(cb.DepositTotal) ||
		!ca.GrossBoughtTotal.Equal(cb.GrossBoughtTotal) ||
		!ca.TradeFeeTotal.Equal(cb.TradeFeeTotal) {
		t.Fatalf("replay sums diverged: %+v vs %+v", ca, cb)
	}
}
