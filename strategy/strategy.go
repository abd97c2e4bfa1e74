// Package strategy defines the entry/exit policies the engine consults
// each day and the signal provider boundary they wrap. Indicator logic
// never leaks past SignalProvider: a policy sees Buy, Sell or Hold.
package strategy

import (
	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
)

// Signal is a single trading decision for one day.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "hold"
}

// SignalProvider evaluates the price window ending today and emits one
// decision. Providers may keep internal state; the engine calls Evaluate
// exactly once per simulated day, in date order.
type SignalProvider interface {
	Evaluate(window []market.Bar) Signal
}

// Action is a policy's answer when its order fails on insufficient funds.
type Action int

const (
	// Delete drops the order with a DELETED order event.
	Delete Action = iota
	// Resubmit re-queues the order unchanged for the next day.
	Resubmit
)

// EntryPolicy decides whether to place a new entry order for the day.
// Evaluate returns nil on days with nothing to do. window is the price
// history ending at bar, warm-up included.
type EntryPolicy interface {
	Evaluate(bar market.Bar, window []market.Bar, b *broker.Brokerage, c *account.Cash) *order.Order
	OnInsufficientFunds(o *order.Order) Action
}

// ExitPolicy decides whether to place a new exit order for the day.
type ExitPolicy interface {
	Evaluate(bar market.Bar, window []market.Bar, b *broker.Brokerage) *order.Order
	OnInsufficientFunds(o *order.Order) Action
}
