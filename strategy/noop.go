package strategy

import (
	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
)

// NoEntry never places an order. Baseline for buy-nothing runs.
type NoEntry struct{}

func (NoEntry) Evaluate(market.Bar, []market.Bar, *broker.Brokerage, *account.Cash) *order.Order {
	return nil
}

func (NoEntry) OnInsufficientFunds(*order.Order) Action { return Delete }

// NoExit holds forever.
type NoExit struct{}

func (NoExit) Evaluate(market.Bar, []market.Bar, *broker.Brokerage) *order.Order { return nil }

func (NoExit) OnInsufficientFunds(*order.Order) Action { return Delete }
