// Package order models entry and exit orders: their validity window, the
// execution trigger, and the requested size. The lifecycle transitions
// themselves (Pending to Executed, Deleted or Expired) are driven by the
// simulation engine; an order is never mutated, only dropped.
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/pkg/id"
)

// Side says whether an order opens (entry) or reduces (exit) a holding.
type Side string

const (
	Entry Side = "ENTRY"
	Exit  Side = "EXIT"
)

// TriggerKind enumerates the supported execution conditions.
type TriggerKind int

const (
	// TriggerImmediate fires on the first bar the order is retried against.
	TriggerImmediate TriggerKind = iota
	// TriggerPriceAtOrBelow fires when the bar closes at or below Limit.
	TriggerPriceAtOrBelow
	// TriggerPriceAtOrAbove fires when the bar closes at or above Limit.
	TriggerPriceAtOrAbove
	// TriggerOnOrAfter fires on the first bar dated at or after Date.
	TriggerOnOrAfter
)

// Trigger is the execution condition, a pure function of a bar.
type Trigger struct {
	Kind  TriggerKind
	Limit decimal.Decimal
	Date  time.Time
}

// Met reports whether the bar satisfies the trigger.
func (t Trigger) Met(b market.Bar) bool {
	switch t.Kind {
	case TriggerImmediate:
		return true
	case TriggerPriceAtOrBelow:
		return b.Close.LessThanOrEqual(t.Limit)
	case TriggerPriceAtOrAbove:
		return b.Close.GreaterThanOrEqual(t.Limit)
	case TriggerOnOrAfter:
		return !b.Date.Before(market.Day(t.Date))
	}
	return false
}

// Validity bounds the dates an order may execute on. Zero values mean
// unbounded on that side.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// Contains reports whether d falls inside the window.
func (v Validity) Contains(d time.Time) bool {
	if !v.NotBefore.IsZero() && d.Before(v.NotBefore) {
		return false
	}
	if !v.NotAfter.IsZero() && d.After(v.NotAfter) {
		return false
	}
	return true
}

// Order is a request to trade. Exactly one of Value (cash to commit) or
// Quantity (units to trade) should be positive; an exit order with both
// zero means "close the entire holding".
type Order struct {
	ID       string
	Side     Side
	Validity Validity
	Trigger  Trigger
	Value    decimal.Decimal
	Quantity decimal.Decimal
	Created  time.Time
}

// New builds an order with a fresh time-sortable ID.
func New(side Side, created time.Time) *Order {
	return &Order{ID: id.Order(), Side: side, Created: market.Day(created)}
}

func (o *Order) String() string {
	return fmt.Sprintf("%s order %s (value %s, qty %s)",
		o.Side, o.ID, o.Value.StringFixed(2), o.Quantity.String())
}
