// Package broker implements the equity side of the simulation: the
// holdings ledger, trade fee schedules, and the periodic management fee.
// Cash moves through the account package; the two ledgers only ever
// change together inside Buy and Sell.
package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
)

// ErrInsufficientHoldings is returned by Sell when the holding cannot
// cover the requested quantity.
var ErrInsufficientHoldings = errors.New("broker: insufficient holdings")

// quantityPlaces is the precision shares are tracked at. Cash amounts
// round to cents only when they hit a ledger.
const quantityPlaces = 8

// Lot is one cost basis entry, consumed oldest-first on sells.
type Lot struct {
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Brokerage holds a single instrument's equity position plus the fee
// structures applied to it. Mutated only by successful order execution
// and the management fee.
type Brokerage struct {
	instrument string
	quantity   decimal.Decimal
	lots       []Lot

	fees FeeSchedule
	mgmt ManagementFee

	lastMgmtYear int

	bus *event.Bus
}

// New builds a brokerage ledger. bus may be nil for ledger-only use.
func New(instrument string, fees FeeSchedule, mgmt ManagementFee, bus *event.Bus) *Brokerage {
	return &Brokerage{instrument: instrument, fees: fees, mgmt: mgmt, bus: bus}
}

func (b *Brokerage) Instrument() string        { return b.instrument }
func (b *Brokerage) Quantity() decimal.Decimal { return b.quantity }
func (b *Brokerage) Fees() FeeSchedule         { return b.fees }

// Lots returns the cost basis ledger, oldest first. Shared slice; do not
// modify.
func (b *Brokerage) Lots() []Lot { return b.lots }

// Value marks the holding at the bar's close.
func (b *Brokerage) Value(bar market.Bar) decimal.Decimal {
	return b.quantity.Mul(bar.Close).Round(2)
}

// Buy executes an entry order at the bar's close: the cash debit (gross
// plus fee) and the holding credit happen as one atomic step. On
// insufficient funds neither ledger changes and the account's error is
// returned unwrapped for the policy to handle.
func (b *Brokerage) Buy(o *order.Order, bar market.Bar, cash *account.Cash) (event.BrokerageEvent, error) {
	qty := o.Quantity
	if qty.IsZero() {
		if !o.Value.IsPositive() {
			return event.BrokerageEvent{}, fmt.Errorf("broker: buy %s has no value or quantity", o.ID)
		}
		qty = o.Value.DivRound(bar.Close, quantityPlaces)
	}
	if !qty.IsPositive() {
		return event.BrokerageEvent{}, fmt.Errorf("broker: buy %s resolves to zero quantity", o.ID)
	}

	gross := qty.Mul(bar.Close).Round(2)
	fee := b.fees.Fee(gross)

	// Debit is all-or-nothing; the holding credit below cannot fail, so
	// the pair is atomic.
	if err := cash.Debit(gross.Add(fee), bar.Date); err != nil {
		return event.BrokerageEvent{}, err
	}

	b.quantity = b.quantity.Add(qty)
	b.lots = append(b.lots, Lot{Date: bar.Date, Quantity: qty, Price: bar.Close})

	ev := event.BrokerageEvent{
		Date: bar.Date, Side: event.BrokerageBuy,
		Quantity: qty, Price: bar.Close, Gross: gross, Fee: fee,
		HoldingAfter: b.quantity,
	}
	b.emit(ev)
	return ev, nil
}

// Sell executes an exit order at the bar's close. A zero quantity and
// value closes the entire holding. Cash is credited net of fee; the
// holding debit and cash credit are one atomic step.
func (b *Brokerage) Sell(o *order.Order, bar market.Bar, cash *account.Cash) (event.BrokerageEvent, error) {
	qty := o.Quantity
	if qty.IsZero() && o.Value.IsPositive() {
		qty = o.Value.DivRound(bar.Close, quantityPlaces)
	}
	if qty.IsZero() {
		qty = b.quantity
	}
	if !qty.IsPositive() {
		return event.BrokerageEvent{}, fmt.Errorf("broker: sell %s resolves to zero quantity", o.ID)
	}
	if qty.GreaterThan(b.quantity) {
		return event.BrokerageEvent{}, fmt.Errorf("%w: want %s, hold %s",
			ErrInsufficientHoldings, qty, b.quantity)
	}

	gross := qty.Mul(bar.Close).Round(2)
	fee := b.fees.Fee(gross)
	net := gross.Sub(fee)
	if net.IsNegative() {
		net = decimal.Zero
	}

	b.consumeLots(qty)
	b.quantity = b.quantity.Sub(qty)
	if err := cash.Credit(net, bar.Date); err != nil {
		// Credit only rejects negative amounts, which net cannot be.
		return event.BrokerageEvent{}, err
	}

	ev := event.BrokerageEvent{
		Date: bar.Date, Side: event.BrokerageSell,
		Quantity: qty, Price: bar.Close, Gross: gross, Fee: fee,
		HoldingAfter: b.quantity,
	}
	b.emit(ev)
	return ev, nil
}

// ApplyManagementFee charges the yearly fee in equity units on the first
// bar of a new calendar year. No-op when unconfigured or the holding is
// empty.
func (b *Brokerage) ApplyManagementFee(bar market.Bar) {
	if b.mgmt.Kind == MgmtNone {
		return
	}
	year := bar.Date.Year()
	if b.lastMgmtYear == 0 {
		b.lastMgmtYear = year
		return
	}
	if year == b.lastMgmtYear {
		return
	}
	b.lastMgmtYear = year
	if !b.quantity.IsPositive() || !bar.Close.IsPositive() {
		return
	}

	feeValue := b.mgmt.Fee(b.Value(bar))
	feeQty := feeValue.DivRound(bar.Close, quantityPlaces)
	if feeQty.GreaterThan(b.quantity) {
		feeQty = b.quantity
	}
	if !feeQty.IsPositive() {
		return
	}

	b.consumeLots(feeQty)
	b.quantity = b.quantity.Sub(feeQty)

	b.emit(event.BrokerageEvent{
		Date: bar.Date, Side: event.BrokerageMgmtFee,
		Quantity: feeQty, Price: bar.Close, Gross: feeValue, Fee: feeValue,
		HoldingAfter: b.quantity,
	})
}

// consumeLots reduces the cost basis ledger oldest-first.
func (b *Brokerage) consumeLots(qty decimal.Decimal) {
	remaining := qty
	for len(b.lots) > 0 && remaining.IsPositive() {
		lot := &b.lots[0]
		if lot.Quantity.GreaterThan(remaining) {
			lot.Quantity = lot.Quantity.Sub(remaining)
			return
		}
		remaining = remaining.Sub(lot.Quantity)
		b.lots = b.lots[1:]
	}
}

func (b *Brokerage) emit(ev event.BrokerageEvent) {
	if b.bus != nil {
		b.bus.Publish(ev)
	}
}
