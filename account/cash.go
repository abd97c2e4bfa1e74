// Package account implements the simulation's cash ledger: balance,
// daily interest accrual with monthly crediting, and scheduled deposits.
package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/market"
)

// ErrInsufficientFunds is returned by Debit when the balance cannot cover
// the requested amount. The ledger is left untouched.
var ErrInsufficientFunds = errors.New("account: insufficient funds")

// InsufficientFundsError carries the amounts behind ErrInsufficientFunds.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Balance   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account: insufficient funds: requested %s, balance %s",
		e.Requested.StringFixed(2), e.Balance.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// DepositFrequency says how often a scheduled deposit recurs.
type DepositFrequency string

const (
	DepositNone    DepositFrequency = ""
	DepositWeekly  DepositFrequency = "weekly"
	DepositMonthly DepositFrequency = "monthly"
)

// DepositSchedule credits a fixed amount on a recurring calendar schedule,
// starting one interval after the account opens.
type DepositSchedule struct {
	Every  DepositFrequency
	Amount decimal.Decimal
}

var daysPerYear = decimal.NewFromInt(365)

// Cash is the funds ledger. Interest is calculated daily and credited
// monthly; deposits land on their scheduled calendar date or the first
// advanced date after it. Mutations happen only through Advance, Debit
// and Credit, and each one emits a CashEvent after it commits.
type Cash struct {
	balance decimal.Decimal
	opened  time.Time
	rate    decimal.Decimal // annual, e.g. 0.015
	sched   DepositSchedule

	accrued decimal.Decimal // interest accrued since last monthly credit
	nextDep time.Time
	last    time.Time // last advanced date, zero before the first Advance

	bus *event.Bus
}

// NewCash opens a cash account. rate is the annual interest rate as a
// fraction. bus may be nil for ledger-only use (tests).
func NewCash(opening decimal.Decimal, opened time.Time, rate decimal.Decimal, sched DepositSchedule, bus *event.Bus) (*Cash, error) {
	if opening.IsNegative() {
		return nil, fmt.Errorf("account: negative opening balance %s", opening)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("account: negative interest rate %s", rate)
	}
	c := &Cash{
		balance: opening,
		opened:  market.Day(opened),
		rate:    rate,
		sched:   sched,
		bus:     bus,
	}
	if sched.Every != DepositNone {
		if !sched.Amount.IsPositive() {
			return nil, fmt.Errorf("account: deposit amount must be positive, got %s", sched.Amount)
		}
		c.nextDep = c.nextAfter(c.opened)
	}
	return c, nil
}

func (c *Cash) Balance() decimal.Decimal { return c.balance }
func (c *Cash) Opened() time.Time        { return c.opened }

// Accrued reports interest calculated but not yet credited.
func (c *Cash) Accrued() decimal.Decimal { return c.accrued }

func (c *Cash) nextAfter(d time.Time) time.Time {
	switch c.sched.Every {
	case DepositWeekly:
		return d.AddDate(0, 0, 7)
	case DepositMonthly:
		return d.AddDate(0, 1, 0)
	}
	return time.Time{}
}

// Advance moves the ledger clock to date: interest accrues for the
// elapsed calendar days and is credited when the month rolls over, then
// any deposits scheduled at or before date are applied. Dates must be
// strictly increasing across calls; repeating or rewinding a date is a
// caller error.
func (c *Cash) Advance(date time.Time) error {
	date = market.Day(date)
	prev := c.last
	if prev.IsZero() {
		prev = c.opened
	}
	if !date.After(prev) && !c.last.IsZero() {
		return fmt.Errorf("account: advance to %s not after %s",
			date.Format("2006-01-02"), prev.Format("2006-01-02"))
	}
	if date.Before(c.opened) {
		return fmt.Errorf("account: advance to %s before opening %s",
			date.Format("2006-01-02"), c.opened.Format("2006-01-02"))
	}

	// Interest is simple daily on the current balance, realized monthly.
	days := int64(date.Sub(prev).Hours() / 24)
	if days > 0 && c.rate.IsPositive() {
		c.accrued = c.accrued.Add(
			c.balance.Mul(c.rate).Mul(decimal.NewFromInt(days)).Div(daysPerYear))
	}
	if (date.Month() != prev.Month() || date.Year() != prev.Year()) && c.accrued.IsPositive() {
		credit := c.accrued.Round(2)
		if credit.IsPositive() {
			before := c.balance
			c.balance = c.balance.Add(credit)
			c.accrued = c.accrued.Sub(credit) // sub-cent remainder carries forward
			c.emit(event.CashEvent{
				Date: date, Reason: event.CashInterest,
				Amount: credit, Before: before, After: c.balance,
			})
		}
	}

	for !c.nextDep.IsZero() && !c.nextDep.After(date) {
		before := c.balance
		c.balance = c.balance.Add(c.sched.Amount)
		c.emit(event.CashEvent{
			Date: date, Reason: event.CashDeposit,
			Amount: c.sched.Amount, Before: before, After: c.balance,
		})
		c.nextDep = c.nextAfter(c.nextDep)
	}

	c.last = date
	return nil
}

// Debit removes amount from the balance. On insufficient funds the
// balance is left exactly as it was and no event is emitted.
func (c *Cash) Debit(amount decimal.Decimal, date time.Time) error {
	if amount.IsNegative() {
		return fmt.Errorf("account: negative debit %s", amount)
	}
	if amount.GreaterThan(c.balance) {
		return &InsufficientFundsError{Requested: amount, Balance: c.balance}
	}
	before := c.balance
	c.balance = c.balance.Sub(amount)
	c.emit(event.CashEvent{
		Date: market.Day(date), Reason: event.CashDebit,
		Amount: amount, Before: before, After: c.balance,
	})
	return nil
}

// Credit adds amount to the balance.
func (c *Cash) Credit(amount decimal.Decimal, date time.Time) error {
	if amount.IsNegative() {
		return fmt.Errorf("account: negative credit %s", amount)
	}
	before := c.balance
	c.balance = c.balance.Add(amount)
	c.emit(event.CashEvent{
		Date: market.Day(date), Reason: event.CashCredit,
		Amount: amount, Before: before, After: c.balance,
	})
	return nil
}

func (c *Cash) emit(e event.CashEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
