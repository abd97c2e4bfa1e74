// Package event defines the immutable records emitted by the simulation
// ledgers and the ordered bus that fans them out to listeners.
package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates event categories for subscription filtering.
type Kind int

const (
	KindCash Kind = iota
	KindOrder
	KindBrokerage
	KindNetWorth
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindCash:
		return "cash"
	case KindOrder:
		return "order"
	case KindBrokerage:
		return "brokerage"
	case KindNetWorth:
		return "networth"
	case KindComplete:
		return "complete"
	}
	return "unknown"
}

// Event is one ledger mutation, described after the mutation committed.
// Concrete types are value records and are never mutated after creation.
type Event interface {
	Kind() Kind
	When() time.Time
}

// CashReason labels what moved the cash balance.
type CashReason string

const (
	CashCredit   CashReason = "CREDIT"
	CashDebit    CashReason = "DEBIT"
	CashInterest CashReason = "INTEREST"
	CashDeposit  CashReason = "DEPOSIT"
)

// CashEvent records one cash balance mutation with before/after balances.
type CashEvent struct {
	Date   time.Time
	Reason CashReason
	Amount decimal.Decimal
	Before decimal.Decimal
	After  decimal.Decimal
}

func (e CashEvent) Kind() Kind      { return KindCash }
func (e CashEvent) When() time.Time { return e.Date }

// OrderAction labels an order lifecycle transition worth reporting.
type OrderAction string

const (
	OrderExecuted OrderAction = "EXECUTED"
	OrderDeleted  OrderAction = "DELETED"
)

// OrderEvent records an order reaching a reportable terminal state.
type OrderEvent struct {
	Date    time.Time
	Action  OrderAction
	OrderID string
	Side    string // "ENTRY" or "EXIT"
	Value   decimal.Decimal
	Reason  string
}

func (e OrderEvent) Kind() Kind      { return KindOrder }
func (e OrderEvent) When() time.Time { return e.Date }

// BrokerageSide labels what moved the equity holding.
type BrokerageSide string

const (
	BrokerageBuy     BrokerageSide = "BUY"
	BrokerageSell    BrokerageSide = "SELL"
	BrokerageMgmtFee BrokerageSide = "MGMT_FEE"
)

// BrokerageEvent records one equity holding mutation.
type BrokerageEvent struct {
	Date         time.Time
	Side         BrokerageSide
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	Gross        decimal.Decimal
	Fee          decimal.Decimal
	HoldingAfter decimal.Decimal
}

func (e BrokerageEvent) Kind() Kind      { return KindBrokerage }
func (e BrokerageEvent) When() time.Time { return e.Date }

// NetWorthEvent reports cash plus equity marked at the day's close.
// Final is set once, on the terminal event of a run.
type NetWorthEvent struct {
	Date        time.Time
	CashBalance decimal.Decimal
	EquityValue decimal.Decimal
	NetWorth    decimal.Decimal
	Final       bool
}

func (e NetWorthEvent) Kind() Kind      { return KindNetWorth }
func (e NetWorthEvent) When() time.Time { return e.Date }

// Complete signals the end of a run to sinks that buffer output.
type Complete struct {
	Date time.Time
}

func (e Complete) Kind() Kind      { return KindComplete }
func (e Complete) When() time.Time { return e.Date }
