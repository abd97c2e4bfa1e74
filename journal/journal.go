// Package journal persists the simulation's event stream and run
// summaries. It is the asynchronous side of the system: the engine hands
// events to a Writer queue and never blocks on IO; write failures are
// logged and dropped, never surfaced to the run.
package journal

import (
	"time"

	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/sim"
)

// Record is one event flattened for storage. Seq preserves generation
// order even when writes land out of order.
type Record struct {
	RunID    string
	Seq      int64
	Date     time.Time
	Kind     string
	Label    string // reason, action or side, depending on kind
	OrderID  string
	Amount   string
	Before   string
	After    string
	Quantity string
	Price    string
	Fee      string
	NetWorth string
}

// Flatten converts an event into its storage row.
func Flatten(runID string, seq int64, e event.Event) Record {
	r := Record{RunID: runID, Seq: seq, Date: e.When(), Kind: e.Kind().String()}
	switch ev := e.(type) {
	case event.CashEvent:
		r.Label = string(ev.Reason)
		r.Amount = ev.Amount.StringFixed(2)
		r.Before = ev.Before.StringFixed(2)
		r.After = ev.After.StringFixed(2)
	case event.OrderEvent:
		r.Label = string(ev.Action)
		r.OrderID = ev.OrderID
		r.Amount = ev.Value.StringFixed(2)
		if ev.Reason != "" {
			r.Label += ":" + ev.Reason
		}
	case event.BrokerageEvent:
		r.Label = string(ev.Side)
		r.Quantity = ev.Quantity.String()
		r.Price = ev.Price.String()
		r.Amount = ev.Gross.StringFixed(2)
		r.Fee = ev.Fee.StringFixed(2)
		r.After = ev.HoldingAfter.String()
	case event.NetWorthEvent:
		r.NetWorth = ev.NetWorth.StringFixed(2)
		r.Before = ev.CashBalance.StringFixed(2)
		r.After = ev.EquityValue.StringFixed(2)
		if ev.Final {
			r.Label = "FINAL"
		}
	case event.Complete:
		r.Label = "COMPLETE"
	}
	return r
}

// Journal is a run store. Implementations: SQLite and CSV.
type Journal interface {
	RecordEvent(Record) error
	RecordRun(runID string, rep sim.Report) error
	Close() error
}
