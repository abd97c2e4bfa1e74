package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/stratsim/sim"
)

// CSVJournal writes events and run summaries to two CSV files.
type CSVJournal struct {
	events *csv.Writer
	runs   *csv.Writer
	ef, rf *os.File
}

func NewCSV(eventsPath, runsPath string) (*CSVJournal, error) {
	ef, err := os.Create(eventsPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		ef.Close()
		return nil, err
	}

	ew := csv.NewWriter(ef)
	rw := csv.NewWriter(rf)

	fail := func(err error) (*CSVJournal, error) {
		ef.Close()
		rf.Close()
		return nil, err
	}

	if err := ew.Write([]string{"run_id", "seq", "date", "kind", "label", "order_id",
		"amount", "before", "after", "quantity", "price", "fee", "networth"}); err != nil {
		return fail(err)
	}
	if err := rw.Write([]string{"run_id", "instrument", "start", "end", "bars",
		"final_balance", "final_equity", "final_net", "cumulative_pct", "total_pct",
		"orders_executed", "orders_deleted", "buys", "sells", "fees_paid"}); err != nil {
		return fail(err)
	}

	ew.Flush()
	rw.Flush()
	if err := ew.Error(); err != nil {
		return fail(err)
	}
	if err := rw.Error(); err != nil {
		return fail(err)
	}

	return &CSVJournal{events: ew, runs: rw, ef: ef, rf: rf}, nil
}

func (j *CSVJournal) RecordEvent(r Record) error {
	j.events.Write([]string{
		r.RunID,
		strconv.FormatInt(r.Seq, 10),
		r.Date.Format("2006-01-02"),
		r.Kind,
		r.Label,
		r.OrderID,
		r.Amount,
		r.Before,
		r.After,
		r.Quantity,
		r.Price,
		r.Fee,
		r.NetWorth,
	})
	j.events.Flush()
	return j.events.Error()
}

func (j *CSVJournal) RecordRun(runID string, rep sim.Report) error {
	j.runs.Write([]string{
		runID,
		rep.Instrument,
		rep.Start.Format(time.RFC3339),
		rep.End.Format(time.RFC3339),
		strconv.Itoa(rep.Bars),
		rep.FinalBalance.StringFixed(2),
		rep.FinalEquity.StringFixed(2),
		rep.FinalNet.StringFixed(2),
		rep.Cumulative.String(),
		rep.TotalROI.String(),
		strconv.Itoa(rep.Counters.OrdersExecuted),
		strconv.Itoa(rep.Counters.OrdersDeleted),
		strconv.Itoa(rep.Counters.Buys),
		strconv.Itoa(rep.Counters.Sells),
		rep.Counters.TradeFeeTotal.StringFixed(2),
	})
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.events.Flush()
	j.runs.Flush()
	err := j.ef.Close()
	if e2 := j.rf.Close(); err == nil {
		err = e2
	}
	return err
}
