package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/stratsim/sim"
)

// SQLiteJournal stores events and run summaries in a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordEvent(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO events
		(run_id, seq, date, kind, label, order_id, amount, before_bal, after_bal, quantity, price, fee, networth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Seq, r.Date, r.Kind, r.Label, r.OrderID,
		r.Amount, r.Before, r.After, r.Quantity, r.Price, r.Fee, r.NetWorth,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(runID string, rep sim.Report) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, instrument, start_date, end_date, bars, final_balance, final_equity, final_net,
		 cumulative_pct, total_pct, orders_executed, orders_deleted, buys, sells, fees_paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rep.Instrument, rep.Start, rep.End, rep.Bars,
		rep.FinalBalance.StringFixed(2), rep.FinalEquity.StringFixed(2), rep.FinalNet.StringFixed(2),
		rep.Cumulative.String(), rep.TotalROI.String(),
		rep.Counters.OrdersExecuted, rep.Counters.OrdersDeleted,
		rep.Counters.Buys, rep.Counters.Sells,
		rep.Counters.TradeFeeTotal.StringFixed(2),
	)
	return err
}

// ListEvents returns a run's events in generation order.
func (j *SQLiteJournal) ListEvents(runID string) ([]Record, error) {
	rows, err := j.db.Query(`
		SELECT run_id, seq, date, kind, label, order_id, amount, before_bal, after_bal, quantity, price, fee, networth
		FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts time.Time
		if err := rows.Scan(&r.RunID, &r.Seq, &ts, &r.Kind, &r.Label, &r.OrderID,
			&r.Amount, &r.Before, &r.After, &r.Quantity, &r.Price, &r.Fee, &r.NetWorth); err != nil {
			return nil, err
		}
		r.Date = ts
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
