package journal

const Schema = `
CREATE TABLE IF NOT EXISTS events (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	date DATETIME NOT NULL,
	kind TEXT NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	order_id TEXT NOT NULL DEFAULT '',
	amount TEXT NOT NULL DEFAULT '',
	before_bal TEXT NOT NULL DEFAULT '',
	after_bal TEXT NOT NULL DEFAULT '',
	quantity TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '',
	fee TEXT NOT NULL DEFAULT '',
	networth TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_events_date ON events(run_id, date);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	final_balance TEXT NOT NULL,
	final_equity TEXT NOT NULL,
	final_net TEXT NOT NULL,
	cumulative_pct TEXT NOT NULL,
	total_pct TEXT NOT NULL,
	orders_executed INTEGER NOT NULL,
	orders_deleted INTEGER NOT NULL,
	buys INTEGER NOT NULL,
	sells INTEGER NOT NULL,
	fees_paid TEXT NOT NULL
);
`
