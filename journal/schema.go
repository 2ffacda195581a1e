package journal

// Schema creates the run tables. Each saved series is one run; bars and
// indicator values hang off the run id. Undefined indicator values are
// not stored.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	source TEXT NOT NULL,
	created DATETIME NOT NULL,
	row_count INTEGER NOT NULL,
	column_names TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bars (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	row_idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	adj_close REAL,
	volume REAL NOT NULL,
	PRIMARY KEY (run_id, row_idx)
);

CREATE TABLE IF NOT EXISTS indicator_values (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	row_idx INTEGER NOT NULL,
	name TEXT NOT NULL,
	value REAL,
	label TEXT,
	PRIMARY KEY (run_id, name, row_idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, created);
`
