// Package rundb persists read-only historical records of backtest runs: one
// row per run (configuration JSON, seed, input hash, final metrics) and one
// row per latency-sweep point. It never resumes or mutates live trading
// state — it is a record of what happened, not a checkpoint.
//
// Grounded on the teacher's syncharvester.go sqlite usage (database/sql over
// github.com/mattn/go-sqlite3, schema created with a CREATE TABLE IF NOT
// EXISTS on open) re-pointed from its uniswap_pairs.db pool table at backtest
// run history.
package rundb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	config_json TEXT NOT NULL,
	seed INTEGER NOT NULL,
	input_sha256 TEXT NOT NULL,
	final_equity REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	sharpe REAL NOT NULL,
	sortino REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	winning_trades INTEGER NOT NULL,
	losing_trades INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS latency_sweep_points (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	latency_ns INTEGER NOT NULL,
	final_equity REAL NOT NULL,
	sharpe REAL NOT NULL
);
`

// DB wraps a sqlite-backed connection scoped to one process's run history.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and ensures
// its schema exists.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("rundb: open: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rundb: schema: %w", err)
	}
	return &DB{sql: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// RunRecord is one backtest run's durable summary.
type RunRecord struct {
	ConfigJSON    string
	Seed          uint32
	InputSHA256   string
	FinalEquity   float64
	MaxDrawdown   float64
	Sharpe        float64
	Sortino       float64
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
}

// InsertRun records one completed run and returns its row id.
func (d *DB) InsertRun(r RunRecord) (int64, error) {
	res, err := d.sql.Exec(
		`INSERT INTO runs (config_json, seed, input_sha256, final_equity, max_drawdown, sharpe, sortino, total_trades, winning_trades, losing_trades)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ConfigJSON, r.Seed, r.InputSHA256, r.FinalEquity, r.MaxDrawdown, r.Sharpe, r.Sortino, r.TotalTrades, r.WinningTrades, r.LosingTrades,
	)
	if err != nil {
		return 0, fmt.Errorf("rundb: insert run: %w", err)
	}
	return res.LastInsertId()
}

// InsertSweepPoint records one latency-sensitivity-sweep result against a
// parent run.
func (d *DB) InsertSweepPoint(runID int64, latencyNs int64, finalEquity, sharpe float64) error {
	_, err := d.sql.Exec(
		`INSERT INTO latency_sweep_points (run_id, latency_ns, final_equity, sharpe) VALUES (?, ?, ?, ?)`,
		runID, latencyNs, finalEquity, sharpe,
	)
	if err != nil {
		return fmt.Errorf("rundb: insert sweep point: %w", err)
	}
	return nil
}

// RunByID fetches one run's durable record.
func (d *DB) RunByID(id int64) (RunRecord, error) {
	var r RunRecord
	err := d.sql.QueryRow(
		`SELECT config_json, seed, input_sha256, final_equity, max_drawdown, sharpe, sortino, total_trades, winning_trades, losing_trades
		 FROM runs WHERE id = ?`, id,
	).Scan(&r.ConfigJSON, &r.Seed, &r.InputSHA256, &r.FinalEquity, &r.MaxDrawdown, &r.Sharpe, &r.Sortino, &r.TotalTrades, &r.WinningTrades, &r.LosingTrades)
	if err != nil {
		return RunRecord{}, fmt.Errorf("rundb: run %d: %w", id, err)
	}
	return r, nil
}
