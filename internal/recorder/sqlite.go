package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS loads (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			request_id  TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			period      TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			bars        INTEGER,
			duration_ms REAL,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_symbol_ts ON loads(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			request_id  TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			period      TEXT NOT NULL,
			bar_date    TEXT,
			close       REAL,
			sma20       REAL,
			sma50       REAL,
			ema12       REAL,
			ema26       REAL,
			rsi         REAL,
			macd        REAL,
			macd_signal REAL,
			macd_hist   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON indicator_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			status    TEXT NOT NULL,
			rsi       REAL,
			price     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO loads
		(timestamp, request_id, symbol, period, outcome, bars, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RequestID, evt.Symbol, evt.Period, evt.Outcome,
		evt.Bars, float64(evt.Duration.Microseconds())/1000.0, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *IndicatorSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO indicator_snapshots
		(timestamp, request_id, symbol, period, bar_date, close,
		 sma20, sma50, ema12, ema26, rsi, macd, macd_signal, macd_hist)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.RequestID, snap.Symbol, snap.Period, snap.Date, snap.Close,
		snap.SMA20, snap.SMA50, snap.EMA12, snap.EMA26, snap.RSI,
		snap.MACD, snap.Signal, snap.Histogram,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(timestamp, symbol, status, rsi, price)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Status, evt.RSI, evt.Price,
	)
	return err
}

// LoadCount returns how many loads of symbol ended with outcome.
func (r *SQLiteRecorder) LoadCount(symbol, outcome string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM loads WHERE symbol = ? AND outcome = ?`,
		symbol, outcome).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
