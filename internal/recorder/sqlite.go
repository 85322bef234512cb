package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the refresh log to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the poller writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			cycle_id    TEXT NOT NULL,
			trigger     TEXT,
			state       TEXT,
			error       TEXT,
			tank_count  INTEGER,
			price_found INTEGER,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_log(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			tank_id   TEXT,
			tank_name TEXT,
			level     TEXT,
			reading   REAL,
			threshold REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO refresh_log
		(timestamp, cycle_id, trigger, state, error, tank_count, price_found, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), evt.CycleID, evt.Trigger, evt.State, evt.Error,
		evt.TankCount, evt.PriceFound, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, tank_id, tank_name, level, reading, threshold)
		VALUES (?,?,?,?,?,?)`,
		ts.UnixMilli(), evt.TankID, evt.TankName, evt.Level, evt.Reading, evt.Threshold,
	)
	return err
}

// RecentRefreshes returns up to limit refresh log rows, newest first.
func (r *SQLiteRecorder) RecentRefreshes(limit int) ([]RefreshEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, cycle_id, trigger, state, error, tank_count, price_found, duration_ms
		FROM refresh_log ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh log: %w", err)
	}
	defer rows.Close()

	var out []RefreshEvent
	for rows.Next() {
		var (
			evt        RefreshEvent
			ts, durMS  int64
			errText    sql.NullString
			priceFound bool
		)
		if err := rows.Scan(&ts, &evt.CycleID, &evt.Trigger, &evt.State, &errText, &evt.TankCount, &priceFound, &durMS); err != nil {
			return nil, fmt.Errorf("scan refresh log: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts)
		evt.Duration = time.Duration(durMS) * time.Millisecond
		evt.Error = errText.String
		evt.PriceFound = priceFound
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
