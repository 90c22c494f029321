// Package journal keeps a SQLite log of every resolution outcome.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ZaguanLabs/salin"
)

const createTable = `
CREATE TABLE IF NOT EXISTS resolutions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	phrase TEXT NOT NULL,
	tier TEXT NOT NULL,
	persisted INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	elapsed_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolutions_tier ON resolutions(tier);
`

// TierStats aggregates the journal for one tier.
type TierStats struct {
	Count      int64
	Failures   int64
	Persisted  int64
	AvgElapsed time.Duration
}

// SQLiteJournal implements salin.Journal with a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// Open creates or opens the journal database and runs migrations.
func Open(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal db: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Record implements salin.Journal.
func (j *SQLiteJournal) Record(ev salin.Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	persisted := 0
	if ev.Persisted {
		persisted = 1
	}

	_, err := j.db.Exec(
		`INSERT INTO resolutions (phrase, tier, persisted, error, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Phrase, string(ev.Tier), persisted, ev.Err, ev.Elapsed.Milliseconds(), at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record resolution: %w", err)
	}
	return nil
}

// Stats returns per-tier aggregates over the whole journal.
func (j *SQLiteJournal) Stats(ctx context.Context) (map[salin.Tier]TierStats, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT tier, COUNT(*),
		        SUM(CASE WHEN error != '' THEN 1 ELSE 0 END),
		        SUM(persisted),
		        AVG(elapsed_ms)
		 FROM resolutions GROUP BY tier`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	out := make(map[salin.Tier]TierStats)
	for rows.Next() {
		var tier string
		var s TierStats
		var avgMs float64
		if err := rows.Scan(&tier, &s.Count, &s.Failures, &s.Persisted, &avgMs); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		s.AvgElapsed = time.Duration(avgMs * float64(time.Millisecond))
		out[salin.Tier(tier)] = s
	}
	return out, rows.Err()
}

// Recent returns the latest n events, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, n int) ([]salin.Event, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT phrase, tier, persisted, error, elapsed_ms, created_at
		 FROM resolutions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var events []salin.Event
	for rows.Next() {
		var ev salin.Event
		var tier string
		var persisted int
		var elapsedMs, at int64
		if err := rows.Scan(&ev.Phrase, &tier, &persisted, &ev.Err, &elapsedMs, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Tier = salin.Tier(tier)
		ev.Persisted = persisted == 1
		ev.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		ev.At = time.Unix(0, at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases resources.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ salin.Journal = (*SQLiteJournal)(nil)
