package storage

import (
	"context"
	"fmt"
	"time"
)

// timeLayout sorts lexically, unlike RFC3339Nano which drops trailing zeros.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DayCount is the number of clips played on one calendar day (UTC).
type DayCount struct {
	Day       time.Time
	Plays     int
	Sentences int
}

// RecordPlay logs that a clip was played.
func (db *DB) RecordPlay(ctx context.Context, sentenceNo int, mode string, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO plays (sentence_no, mode, played_at) VALUES (?, ?, ?)`,
		sentenceNo, mode, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record play of %d: %w", sentenceNo, err)
	}
	return nil
}

// DailyCounts summarizes plays since the given time, newest day first.
func (db *DB) DailyCounts(ctx context.Context, since time.Time) ([]DayCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT substr(played_at, 1, 10) AS day, COUNT(*), COUNT(DISTINCT sentence_no)
		FROM plays
		WHERE played_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []DayCount
	for rows.Next() {
		var (
			day string
			dc  DayCount
		)
		if err := rows.Scan(&day, &dc.Plays, &dc.Sentences); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		dc.Day, err = time.Parse(time.DateOnly, day)
		if err != nil {
			return nil, fmt.Errorf("bad day %q in history: %w", day, err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// TotalPlays returns how many clips were ever played.
func (db *DB) TotalPlays(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return n, nil
}
