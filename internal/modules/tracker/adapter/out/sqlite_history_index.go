package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdt8/internal/modules/tracker/domain"
	trackerout "mdt8/internal/modules/tracker/port/out"
	"mdt8/internal/platform/clock"

	_ "modernc.org/sqlite"
)

type SQLiteHistoryIndex struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteHistoryIndex(dbPath string, clock clock.Clock) (*SQLiteHistoryIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteHistoryIndex{db: db, clock: clock}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

var _ trackerout.HistoryIndex = (*SQLiteHistoryIndex)(nil)

func (s *SQLiteHistoryIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tracked_days (
  year INTEGER NOT NULL,
  ordinal INTEGER NOT NULL,
  completed_seconds INTEGER NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (year, ordinal)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tracked_days table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteHistoryIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracked_days`); err != nil {
		return fmt.Errorf("reset tracked days: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryIndex) UpsertDay(ctx context.Context, day domain.TrackedDay) error {
	const stmt = `
INSERT INTO tracked_days (year, ordinal, completed_seconds, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(year, ordinal) DO UPDATE SET
  completed_seconds=excluded.completed_seconds,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		day.Year,
		day.Ordinal,
		int64(day.CompletedSeconds),
		s.clock.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert tracked day: %w", err)
	}
	return nil
}

// ListDays returns the most recent days first. A non-positive limit returns
// every indexed day.
func (s *SQLiteHistoryIndex) ListDays(ctx context.Context, limit int) ([]domain.TrackedDay, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT year, ordinal, completed_seconds
FROM tracked_days
ORDER BY year DESC, ordinal DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query tracked days: %w", err)
	}
	defer rows.Close()

	days := []domain.TrackedDay{}
	for rows.Next() {
		var day domain.TrackedDay
		var seconds int64
		if err := rows.Scan(&day.Year, &day.Ordinal, &seconds); err != nil {
			return nil, fmt.Errorf("scan tracked day: %w", err)
		}
		day.CompletedSeconds = uint64(seconds)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked days: %w", err)
	}
	return days, nil
}
