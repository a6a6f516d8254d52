package out

import (
	"context"

	"mdt8/internal/modules/tracker/domain"
)

// StateStore loads and saves the whole tracker record.
type StateStore interface {
	Load(ctx context.Context) (domain.TrackerState, error)
	Save(ctx context.Context, state domain.TrackerState) error
	Location() string
}

// HistoryIndex is a queryable projection of closed days.
type HistoryIndex interface {
	Reset(ctx context.Context) error
	UpsertDay(ctx context.Context, day domain.TrackedDay) error
	ListDays(ctx context.Context, limit int) ([]domain.TrackedDay, error)
}

type DayJournal interface {
	WriteDay(ctx context.Context, day domain.TrackedDay, goalMinutes uint64) (string, error)
}
