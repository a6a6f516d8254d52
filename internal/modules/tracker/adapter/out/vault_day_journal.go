package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdt8/internal/modules/tracker/domain"
	trackerout "mdt8/internal/modules/tracker/port/out"
	"mdt8/internal/platform/duration"
	"mdt8/internal/platform/markdown"
)

// VaultDayJournal writes one markdown note per closed day under
// <dir>/YYYY/MM/DD.md. A note whose recorded time already matches the day is
// left as written, so it keeps the goal that applied when the day closed.
type VaultDayJournal struct {
	dir string
	loc *time.Location
}

func NewVaultDayJournal(dir string, loc *time.Location) trackerout.DayJournal {
	if loc == nil {
		loc = time.Local
	}
	return &VaultDayJournal{dir: dir, loc: loc}
}

func (j *VaultDayJournal) WriteDay(_ context.Context, day domain.TrackedDay, goalMinutes uint64) (string, error) {
	date := day.Date(j.loc)
	dir := filepath.Join(j.dir, date.Format("2006"), date.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, date.Format("02")+".md")
	if j.current(path, day) {
		return path, nil
	}

	completed := duration.Format(day.Completed())
	goal := duration.Format(time.Duration(goalMinutes) * time.Minute)
	met := day.MetGoal(goalMinutes)
	verdict := "Goal not reached."
	if met {
		verdict = "Goal reached."
	}
	body := fmt.Sprintf("# Meditation %s\n\n- Completed: %s\n- Goal: %s\n\n%s\n", date.Format("2006-01-02"), completed, goal, verdict)
	rendered, err := markdown.Render([]markdown.Field{
		{Key: "schema_version", Value: domain.SchemaVersion},
		{Key: "date", Value: date.Format("2006-01-02")},
		{Key: "year", Value: day.Year},
		{Key: "ordinal", Value: day.Ordinal},
		{Key: "completed_seconds", Value: day.CompletedSeconds},
		{Key: "completed", Value: completed},
		{Key: "goal_minutes", Value: goalMinutes},
		{Key: "goal_met", Value: met},
	}, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

type noteMeta struct {
	SchemaVersion    int    `yaml:"schema_version"`
	Year             int    `yaml:"year"`
	Ordinal          int    `yaml:"ordinal"`
	CompletedSeconds uint64 `yaml:"completed_seconds"`
}

func (j *VaultDayJournal) current(path string, day domain.TrackedDay) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	meta := noteMeta{}
	if _, found, err := markdown.Decode(string(raw), &meta); err != nil || !found {
		return false
	}
	return meta.SchemaVersion == domain.SchemaVersion &&
		meta.Year == day.Year &&
		meta.Ordinal == day.Ordinal &&
		meta.CompletedSeconds == day.CompletedSeconds
}
