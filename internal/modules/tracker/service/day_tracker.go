package service

import (
	"time"

	"mdt8/internal/modules/tracker/domain"
	"mdt8/internal/platform/clock"
)

// DayTracker owns the live tracker state for one invocation and reads the
// wall clock for session boundaries.
type DayTracker struct {
	clock clock.Clock
	state domain.TrackerState
}

func NewDayTracker(clock clock.Clock, state domain.TrackerState) *DayTracker {
	if state.PriorDays == nil {
		state.PriorDays = []domain.TrackedDay{}
	}
	return &DayTracker{clock: clock, state: state}
}

// NewDefaultDayTracker starts from a fresh record dated today.
func NewDefaultDayTracker(clock clock.Clock) *DayTracker {
	return &DayTracker{clock: clock, state: domain.NewState(clock.Now())}
}

func (t *DayTracker) State() domain.TrackerState {
	return t.state
}

func (t *DayTracker) IsSessionActive() bool {
	return t.state.InSession()
}

func (t *DayTracker) StartSession() error {
	return t.state.StartSession(t.clock.Now())
}

func (t *DayTracker) StopSession() error {
	return t.state.StopSession(t.clock.Now())
}

func (t *DayTracker) CancelSession() error {
	return t.state.CancelSession()
}

func (t *DayTracker) IsCurrentDay(now time.Time) bool {
	return t.state.IsCurrentDay(now)
}

func (t *DayTracker) RollDayIfNeeded(now time.Time) (domain.TrackedDay, bool) {
	return t.state.RollDay(now)
}

func (t *DayTracker) Adjust(deltaMinutes int) {
	t.state.Adjust(deltaMinutes)
}

func (t *DayTracker) SetGoal(minutes int) error {
	return t.state.SetGoal(minutes)
}

func (t *DayTracker) GoalMinutes() uint64 {
	return t.state.GoalMinutes
}

func (t *DayTracker) GoalDuration() time.Duration {
	return t.state.GoalDuration()
}

func (t *DayTracker) CompletedTodayDuration() time.Duration {
	return t.state.CompletedTodayDuration()
}

func (t *DayTracker) Elapsed() time.Duration {
	return t.state.Elapsed(t.clock.Now())
}

func (t *DayTracker) PriorDays() []domain.TrackedDay {
	return append([]domain.TrackedDay(nil), t.state.PriorDays...)
}
