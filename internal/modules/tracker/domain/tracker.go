package domain

import (
	"fmt"
	"time"

	apperrors "mdt8/internal/platform/errors"
)

const (
	SchemaVersion      = 1
	DefaultGoalMinutes = 30
	MaxGoalMinutes     = 24 * 60
)

// TrackedDay is the closed record of one calendar day. It is only created by
// a day rollover and never changes afterwards.
type TrackedDay struct {
	Year             int    `json:"year"`
	Ordinal          int    `json:"ordinal"`
	CompletedSeconds uint64 `json:"completedSeconds"`
}

// Date returns midnight of the tracked day in loc.
func (d TrackedDay) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, time.January, 1, 0, 0, 0, 0, loc).AddDate(0, 0, d.Ordinal-1)
}

func (d TrackedDay) Completed() time.Duration {
	return time.Duration(d.CompletedSeconds) * time.Second
}

func (d TrackedDay) MetGoal(goalMinutes uint64) bool {
	return d.CompletedSeconds >= goalMinutes*60
}

// TrackerState is the live record persisted between invocations.
type TrackerState struct {
	GoalMinutes           uint64       `json:"goalMinutes"`
	TrackingDate          time.Time    `json:"trackingDate"`
	CompletedTodaySeconds uint64       `json:"completedTodaySeconds"`
	CurrentSessionStart   *time.Time   `json:"currentSessionStart,omitempty"`
	PriorDays             []TrackedDay `json:"priorDays"`
}

func NewState(now time.Time) TrackerState {
	return TrackerState{
		GoalMinutes:  DefaultGoalMinutes,
		TrackingDate: now,
		PriorDays:    []TrackedDay{},
	}
}

func (s *TrackerState) InSession() bool {
	return s.CurrentSessionStart != nil
}

func (s *TrackerState) StartSession(now time.Time) error {
	if s.InSession() {
		return apperrors.ErrAlreadyInSession
	}
	s.CurrentSessionStart = &now
	return nil
}

// StopSession commits the whole seconds elapsed since the session started.
func (s *TrackerState) StopSession(now time.Time) error {
	if !s.InSession() {
		return apperrors.ErrNoActiveSession
	}
	s.CompletedTodaySeconds += elapsedSeconds(*s.CurrentSessionStart, now)
	s.CurrentSessionStart = nil
	return nil
}

func (s *TrackerState) CancelSession() error {
	if !s.InSession() {
		return apperrors.ErrNoActiveSession
	}
	s.CurrentSessionStart = nil
	return nil
}

// IsCurrentDay compares calendar days in the zone of now.
func (s *TrackerState) IsCurrentDay(now time.Time) bool {
	then := s.TrackingDate.In(now.Location())
	return now.Year() == then.Year() && now.YearDay() == then.YearDay()
}

// RollDay closes the tracked day when now falls on a different calendar day.
// A gap of several days still produces a single TrackedDay.
func (s *TrackerState) RollDay(now time.Time) (TrackedDay, bool) {
	if s.IsCurrentDay(now) {
		return TrackedDay{}, false
	}
	if s.InSession() {
		s.CompletedTodaySeconds += elapsedSeconds(*s.CurrentSessionStart, now)
	}
	then := s.TrackingDate.In(now.Location())
	closed := TrackedDay{
		Year:             then.Year(),
		Ordinal:          then.YearDay(),
		CompletedSeconds: s.CompletedTodaySeconds,
	}
	s.PriorDays = append(s.PriorDays, closed)
	s.TrackingDate = now
	s.CompletedTodaySeconds = 0
	s.CurrentSessionStart = nil
	return closed, true
}

// Adjust shifts today's total by deltaMinutes, flooring at zero.
func (s *TrackerState) Adjust(deltaMinutes int) {
	delta := int64(deltaMinutes) * 60
	if delta >= 0 {
		s.CompletedTodaySeconds += uint64(delta)
		return
	}
	magnitude := uint64(-delta)
	if magnitude < s.CompletedTodaySeconds {
		s.CompletedTodaySeconds -= magnitude
		return
	}
	s.CompletedTodaySeconds = 0
}

func (s *TrackerState) SetGoal(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: goal must be at least one minute", apperrors.ErrInvalidInput)
	}
	if minutes > MaxGoalMinutes {
		return fmt.Errorf("%w: goal cannot exceed %d minutes", apperrors.ErrInvalidInput, MaxGoalMinutes)
	}
	s.GoalMinutes = uint64(minutes)
	return nil
}

func (s *TrackerState) GoalDuration() time.Duration {
	return time.Duration(s.GoalMinutes) * time.Minute
}

func (s *TrackerState) CompletedTodayDuration() time.Duration {
	return time.Duration(s.CompletedTodaySeconds) * time.Second
}

// Elapsed reports how long the active session has been running, or zero.
func (s *TrackerState) Elapsed(now time.Time) time.Duration {
	if !s.InSession() {
		return 0
	}
	return time.Duration(elapsedSeconds(*s.CurrentSessionStart, now)) * time.Second
}

// elapsedSeconds uses wall-clock readings only, so clock adjustments during a
// session are reflected. Backwards jumps count as zero.
func elapsedSeconds(start, now time.Time) uint64 {
	d := now.Round(0).Sub(start.Round(0))
	if d < 0 {
		return 0
	}
	return uint64(d / time.Second)
}
