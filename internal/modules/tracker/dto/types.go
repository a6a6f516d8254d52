package dto

import (
	"fmt"
	"time"
)

type CommandKind string

const (
	CommandStatus CommandKind = "status"
	CommandStart  CommandKind = "start"
	CommandStop   CommandKind = "stop"
	CommandCancel CommandKind = "cancel"
	CommandMod    CommandKind = "mod"
	CommandGoal   CommandKind = "goal"
)

// Command is one pre-parsed user request. Minutes is used by mod and goal.
type Command struct {
	Kind    CommandKind
	Minutes int
}

func (c Command) Validate() error {
	switch c.Kind {
	case CommandStatus, CommandStart, CommandStop, CommandCancel, CommandMod, CommandGoal:
		return nil
	default:
		return fmt.Errorf("unsupported command %q", string(c.Kind))
	}
}

type DayOutput struct {
	Year      int
	Ordinal   int
	Date      time.Time
	Completed time.Duration
	GoalMet   bool
	NotePath  string
}

// Result describes the state after one invocation. OpErr holds the failure of
// the requested operation; the state was persisted regardless.
type Result struct {
	Command        Command
	OpErr          error
	LoadErr        error
	StatePath      string
	Goal           time.Duration
	CompletedToday time.Duration
	InSession      bool
	SessionElapsed time.Duration
	RolledDay      *DayOutput
}

type HistoryInput struct {
	Limit int
}

// HistoryOutput lists closed days newest first. LoadErr is set when the
// record could not be read and a fresh one was written to StatePath.
type HistoryOutput struct {
	Days      []DayOutput
	LoadErr   error
	StatePath string
}

type ReindexOutput struct {
	Days      int
	Journals  int
	LoadErr   error
	StatePath string
}
