package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"mdt8/internal/modules/tracker/domain"
	"mdt8/internal/modules/tracker/dto"
	trackerin "mdt8/internal/modules/tracker/port/in"
	trackerout "mdt8/internal/modules/tracker/port/out"
	"mdt8/internal/modules/tracker/service"
	"mdt8/internal/platform/clock"
	apperrors "mdt8/internal/platform/errors"
)

type Interactor struct {
	clock   clock.Clock
	store   trackerout.StateStore
	index   trackerout.HistoryIndex
	journal trackerout.DayJournal
	logger  *slog.Logger
}

// NewInteractor wires the tracker pipeline. index and journal are optional.
func NewInteractor(clock clock.Clock, store trackerout.StateStore, index trackerout.HistoryIndex, journal trackerout.DayJournal, logger *slog.Logger) trackerin.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{clock: clock, store: store, index: index, journal: journal, logger: logger}
}

// invocation is the state of one load, roll, act, save cycle.
type invocation struct {
	tracker *service.DayTracker
	now     time.Time
	loadErr error
	closed  domain.TrackedDay
	rolled  bool
}

func (i *Interactor) Execute(ctx context.Context, command dto.Command) (dto.Result, error) {
	if err := command.Validate(); err != nil {
		return dto.Result{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	var opErr error
	inv, err := i.run(ctx, func(tracker *service.DayTracker) {
		opErr = apply(tracker, command)
	})
	if err != nil {
		return dto.Result{}, err
	}
	if opErr != nil {
		i.logger.DebugContext(ctx, "operation failed", "command", string(command.Kind), "error", opErr)
	}

	out := dto.Result{
		Command:        command,
		OpErr:          opErr,
		LoadErr:        inv.loadErr,
		StatePath:      i.store.Location(),
		Goal:           inv.tracker.GoalDuration(),
		CompletedToday: inv.tracker.CompletedTodayDuration(),
		InSession:      inv.tracker.IsSessionActive(),
		SessionElapsed: inv.tracker.Elapsed(),
	}
	if inv.rolled {
		day := toDayOutput(inv.closed, inv.tracker.GoalMinutes(), inv.now.Location())
		day.NotePath = i.project(ctx, inv.closed, inv.tracker.GoalMinutes())
		out.RolledDay = &day
	}
	return out, nil
}

// History lists closed days. The record's days are upserted first so the
// index catches up with anything it missed; without an index the record is
// listed directly.
func (i *Interactor) History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error) {
	inv, err := i.run(ctx, nil)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	if inv.rolled && i.journal != nil {
		if _, err := i.journal.WriteDay(ctx, inv.closed, inv.tracker.GoalMinutes()); err != nil {
			i.logger.WarnContext(ctx, "journal closed day", "error", err)
		}
	}
	out := dto.HistoryOutput{LoadErr: inv.loadErr, StatePath: i.store.Location()}
	days := i.indexedDays(ctx, inv.tracker.PriorDays(), input.Limit)
	out.Days = make([]dto.DayOutput, 0, len(days))
	for _, day := range days {
		out.Days = append(out.Days, toDayOutput(day, inv.tracker.GoalMinutes(), inv.now.Location()))
	}
	return out, nil
}

func (i *Interactor) indexedDays(ctx context.Context, prior []domain.TrackedDay, limit int) []domain.TrackedDay {
	if i.index == nil {
		return newestFirst(prior, limit)
	}
	for _, day := range prior {
		if err := i.index.UpsertDay(ctx, day); err != nil {
			i.logger.WarnContext(ctx, "index prior day", "year", day.Year, "ordinal", day.Ordinal, "error", err)
			return newestFirst(prior, limit)
		}
	}
	days, err := i.index.ListDays(ctx, limit)
	if err != nil {
		i.logger.WarnContext(ctx, "list indexed days", "error", err)
		return newestFirst(prior, limit)
	}
	return days
}

// Reindex rebuilds the history index and journal from the persisted record.
func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	if i.index == nil {
		return dto.ReindexOutput{}, fmt.Errorf("history index is not configured")
	}
	inv, err := i.run(ctx, nil)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	if err := i.index.Reset(ctx); err != nil {
		return dto.ReindexOutput{}, err
	}
	out := dto.ReindexOutput{LoadErr: inv.loadErr, StatePath: i.store.Location()}
	for _, day := range inv.tracker.PriorDays() {
		if err := i.index.UpsertDay(ctx, day); err != nil {
			return dto.ReindexOutput{}, err
		}
		out.Days++
		if i.journal == nil {
			continue
		}
		if _, err := i.journal.WriteDay(ctx, day, inv.tracker.GoalMinutes()); err != nil {
			return dto.ReindexOutput{}, err
		}
		out.Journals++
	}
	i.logger.InfoContext(ctx, "history reindexed", "days", out.Days, "journals", out.Journals)
	return out, nil
}

// run loads the record, rolls the day, applies act and saves unconditionally.
func (i *Interactor) run(ctx context.Context, act func(*service.DayTracker)) (invocation, error) {
	inv := invocation{}
	state, err := i.store.Load(ctx)
	if err != nil {
		inv.loadErr = err
		if errors.Is(err, apperrors.ErrNotFound) {
			i.logger.InfoContext(ctx, "no tracker state yet, starting fresh", "path", i.store.Location())
		} else {
			i.logger.WarnContext(ctx, "tracker state unreadable, starting fresh", "path", i.store.Location(), "error", err)
		}
		inv.tracker = service.NewDefaultDayTracker(i.clock)
	} else {
		inv.tracker = service.NewDayTracker(i.clock, state)
	}

	inv.now = i.clock.Now()
	inv.closed, inv.rolled = inv.tracker.RollDayIfNeeded(inv.now)
	if inv.rolled {
		i.logger.DebugContext(ctx, "day rolled over", "year", inv.closed.Year, "ordinal", inv.closed.Ordinal, "seconds", inv.closed.CompletedSeconds)
	}
	if act != nil {
		act(inv.tracker)
	}
	if err := i.store.Save(ctx, inv.tracker.State()); err != nil {
		return invocation{}, err
	}
	return inv, nil
}

// project feeds a freshly closed day to the secondary outputs. Failures are
// logged only; the state file stays the source of truth.
func (i *Interactor) project(ctx context.Context, day domain.TrackedDay, goalMinutes uint64) string {
	if i.index != nil {
		if err := i.index.UpsertDay(ctx, day); err != nil {
			i.logger.WarnContext(ctx, "index closed day", "error", err)
		}
	}
	if i.journal == nil {
		return ""
	}
	path, err := i.journal.WriteDay(ctx, day, goalMinutes)
	if err != nil {
		i.logger.WarnContext(ctx, "journal closed day", "error", err)
		return ""
	}
	return path
}

func apply(tracker *service.DayTracker, command dto.Command) error {
	switch command.Kind {
	case dto.CommandStart:
		return tracker.StartSession()
	case dto.CommandStop:
		return tracker.StopSession()
	case dto.CommandCancel:
		return tracker.CancelSession()
	case dto.CommandMod:
		tracker.Adjust(command.Minutes)
		return nil
	case dto.CommandGoal:
		return tracker.SetGoal(command.Minutes)
	default:
		return nil
	}
}

func newestFirst(days []domain.TrackedDay, limit int) []domain.TrackedDay {
	out := slices.Clone(days)
	slices.SortFunc(out, func(a, b domain.TrackedDay) int {
		if a.Year != b.Year {
			return cmp.Compare(b.Year, a.Year)
		}
		return cmp.Compare(b.Ordinal, a.Ordinal)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func toDayOutput(day domain.TrackedDay, goalMinutes uint64, loc *time.Location) dto.DayOutput {
	return dto.DayOutput{
		Year:      day.Year,
		Ordinal:   day.Ordinal,
		Date:      day.Date(loc),
		Completed: day.Completed(),
		GoalMet:   day.MetGoal(goalMinutes),
	}
}
