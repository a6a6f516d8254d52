package bootstrap

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	trackerinadapter "mdt8/internal/modules/tracker/adapter/in"
	trackeroutadapter "mdt8/internal/modules/tracker/adapter/out"
	trackerout "mdt8/internal/modules/tracker/port/out"
	trackerusecase "mdt8/internal/modules/tracker/usecase"
	"mdt8/internal/platform/clock"
	"mdt8/internal/platform/config"
	uiapp "mdt8/internal/ui/app"
)

type App struct {
	TrackerCLI trackerinadapter.CLIHandler
	StatePath  string

	index *trackeroutadapter.SQLiteHistoryIndex
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	clk := clock.SystemClock{}

	// The state file is the source of truth; the tracker keeps working
	// without its index.
	var index trackerout.HistoryIndex
	sqliteIndex, err := trackeroutadapter.NewSQLiteHistoryIndex(cfg.IndexPath, clk)
	if err != nil {
		logger.Warn("history index unavailable", "path", cfg.IndexPath, "error", err)
	} else {
		index = sqliteIndex
	}

	var journal trackerout.DayJournal
	if cfg.JournalDir != "" {
		journal = trackeroutadapter.NewVaultDayJournal(cfg.JournalDir, time.Local)
	}

	trackerUC := trackerusecase.NewInteractor(
		clk,
		trackeroutadapter.NewFileStateStore(cfg.StatePath),
		index,
		journal,
		logger,
	)
	return &App{
		TrackerCLI: trackerinadapter.NewCLIHandler(trackerUC),
		StatePath:  cfg.StatePath,
		index:      sqliteIndex,
	}, nil
}

func (a *App) Close() error {
	if a.index == nil {
		return nil
	}
	return a.index.Close()
}

func RunWatch(app *App) error {
	model := uiapp.NewModel(app.TrackerCLI, clock.SystemClock{})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
