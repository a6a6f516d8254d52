package in

import (
	"context"

	trackerdto "mdt8/internal/modules/tracker/dto"
	trackerin "mdt8/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandStatus})
}

func (h CLIHandler) Start(ctx context.Context) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandStart})
}

func (h CLIHandler) Stop(ctx context.Context) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandStop})
}

func (h CLIHandler) Cancel(ctx context.Context) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandCancel})
}

func (h CLIHandler) Mod(ctx context.Context, minutes int) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandMod, Minutes: minutes})
}

func (h CLIHandler) Goal(ctx context.Context, minutes int) (trackerdto.Result, error) {
	return h.usecase.Execute(ctx, trackerdto.Command{Kind: trackerdto.CommandGoal, Minutes: minutes})
}

func (h CLIHandler) History(ctx context.Context, limit int) (trackerdto.HistoryOutput, error) {
	return h.usecase.History(ctx, trackerdto.HistoryInput{Limit: limit})
}

func (h CLIHandler) Reindex(ctx context.Context) (trackerdto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
