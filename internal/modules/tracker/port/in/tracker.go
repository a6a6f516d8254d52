package in

import (
	"context"

	"mdt8/internal/modules/tracker/dto"
)

type Usecase interface {
	Execute(ctx context.Context, command dto.Command) (dto.Result, error)
	History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
