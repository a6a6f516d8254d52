package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mdt8/internal/modules/tracker/domain"
	trackerout "mdt8/internal/modules/tracker/port/out"
	apperrors "mdt8/internal/platform/errors"
)

var requiredFields = []string{"goalMinutes", "trackingDate", "completedTodaySeconds", "priorDays"}

type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) trackerout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Location() string {
	return s.path
}

// Load returns the persisted record. A missing file wraps ErrNotFound; both
// missing and malformed files wrap ErrLoadFailure.
func (s *FileStateStore) Load(_ context.Context) (domain.TrackerState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TrackerState{}, fmt.Errorf("%w: %w: %w", apperrors.ErrLoadFailure, apperrors.ErrNotFound, err)
		}
		return domain.TrackerState{}, fmt.Errorf("%w: read %s: %w", apperrors.ErrLoadFailure, s.path, err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return domain.TrackerState{}, fmt.Errorf("%w: decode %s: %w", apperrors.ErrLoadFailure, s.path, err)
	}
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return domain.TrackerState{}, fmt.Errorf("%w: decode %s: missing field %q", apperrors.ErrLoadFailure, s.path, key)
		}
	}

	state := domain.TrackerState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.TrackerState{}, fmt.Errorf("%w: decode %s: %w", apperrors.ErrLoadFailure, s.path, err)
	}
	if state.PriorDays == nil {
		state.PriorDays = []domain.TrackedDay{}
	}
	for idx, day := range state.PriorDays {
		if day.Ordinal < 1 || day.Ordinal > 366 {
			return domain.TrackerState{}, fmt.Errorf("%w: decode %s: prior day %d has ordinal %d", apperrors.ErrLoadFailure, s.path, idx, day.Ordinal)
		}
	}
	return state, nil
}

func (s *FileStateStore) Save(_ context.Context, state domain.TrackerState) error {
	if state.PriorDays == nil {
		state.PriorDays = []domain.TrackedDay{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create state dir: %w", apperrors.ErrSaveFailure, err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", apperrors.ErrSaveFailure, err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperrors.ErrSaveFailure, s.path, err)
	}
	return nil
}
