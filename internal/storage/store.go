package storage

import (
	"context"

	"gridsim/internal/model"
)

// Store defines persistence operations for episode results.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, episode model.EpisodeRecord) error
	GetEpisode(ctx context.Context, id string) (model.EpisodeRecord, bool, error)
	ListEpisodes(ctx context.Context, limit int) ([]model.EpisodeRecord, error)
	SaveScenarioSummary(ctx context.Context, summary model.ScenarioSummary) error
	GetScenarioSummary(ctx context.Context, name string) (model.ScenarioSummary, bool, error)
}

// Resetter is implemented by stores that can drop all persisted data.
type Resetter interface {
	Reset(ctx context.Context) error
}

// CloseIfSupported closes stores that hold external resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
