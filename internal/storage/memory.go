package storage

import (
	"context"
	"sync"

	"gridsim/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	episodes  map[string]model.EpisodeRecord
	order     []string
	summaries map[string]model.ScenarioSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes = make(map[string]model.EpisodeRecord)
	s.order = nil
	s.summaries = make(map[string]model.ScenarioSummary)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveEpisode(_ context.Context, episode model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.episodes[episode.ID]; !ok {
		s.order = append(s.order, episode.ID)
	}
	s.episodes[episode.ID] = copyEpisode(episode)
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, id string) (model.EpisodeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episode, ok := s.episodes[id]
	if !ok {
		return model.EpisodeRecord{}, false, nil
	}
	return copyEpisode(episode), true, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, limit int) ([]model.EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order
	if limit > 0 && limit < len(ids) {
		ids = ids[len(ids)-limit:]
	}
	episodes := make([]model.EpisodeRecord, 0, len(ids))
	for _, id := range ids {
		episodes = append(episodes, copyEpisode(s.episodes[id]))
	}
	return episodes, nil
}

func (s *MemoryStore) SaveScenarioSummary(_ context.Context, summary model.ScenarioSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.Name] = summary
	return nil
}

func (s *MemoryStore) GetScenarioSummary(_ context.Context, name string) (model.ScenarioSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[name]
	return summary, ok, nil
}

func copyEpisode(episode model.EpisodeRecord) model.EpisodeRecord {
	copied := episode
	copied.Placements = append([]model.PlacementRecord(nil), episode.Placements...)
	copied.Survivors = append([]string(nil), episode.Survivors...)
	return copied
}
