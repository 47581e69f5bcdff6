package history

import (
	"context"
	"errors"
	"sync"

	"github.com/baldhumanity/dino-evo/evolution"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	generations map[string][]evolution.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.generations = make(map[string][]evolution.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveRun(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) AppendGeneration(ctx context.Context, runID string, stats evolution.GenerationStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.generations[runID] = append(s.generations[runID], stats)
	return nil
}

func (s *MemoryStore) GetGenerations(_ context.Context, runID string) ([]evolution.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.generations[runID]
	if !ok {
		return nil, false, nil
	}
	out := make([]evolution.GenerationStats, len(records))
	copy(out, records)
	return out, true, nil
}
