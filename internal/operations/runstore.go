package operations

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// RunFilter narrows the result of RunStore.List.
type RunFilter struct {
	Status RunStatus
	Since  time.Time
	Limit  int
}

// RunStore is an in-memory, uuid-keyed store of run states. Finished
// runs stay queryable until CleanupOldRuns prunes them.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunState
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunState),
	}
}

// Create registers a new run.
func (s *RunStore) Create(state *RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[state.ID]; exists {
		return fmt.Errorf("run %s already exists", state.ID)
	}

	s.runs[state.ID] = state
	return nil
}

// Get retrieves a run by ID. The returned state is a copy; callers
// cannot mutate the live run through it.
func (s *RunStore) Get(id string) (*RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.runs[id]
	if !exists {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}

	return state.Clone(), nil
}

// List returns copies of the runs matching the filter, newest first.
func (s *RunStore) List(filter RunFilter) []*RunState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*RunState
	for _, state := range s.runs {
		if filter.Status != "" && state.GetStatus() != filter.Status {
			continue
		}
		if !filter.Since.IsZero() && state.StartTime.Before(filter.Since) {
			continue
		}
		result = append(result, state.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result
}

// Delete removes a run from the store.
func (s *RunStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[id]; !exists {
		return fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}

	delete(s.runs, id)
	return nil
}

// CleanupOldRuns removes terminal runs that started before the cutoff
// and returns how many were removed.
func (s *RunStore) CleanupOldRuns(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for id, state := range s.runs {
		switch state.GetStatus() {
		case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
			if state.StartTime.Before(cutoff) {
				delete(s.runs, id)
				removed++
			}
		}
	}
	return removed
}

// Stats returns run counts grouped by status.
func (s *RunStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]int{
		"total":     len(s.runs),
		"pending":   0,
		"running":   0,
		"completed": 0,
		"failed":    0,
		"cancelled": 0,
	}

	for _, state := range s.runs {
		switch state.GetStatus() {
		case RunStatusPending:
			stats["pending"]++
		case RunStatusRunning:
			stats["running"]++
		case RunStatusCompleted:
			stats["completed"]++
		case RunStatusFailed:
			stats["failed"]++
		case RunStatusCancelled:
			stats["cancelled"]++
		}
	}

	return stats
}
