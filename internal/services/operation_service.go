package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tabiq/internal/cleaning"
	"tabiq/internal/operations"
	"tabiq/internal/tabular"
)

// OperationService drives multi-step analysis runs through the
// operations manager and exposes their state to the API.
type OperationService struct {
	manager     *operations.Manager
	broadcaster *operations.StatusBroadcaster
	runTimeout  time.Duration
	logger      *slog.Logger
}

// NewOperationService creates the operation service. runTimeout bounds
// each background run; zero means no limit.
func NewOperationService(manager *operations.Manager, broadcaster *operations.StatusBroadcaster, runTimeout time.Duration, logger *slog.Logger) *OperationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationService{
		manager:     manager,
		broadcaster: broadcaster,
		runTimeout:  runTimeout,
		logger:      logger,
	}
}

// StartRun applies the cleaning operations to the table, then starts an
// analysis run in the background and returns its ID. Cleaning failures
// surface immediately; run progress goes out over the websocket.
func (s *OperationService) StartRun(ctx context.Context, t tabular.Table, cleanOps []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared := t
	for _, op := range cleanOps {
		cleaned, _, err := cleaning.Apply(prepared, op, cleaning.Params{})
		if err != nil {
			return "", fmt.Errorf("cleaning operation %s: %w", op, err)
		}
		prepared = cleaned
	}

	runID := uuid.New().String()

	// The run outlives the HTTP request; only the timeout bounds it.
	runCtx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if s.runTimeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, s.runTimeout)
	}

	go func() {
		defer cancel()
		if _, err := s.manager.ExecuteRun(runCtx, runID, prepared); err != nil {
			s.logger.Error("background run failed",
				slog.String("run_id", runID),
				slog.String("error", err.Error()))
		}
	}()

	s.logger.InfoContext(ctx, "run accepted",
		slog.String("run_id", runID),
		slog.Int("clean_operations", len(cleanOps)),
		slog.Int("rows", prepared.NumRows()))
	return runID, nil
}

// Run executes an analysis run synchronously and returns the collected
// results. Used by the CLI.
func (s *OperationService) Run(ctx context.Context, t tabular.Table) (*operations.RunResponse, error) {
	return s.manager.Execute(ctx, t)
}

// GetRun returns the stored state of a run.
func (s *OperationService) GetRun(ctx context.Context, runID string) (*operations.RunState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.manager.GetRun(runID)
}

// ListRuns returns stored runs matching the filter.
func (s *OperationService) ListRuns(ctx context.Context, filter operations.RunFilter) []*operations.RunState {
	return s.manager.ListRuns(filter)
}

// Snapshot returns the latest broadcast snapshot for a run, which also
// covers runs still in flight.
func (s *OperationService) Snapshot(runID string) (*operations.RunSnapshot, bool) {
	if s.broadcaster == nil {
		return nil, false
	}
	return s.broadcaster.GetSnapshot(runID)
}

// Stats returns run counts grouped by status.
func (s *OperationService) Stats() map[string]int {
	return s.manager.Stats()
}

// CleanupOldRuns prunes terminal runs older than maxAge from both the
// run store and the snapshot cache, returning how many were removed
// from the store.
func (s *OperationService) CleanupOldRuns(maxAge time.Duration) int {
	removed := s.manager.CleanupOldRuns(maxAge)
	if s.broadcaster != nil {
		s.broadcaster.CleanupOldRuns(maxAge)
	}
	if removed > 0 {
		s.logger.Debug("old runs pruned",
			slog.Int("removed", removed),
			slog.Duration("max_age", maxAge))
	}
	return removed
}
