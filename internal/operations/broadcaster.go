package operations

import (
	"log/slog"
	"sync"
	"time"
)

// Event is a single progress notification emitted by the Manager. Step
// is empty for run-level events. Progress is the overall run progress
// in percent.
type Event struct {
	RunID     string    `json:"run_id"`
	Step      string    `json:"step,omitempty"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StepInfo identifies a step when a run is announced.
type StepInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Broadcaster receives progress notifications from the Manager.
type Broadcaster interface {
	// RunCreated announces a new run and its planned steps.
	RunCreated(runID string, steps []StepInfo)

	// Publish delivers a progress event. Implementations must not block
	// run execution for longer than a snapshot update takes.
	Publish(event Event)
}

// NopBroadcaster discards all events. Used by the CLI and in tests.
type NopBroadcaster struct{}

// RunCreated implements Broadcaster.
func (NopBroadcaster) RunCreated(string, []StepInfo) {}

// Publish implements Broadcaster.
func (NopBroadcaster) Publish(Event) {}

// Hub relays snapshots to connected websocket clients.
type Hub interface {
	BroadcastUpdate(eventType, runID, action string, payload any)
}

// RunSnapshot is the complete state of a run at a point in time. It is
// the only structure relayed to websocket clients.
type RunSnapshot struct {
	RunID       string         `json:"run_id"`
	Status      string         `json:"status"`
	Progress    float64        `json:"progress"`
	CurrentStep string         `json:"current_step,omitempty"`
	Steps       []StepSnapshot `json:"steps"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// StepSnapshot is the state of a single step within a RunSnapshot.
type StepSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (s *RunSnapshot) clone() *RunSnapshot {
	clone := *s
	clone.Steps = make([]StepSnapshot, len(s.Steps))
	copy(clone.Steps, s.Steps)
	if s.CompletedAt != nil {
		completed := *s.CompletedAt
		clone.CompletedAt = &completed
	}
	return &clone
}

type updateRequest struct {
	runID string
	apply func(*RunSnapshot)
	done  chan struct{}
}

// StatusBroadcaster folds the Manager's event stream into per-run
// snapshots and relays every change to the websocket hub. All updates
// are applied by a single goroutine so snapshots never race.
type StatusBroadcaster struct {
	mu      sync.RWMutex
	runs    map[string]*RunSnapshot
	hub     Hub
	logger  *slog.Logger
	updates chan updateRequest
	stop    chan struct{}
}

// EventTypeRunSnapshot is the websocket event type for run snapshots.
const EventTypeRunSnapshot = "run:snapshot"

// NewStatusBroadcaster creates a broadcaster relaying to the given hub
// and starts its update processor.
func NewStatusBroadcaster(hub Hub, logger *slog.Logger) *StatusBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}

	sb := &StatusBroadcaster{
		runs:    make(map[string]*RunSnapshot),
		hub:     hub,
		logger:  logger,
		updates: make(chan updateRequest, 100),
		stop:    make(chan struct{}),
	}

	go sb.processUpdates()

	return sb
}

func (sb *StatusBroadcaster) processUpdates() {
	for {
		select {
		case <-sb.stop:
			return
		case req := <-sb.updates:
			sb.handleUpdate(req)
		}
	}
}

func (sb *StatusBroadcaster) handleUpdate(req updateRequest) {
	defer close(req.done)

	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, exists := sb.runs[req.runID]
	if !exists {
		snapshot = &RunSnapshot{
			RunID:     req.runID,
			Status:    string(RunStatusPending),
			StartedAt: time.Now(),
			Steps:     []StepSnapshot{},
		}
		sb.runs[req.runID] = snapshot
	}

	req.apply(snapshot)
	snapshot.UpdatedAt = time.Now()

	if isTerminalStatus(snapshot.Status) && snapshot.CompletedAt == nil {
		now := time.Now()
		snapshot.CompletedAt = &now
	}

	sb.broadcast(snapshot)
}

func (sb *StatusBroadcaster) broadcast(snapshot *RunSnapshot) {
	if sb.hub == nil {
		return
	}

	sb.logger.Debug("broadcasting run snapshot",
		slog.String("run_id", snapshot.RunID),
		slog.String("status", snapshot.Status),
		slog.Float64("progress", snapshot.Progress),
		slog.String("current_step", snapshot.CurrentStep))

	sb.hub.BroadcastUpdate(EventTypeRunSnapshot, snapshot.RunID, "update", snapshot.clone())
}

// update enqueues a snapshot mutation and waits for it to be applied.
func (sb *StatusBroadcaster) update(runID string, apply func(*RunSnapshot)) {
	req := updateRequest{
		runID: runID,
		apply: apply,
		done:  make(chan struct{}),
	}

	select {
	case sb.updates <- req:
		select {
		case <-req.done:
		case <-sb.stop:
		}
	case <-sb.stop:
	}
}

// RunCreated implements Broadcaster.
func (sb *StatusBroadcaster) RunCreated(runID string, steps []StepInfo) {
	sb.update(runID, func(snapshot *RunSnapshot) {
		snapshot.Status = string(RunStatusPending)
		snapshot.Progress = 0
		snapshot.Steps = make([]StepSnapshot, len(steps))
		for i, step := range steps {
			snapshot.Steps[i] = StepSnapshot{
				ID:     step.ID,
				Name:   step.Name,
				Status: string(StepStatusPending),
			}
		}
		snapshot.Message = "run created"
	})
}

// Publish implements Broadcaster.
func (sb *StatusBroadcaster) Publish(event Event) {
	sb.update(event.RunID, func(snapshot *RunSnapshot) {
		// Progress only moves forward while a run is live; late events
		// must not rewind the bar.
		if event.Progress > snapshot.Progress {
			snapshot.Progress = event.Progress
		}

		if event.Step == "" {
			snapshot.Status = event.Status
			snapshot.Message = event.Message
			switch event.Status {
			case string(RunStatusCompleted):
				snapshot.Progress = 100
				snapshot.CurrentStep = ""
			case string(RunStatusFailed):
				snapshot.Error = event.Message
				snapshot.CurrentStep = ""
			case string(RunStatusCancelled):
				snapshot.CurrentStep = ""
			}
			return
		}

		for i := range snapshot.Steps {
			if snapshot.Steps[i].ID != event.Step {
				continue
			}
			snapshot.Steps[i].Status = event.Status
			snapshot.Steps[i].Message = event.Message
			switch event.Status {
			case string(StepStatusActive):
				snapshot.CurrentStep = snapshot.Steps[i].Name
			case string(StepStatusCompleted):
				snapshot.Steps[i].Progress = 100
			case string(StepStatusFailed):
				snapshot.Steps[i].Error = event.Message
			}
			return
		}

		// Unknown step ID: append a minimal entry so clients keep moving.
		snapshot.Steps = append(snapshot.Steps, StepSnapshot{
			ID:      event.Step,
			Name:    event.Step,
			Status:  event.Status,
			Message: event.Message,
		})
	})
}

// GetSnapshot returns a copy of the current snapshot for a run.
func (sb *StatusBroadcaster) GetSnapshot(runID string) (*RunSnapshot, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	snapshot, exists := sb.runs[runID]
	if !exists {
		return nil, false
	}
	return snapshot.clone(), true
}

// GetAllSnapshots returns copies of all run snapshots.
func (sb *StatusBroadcaster) GetAllSnapshots() []*RunSnapshot {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	snapshots := make([]*RunSnapshot, 0, len(sb.runs))
	for _, snapshot := range sb.runs {
		snapshots = append(snapshots, snapshot.clone())
	}
	return snapshots
}

// CleanupOldRuns removes terminal runs older than maxAge and returns how
// many were removed.
func (sb *StatusBroadcaster) CleanupOldRuns(maxAge time.Duration) int {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, snapshot := range sb.runs {
		if !isTerminalStatus(snapshot.Status) || snapshot.CompletedAt == nil {
			continue
		}
		if now.Sub(*snapshot.CompletedAt) > maxAge {
			delete(sb.runs, id)
			removed++
		}
	}
	return removed
}

// Stop shuts down the update processor. Publish calls made after Stop
// are dropped.
func (sb *StatusBroadcaster) Stop() {
	close(sb.stop)
}

func isTerminalStatus(status string) bool {
	switch status {
	case string(RunStatusCompleted), string(RunStatusFailed), string(RunStatusCancelled):
		return true
	}
	return false
}
