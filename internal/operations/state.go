package operations

import (
	"sync"
	"time"

	"tabiq/internal/tabular"
)

// RunStatus represents the overall status of an analysis run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState is the complete state of one analysis run: the input table,
// the per-step states, and the results the steps have produced so far.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	table   tabular.Table
	results map[string]any

	Err error `json:"-"`
}

// NewRunState creates a pending run state over the given table.
func NewRunState(id string, table tabular.Table) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		table:     table,
		results:   make(map[string]any),
	}
}

// Table returns the input table of the run. Steps must treat it as
// read-only.
func (r *RunState) Table() tabular.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// Start marks the run as running.
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed.
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed.
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Err = err
}

// Cancel marks the run as cancelled.
func (r *RunState) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
}

// GetStatus returns the current run status.
func (r *RunState) GetStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// GetStep returns the state of a specific step, or nil when unknown.
func (r *RunState) GetStep(stepID string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Steps[stepID]
}

// SetStep registers the state of a specific step.
func (r *RunState) SetStep(stepID string, state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[stepID] = state
}

// SetStepMessage records a progress message on a step, ignoring unknown
// step IDs.
func (r *RunState) SetStepMessage(stepID, message string) {
	if st := r.GetStep(stepID); st != nil {
		st.SetMessage(message)
	}
}

// SetResult stores a step result under the given key.
func (r *RunState) SetResult(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[key] = value
}

// Result retrieves a step result.
func (r *RunState) Result(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.results[key]
	return val, ok
}

// Results returns a copy of the collected step results.
func (r *RunState) Results() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}
	return out
}

// Progress returns the overall run progress in percent, the average of
// the step progresses.
func (r *RunState) Progress() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.Steps) == 0 {
		return 0
	}
	var total float64
	for _, st := range r.Steps {
		total += st.GetProgress()
	}
	return total / float64(len(r.Steps))
}

// Duration returns how long the run has been executing, or its final
// duration once it has ended.
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// HasFailures reports whether any step has failed.
func (r *RunState) HasFailures() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, st := range r.Steps {
		if st.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the run state. The table is shared; it
// is immutable by contract.
func (r *RunState) Clone() *RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &RunState{
		ID:        r.ID,
		Status:    r.Status,
		StartTime: r.StartTime,
		Steps:     make(map[string]*StepState, len(r.Steps)),
		table:     r.table,
		results:   make(map[string]any, len(r.results)),
		Err:       r.Err,
	}
	if r.EndTime != nil {
		end := *r.EndTime
		clone.EndTime = &end
	}
	for id, st := range r.Steps {
		clone.Steps[id] = st.clone()
	}
	for k, v := range r.results {
		clone.results[k] = v
	}
	return clone
}
