package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tabiq/internal/tabular"
)

// ExecutionMode selects how the manager schedules steps.
type ExecutionMode string

const (
	// ExecutionModeSequential runs steps one after another in
	// registration order. A failing step skips the rest.
	ExecutionModeSequential ExecutionMode = "sequential"

	// ExecutionModeConcurrent runs all steps at once. Steps read the
	// same table and write disjoint result keys, so they are
	// independent of each other.
	ExecutionModeConcurrent ExecutionMode = "concurrent"
)

// DefaultStepTimeout bounds a single step execution.
const DefaultStepTimeout = 2 * time.Minute

// RetryConfig defines retry behavior for retryable step failures.
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// DefaultRetryConfig returns the default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// RunResponse is the outcome of a completed Execute call.
type RunResponse struct {
	ID       string                `json:"id"`
	Status   RunStatus             `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Results  map[string]any        `json:"results,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Manager orchestrates analysis runs: it owns the step list, drives
// their execution, stores run states, and publishes progress events.
type Manager struct {
	mu          sync.RWMutex
	steps       []Step
	store       *RunStore
	broadcaster Broadcaster
	tracer      *RunTracer
	logger      *slog.Logger
	mode        ExecutionMode
	stepTimeout time.Duration
	retry       RetryConfig
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithSteps replaces the default step list.
func WithSteps(steps ...Step) ManagerOption {
	return func(m *Manager) { m.steps = steps }
}

// WithStore replaces the run store.
func WithStore(store *RunStore) ManagerOption {
	return func(m *Manager) { m.store = store }
}

// WithBroadcaster sets the progress event sink.
func WithBroadcaster(b Broadcaster) ManagerOption {
	return func(m *Manager) { m.broadcaster = b }
}

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithExecutionMode selects sequential or concurrent step scheduling.
func WithExecutionMode(mode ExecutionMode) ManagerOption {
	return func(m *Manager) { m.mode = mode }
}

// WithStepTimeout bounds each step execution. Zero disables the bound.
func WithStepTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) { m.stepTimeout = timeout }
}

// WithRetryConfig sets the retry policy for retryable step failures.
func WithRetryConfig(cfg RetryConfig) ManagerOption {
	return func(m *Manager) { m.retry = cfg }
}

// NewManager creates a manager with the standard analysis steps unless
// WithSteps overrides them.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		store:       NewRunStore(),
		broadcaster: NopBroadcaster{},
		tracer:      NewRunTracer(),
		logger:      slog.Default(),
		mode:        ExecutionModeSequential,
		stepTimeout: DefaultStepTimeout,
		retry:       DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if len(m.steps) == 0 {
		m.steps = DefaultSteps()
	}
	return m
}

// RegisterStep appends a step to the execution order.
func (m *Manager) RegisterStep(step Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.steps {
		if existing.ID() == step.ID() {
			return fmt.Errorf("step %s already registered", step.ID())
		}
	}
	m.steps = append(m.steps, step)
	return nil
}

// Steps returns the registered steps in execution order.
func (m *Manager) Steps() []Step {
	m.mu.RLock()
	defer m.mu.RUnlock()

	steps := make([]Step, len(m.steps))
	copy(steps, m.steps)
	return steps
}

// GetRun returns a copy of a stored run state.
func (m *Manager) GetRun(id string) (*RunState, error) {
	return m.store.Get(id)
}

// ListRuns returns copies of stored runs matching the filter.
func (m *Manager) ListRuns(filter RunFilter) []*RunState {
	return m.store.List(filter)
}

// Stats returns run counts grouped by status.
func (m *Manager) Stats() map[string]int {
	return m.store.Stats()
}

// CleanupOldRuns prunes terminal runs older than the given age.
func (m *Manager) CleanupOldRuns(olderThan time.Duration) int {
	return m.store.CleanupOldRuns(olderThan)
}

// Execute runs all registered steps against the table and returns the
// collected results. The run stays queryable through GetRun afterwards.
func (m *Manager) Execute(ctx context.Context, table tabular.Table) (*RunResponse, error) {
	return m.ExecuteRun(ctx, uuid.New().String(), table)
}

// ExecuteRun is Execute with a caller-chosen run ID, so callers that
// return the ID before the run finishes can hand it out first.
func (m *Manager) ExecuteRun(ctx context.Context, runID string, table tabular.Table) (*RunResponse, error) {
	if table == nil {
		return nil, NewValidationError("", "no table provided")
	}

	m.mu.RLock()
	steps := make([]Step, len(m.steps))
	copy(steps, m.steps)
	mode := m.mode
	m.mu.RUnlock()

	if len(steps) == 0 {
		return nil, NewValidationError("", "no steps registered")
	}

	ctx, span := m.tracer.TraceRun(ctx, runID, len(steps))
	defer span.End()

	state := NewRunState(runID, table)
	infos := make([]StepInfo, len(steps))
	for i, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
		infos[i] = StepInfo{ID: step.ID(), Name: step.Name()}
	}

	if err := m.store.Create(state); err != nil {
		return nil, fmt.Errorf("registering run: %w", err)
	}

	m.broadcaster.RunCreated(runID, infos)

	m.logger.InfoContext(ctx, "run started",
		slog.String("run_id", runID),
		slog.String("mode", string(mode)),
		slog.Int("steps", len(steps)),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	state.Start()
	m.publish(Event{
		RunID:    runID,
		Status:   string(RunStatusRunning),
		Progress: 0,
		Message:  "analysis run started",
	})

	var runErr error
	if mode == ExecutionModeConcurrent {
		runErr = m.executeConcurrent(ctx, state, steps)
	} else {
		runErr = m.executeSequential(ctx, state, steps)
	}

	if runErr != nil {
		if GetErrorType(runErr) == ErrorTypeCancellation {
			state.Cancel()
		} else {
			state.Fail(runErr)
		}
		status := state.GetStatus()
		m.tracer.RecordRunCompletion(span, status, state.Duration(), runErr)
		m.publish(Event{
			RunID:    runID,
			Status:   string(status),
			Progress: state.Progress(),
			Message:  runErr.Error(),
		})
		m.logger.ErrorContext(ctx, "run finished with error",
			slog.String("run_id", runID),
			slog.String("status", string(status)),
			slog.Duration("duration", state.Duration()),
			slog.String("error", runErr.Error()))
		return m.buildResponse(state), runErr
	}

	state.Complete()
	m.tracer.RecordRunCompletion(span, RunStatusCompleted, state.Duration(), nil)
	m.publish(Event{
		RunID:    runID,
		Status:   string(RunStatusCompleted),
		Progress: 100,
		Message:  "analysis run completed",
	})
	m.logger.InfoContext(ctx, "run completed",
		slog.String("run_id", runID),
		slog.Duration("duration", state.Duration()))

	return m.buildResponse(state), nil
}

func (m *Manager) executeSequential(ctx context.Context, state *RunState, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.skipRemaining(state, steps[i:], "run cancelled")
			return NewCancellationError(step.ID())
		default:
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], "previous step failed")
			return err
		}
	}
	return nil
}

func (m *Manager) executeConcurrent(ctx context.Context, state *RunState, steps []Step) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, step := range steps {
		g.Go(func() error {
			return m.executeStep(gctx, state, step)
		})
	}
	if err := g.Wait(); err != nil {
		m.skipRemaining(state, steps, "run aborted")
		return err
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepCtx := ctx
	if m.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, m.stepTimeout)
		defer cancel()
	}

	stepCtx, span := m.tracer.TraceStep(stepCtx, state.ID, step)
	defer span.End()

	st := state.GetStep(step.ID())
	st.Start()
	m.publish(Event{
		RunID:    state.ID,
		Step:     step.ID(),
		Status:   string(StepStatusActive),
		Progress: state.Progress(),
		Message:  step.Name() + " started",
	})
	m.logger.InfoContext(stepCtx, "step started",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()))

	start := time.Now()
	err := m.runWithRetry(stepCtx, state, step)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = NewTimeoutError(step.ID(), m.stepTimeout)
		}
		st.Fail(err)
		m.tracer.RecordStepCompletion(span, duration, err)
		m.publish(Event{
			RunID:    state.ID,
			Step:     step.ID(),
			Status:   string(StepStatusFailed),
			Progress: state.Progress(),
			Message:  err.Error(),
		})
		m.logger.ErrorContext(stepCtx, "step failed",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return err
	}

	st.Complete()
	m.tracer.RecordStepCompletion(span, duration, nil)

	message := st.GetMessage()
	if message == "" {
		message = step.Name() + " completed"
	}
	m.publish(Event{
		RunID:    state.ID,
		Step:     step.ID(),
		Status:   string(StepStatusCompleted),
		Progress: state.Progress(),
		Message:  message,
	})
	m.logger.InfoContext(stepCtx, "step completed",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (m *Manager) runWithRetry(ctx context.Context, state *RunState, step Step) error {
	attempts := m.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := m.retry.InitialDelay

	for attempt := 1; ; attempt++ {
		err := step.Run(ctx, state)
		if err == nil || !IsRetryable(err) || attempt >= attempts {
			return err
		}

		m.logger.WarnContext(ctx, "step retrying",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return NewCancellationError(step.ID())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * m.retry.Multiplier)
		if m.retry.MaxDelay > 0 && delay > m.retry.MaxDelay {
			delay = m.retry.MaxDelay
		}
	}
}

func (m *Manager) skipRemaining(state *RunState, steps []Step, reason string) {
	for _, step := range steps {
		st := state.GetStep(step.ID())
		if st == nil || st.GetStatus() != StepStatusPending {
			continue
		}
		st.Skip(reason)
		m.publish(Event{
			RunID:    state.ID,
			Step:     step.ID(),
			Status:   string(StepStatusSkipped),
			Progress: state.Progress(),
			Message:  reason,
		})
	}
}

func (m *Manager) publish(event Event) {
	event.Timestamp = time.Now()
	m.broadcaster.Publish(event)
}

func (m *Manager) buildResponse(state *RunState) *RunResponse {
	clone := state.Clone()
	resp := &RunResponse{
		ID:       clone.ID,
		Status:   clone.Status,
		Duration: clone.Duration(),
		Steps:    clone.Steps,
		Results:  clone.Results(),
	}
	if clone.Err != nil {
		resp.Error = clone.Err.Error()
	}
	return resp
}
