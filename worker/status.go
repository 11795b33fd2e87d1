package worker

import (
	"errors"
	"sync"
	"time"
)

// ErrSweepInProgress is returned when a sweep is requested while another runs.
var ErrSweepInProgress = errors.New("expiry sweep already in progress")

type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// ExecutionResult describes one expiry sweep.
type ExecutionResult struct {
	Status       RunStatus     `json:"status"`
	Environment  string        `json:"environment"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	Duration     time.Duration `json:"duration"`
	Deactivated  int64         `json:"deactivated"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Runs         int           `json:"runs"`
	Failures     int           `json:"failures"`
}

// StatusManager keeps the result of the most recent sweep.
type StatusManager struct {
	mu          sync.RWMutex
	environment string
	last        *ExecutionResult
	runs        int
	failures    int
}

func NewStatusManager(env string) *StatusManager {
	return &StatusManager{environment: env}
}

// Begin records the start of a sweep.
func (sm *StatusManager) Begin() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.runs++
	sm.last = &ExecutionResult{
		Status:      StatusRunning,
		Environment: sm.environment,
		StartTime:   time.Now(),
		Runs:        sm.runs,
		Failures:    sm.failures,
	}
}

// Finish closes the running sweep with its outcome.
func (sm *StatusManager) Finish(deactivated int64, err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.last == nil || sm.last.Status != StatusRunning {
		return
	}
	now := time.Now()
	sm.last.EndTime = &now
	sm.last.Duration = now.Sub(sm.last.StartTime)
	sm.last.Deactivated = deactivated
	sm.last.Status = StatusCompleted
	if err != nil {
		sm.failures++
		sm.last.Status = StatusFailed
		sm.last.ErrorMessage = err.Error()
	}
	sm.last.Failures = sm.failures
}

// Last returns a copy of the latest result, false before the first sweep.
func (sm *StatusManager) Last() (*ExecutionResult, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.last == nil {
		return nil, false
	}
	result := *sm.last
	return &result, true
}
