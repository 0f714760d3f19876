package task

import (
	"context"
	"log/slog"
	"time"
)

// Task is a named or pattern-bound unit of work.
type Task struct {
	Name        string
	Description string

	// Target is the artifact path for pattern tasks, empty for named tasks.
	Target        string
	Prerequisites []string

	Steps []Step
}

// Step is one blocking operation of a task.
type Step struct {
	Name string
	Run  func(ctx context.Context, inv *Invocation) error
}

// Invocation carries per-run data through a task's steps.
type Invocation struct {
	ID     string
	Task   *Task
	Logger *slog.Logger

	values   map[string]any
	cleanups []func() error
}

// Target is shorthand for inv.Task.Target.
func (inv *Invocation) Target() string {
	return inv.Task.Target
}

// Set records a value produced by one step for a later one.
func (inv *Invocation) Set(key string, value any) {
	if inv.values == nil {
		inv.values = make(map[string]any)
	}
	inv.values[key] = value
}

// Get returns a value stored by an earlier step.
func (inv *Invocation) Get(key string) (any, bool) {
	v, ok := inv.values[key]
	return v, ok
}

// GetString returns a string value stored by an earlier step.
func (inv *Invocation) GetString(key string) (string, bool) {
	v, ok := inv.values[key].(string)
	return v, ok
}

// AddCleanup registers fn to run once the task finishes, successful or not.
// Cleanups run in reverse registration order.
func (inv *Invocation) AddCleanup(fn func() error) {
	inv.cleanups = append(inv.cleanups, fn)
}

func (inv *Invocation) runCleanups() {
	for i := len(inv.cleanups) - 1; i >= 0; i-- {
		if err := inv.cleanups[i](); err != nil && inv.Logger != nil {
			inv.Logger.Warn("cleanup failed", "error", err)
		}
	}
	inv.cleanups = nil
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Result summarizes one invocation.
type Result struct {
	Task         string
	InvocationID string
	Skipped      bool // target was up to date
	ExitCode     int
	Duration     time.Duration
	Steps        []StepResult
}
