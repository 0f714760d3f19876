package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/devtask/internal/artifact"
	"github.com/mattjoyce/devtask/internal/log"
)

// LockFunc guards a task against concurrent invocations. It returns a release
// function, or an error wrapping ErrTaskBusy when the task is already running.
type LockFunc func(task string) (release func() error, err error)

// Executor runs resolved tasks one step at a time.
type Executor struct {
	always bool
	lock   LockFunc
	logger *slog.Logger
	now    func() time.Time
}

// NewExecutor creates an Executor. With always set, pattern tasks run even when
// their target is up to date. lock may be nil.
func NewExecutor(always bool, lock LockFunc) *Executor {
	return &Executor{
		always: always,
		lock:   lock,
		logger: log.WithComponent("task"),
		now:    time.Now,
	}
}

// Execute runs t synchronously and stops at the first failing step.
func (e *Executor) Execute(ctx context.Context, t *Task) (Result, error) {
	start := e.now()
	res := Result{
		Task:         t.Name,
		InvocationID: uuid.NewString(),
	}
	logger := log.WithInvocation(e.logger, t.Name, res.InvocationID)

	finish := func(err error) (Result, error) {
		res.Duration = e.now().Sub(start)
		res.ExitCode = ExitCodeOf(err)
		return res, err
	}

	if e.lock != nil {
		release, err := e.lock(t.Name)
		if err != nil {
			logger.Warn("task is locked by another invocation", "error", err)
			return finish(tag(err, t.Name, ""))
		}
		defer func() {
			if err := release(); err != nil {
				logger.Warn("failed to release task lock", "error", err)
			}
		}()
	}

	if t.Target != "" && !e.always {
		fresh, err := artifact.UpToDate(t.Target, t.Prerequisites...)
		if err != nil {
			return finish(tag(fmt.Errorf("check target: %w", err), t.Name, ""))
		}
		if fresh {
			logger.Info("target is up to date", "target", t.Target)
			res.Skipped = true
			return finish(nil)
		}
	}

	inv := &Invocation{ID: res.InvocationID, Task: t, Logger: logger}
	defer inv.runCleanups()
	logger.Info("executing task", "steps", len(t.Steps), "target", t.Target)

	for _, step := range t.Steps {
		stepStart := e.now()
		logger.Debug("step started", "step", step.Name)

		err := step.Run(ctx, inv)
		sr := StepResult{Name: step.Name, Duration: e.now().Sub(stepStart), Err: err}
		res.Steps = append(res.Steps, sr)

		if err != nil {
			err = tag(err, t.Name, step.Name)
			logger.Info("step failed", "step", step.Name, "duration", sr.Duration, "error", err)
			return finish(err)
		}
		logger.Debug("step completed", "step", step.Name, "duration", sr.Duration)
	}

	logger.Info("task completed", "duration", e.now().Sub(start))
	return finish(nil)
}

// tag attaches task and step names to err.
func tag(err error, taskName, stepName string) error {
	var te *Error
	if errors.As(err, &te) {
		if te.Task == "" {
			te.Task = taskName
		}
		if te.Step == "" {
			te.Step = stepName
		}
		return err
	}
	return &Error{Task: taskName, Step: stepName, Err: err}
}
