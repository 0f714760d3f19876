// Package task resolves invocation arguments to tasks and executes them.
//
// A task is an ordered list of blocking steps. Named tasks are looked up
// directly; any other argument that looks like a path is offered to the
// pattern rules in registration order and the first match builds a task bound
// to that target.
//
// Execution is synchronous and fail-fast:
//   - a pattern task whose target is up to date is skipped (unless Always)
//   - steps run one after another on the calling goroutine
//   - the first failing step stops the task; earlier side effects stay
//
// Error kinds:
//   - ErrUnknownTask → nothing ran
//   - ErrDependencyResolutionFailed → a query needed by a later step failed
//   - ErrSubprocessFailed → an external program exited non-zero; its status is kept
//   - ErrLogRedirectionFailed → the log file could not be prepared
//   - ErrTaskBusy → another invocation of the same task holds the lock
package task
