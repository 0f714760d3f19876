package task

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTask                = errors.New("unknown task")
	ErrDependencyResolutionFailed = errors.New("dependency resolution failed")
	ErrSubprocessFailed           = errors.New("subprocess failed")
	ErrLogRedirectionFailed       = errors.New("log redirection failed")
	ErrTaskBusy                   = errors.New("task already running")
)

// Exit statuses used when no subprocess status applies.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Error is a task failure tagged with its kind and location.
type Error struct {
	Kind     error
	Task     string
	Step     string
	ExitCode int // subprocess status for ErrSubprocessFailed
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := ""
	if e.Task != "" {
		msg = "task " + e.Task + ": "
	}
	if e.Step != "" {
		msg += "step " + e.Step + ": "
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		msg += fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Kind != nil:
		msg += e.Kind.Error()
	case e.Err != nil:
		msg += e.Err.Error()
	}
	if errors.Is(e.Kind, ErrSubprocessFailed) && e.ExitCode != 0 && e.Err == nil {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// UnknownTask reports an argument no task or rule accepts.
func UnknownTask(arg string) error {
	return &Error{Kind: ErrUnknownTask, Err: fmt.Errorf("no task or rule for %q", arg)}
}

// DependencyFailed reports a failed prerequisite query.
func DependencyFailed(err error) error {
	return &Error{Kind: ErrDependencyResolutionFailed, Err: err}
}

// SubprocessFailed reports a program that exited with a non-zero status.
func SubprocessFailed(code int, err error) error {
	if code == 0 {
		code = ExitFailure
	}
	return &Error{Kind: ErrSubprocessFailed, ExitCode: code, Err: err}
}

// LogRedirectionFailed reports a log file that could not be opened or truncated.
func LogRedirectionFailed(err error) error {
	return &Error{Kind: ErrLogRedirectionFailed, Err: err}
}

// ExitCodeOf maps an invocation error to the dispatcher's exit status.
// Subprocess statuses are propagated untouched.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var te *Error
	if errors.As(err, &te) && errors.Is(te.Kind, ErrSubprocessFailed) && te.ExitCode > 0 {
		return te.ExitCode
	}
	if errors.Is(err, ErrUnknownTask) {
		return ExitUsage
	}
	return ExitFailure
}
