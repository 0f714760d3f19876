package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"syscall"
	"time"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/mattjoyce/devtask/internal/runner CommandRunner,Sleeper

// Shell-compatible statuses for programs that never started.
const (
	ExitNotExecutable = 126
	ExitNotFound      = 127

	// ExitSignalBase is added to the signal number when a child is killed.
	ExitSignalBase = 128
)

// Command describes one subprocess launch. Nil streams are discarded,
// except Stdin which reads from the null device.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner abstracts subprocess execution for task steps.
type CommandRunner interface {
	// Run starts the command and waits for it to exit.
	Run(ctx context.Context, cmd Command) (int, error)
	// Output runs name with args and returns its stdout. The child's stderr
	// goes to stderr, or is discarded when stderr is nil.
	Output(ctx context.Context, stderr io.Writer, name string, args ...string) ([]byte, int, error)
}

// Sleeper blocks the calling goroutine for d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a plain function to Sleeper.
type SleepFunc func(time.Duration)

func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// RealSleeper sleeps on the calling goroutine. It is not interruptible.
var RealSleeper Sleeper = SleepFunc(time.Sleep)

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Run implements CommandRunner backed by os/exec.
func (ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return ExitCode(cmd.Run())
}

// Output implements CommandRunner.
func (ExecRunner) Output(ctx context.Context, stderr io.Writer, name string, args ...string) ([]byte, int, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	code, err := ExitCode(cmd.Run())
	return stdout.Bytes(), code, err
}

// ExitCode maps the error returned by exec.Cmd.Run to a process exit status.
func ExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ExitSignalBase + int(ws.Signal()), err
		}
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, err
	}

	var execErr *exec.Error
	switch {
	case errors.Is(err, fs.ErrPermission):
		return ExitNotExecutable, err
	case errors.Is(err, exec.ErrNotFound), errors.As(err, &execErr), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound, err
	}
	return 1, err
}
