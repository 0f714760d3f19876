package actions

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattjoyce/devtask/internal/runner"
)

// WindowQuerier returns the id of the window holding input focus.
type WindowQuerier interface {
	ActiveWindow(ctx context.Context) (string, error)
}

// CommandQuerier asks an external program (xdotool by default) for the
// active window and parses the id from its stdout.
type CommandQuerier struct {
	Runner  runner.CommandRunner
	Command []string
	Stderr  io.Writer
}

// ActiveWindow implements WindowQuerier.
func (q CommandQuerier) ActiveWindow(ctx context.Context) (string, error) {
	if len(q.Command) == 0 {
		return "", fmt.Errorf("window command is empty")
	}
	out, code, err := q.Runner.Output(ctx, q.Stderr, q.Command[0], q.Command[1:]...)
	if err != nil || code != 0 {
		return "", fmt.Errorf("%s exited with status %d: %w", q.Command[0], code, errOrUnknown(err))
	}
	return ParseWindowID(out)
}

// ParseWindowID validates the query output. The id must be a single non-zero
// decimal or 0x-prefixed hex number; anything else is treated as no window.
func ParseWindowID(out []byte) (string, error) {
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("no active window reported")
	}
	if strings.ContainsAny(id, " \t\n") {
		return "", fmt.Errorf("ambiguous window id %q", id)
	}

	var n uint64
	var err error
	if hex, ok := strings.CutPrefix(strings.ToLower(id), "0x"); ok {
		n, err = strconv.ParseUint(hex, 16, 64)
	} else {
		n, err = strconv.ParseUint(id, 10, 64)
	}
	if err != nil || n == 0 {
		return "", fmt.Errorf("invalid window id %q", id)
	}
	return id, nil
}

func errOrUnknown(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("unknown error")
}
