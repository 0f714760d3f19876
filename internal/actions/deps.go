package actions

import (
	"io"
	"os"

	"github.com/mattjoyce/devtask/internal/config"
	"github.com/mattjoyce/devtask/internal/runner"
	"github.com/mattjoyce/devtask/internal/task"
)

// Deps are the collaborators task steps use instead of process globals.
type Deps struct {
	Runner  runner.CommandRunner
	Sleeper runner.Sleeper
	Windows WindowQuerier // nil → query with the configured window command

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultDeps wires the real host: os/exec, time.Sleep and the process streams.
func DefaultDeps() Deps {
	return Deps{
		Runner:  runner.ExecRunner{},
		Sleeper: runner.RealSleeper,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Register installs the doc and run tasks and the screenshot rule.
func Register(reg *task.Registry, cfg *config.Config, deps Deps) error {
	if err := reg.Register(DocTask(cfg.Doc, deps)); err != nil {
		return err
	}
	if err := reg.Register(RunTask(cfg.Run, deps)); err != nil {
		return err
	}
	return reg.AddRule(ScreenshotRule(cfg.Screenshot, deps))
}
