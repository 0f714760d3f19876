package actions

import (
	"context"

	"github.com/mattjoyce/devtask/internal/config"
	"github.com/mattjoyce/devtask/internal/runner"
	"github.com/mattjoyce/devtask/internal/task"
)

// DocTask builds the project documentation and lets the generator open it.
func DocTask(cfg config.DocConfig, deps Deps) *task.Task {
	return &task.Task{
		Name:        "doc",
		Description: "build and open the documentation",
		Steps: []task.Step{{
			Name: "generate",
			Run: func(ctx context.Context, inv *task.Invocation) error {
				inv.Logger.Debug("running doc generator", "command", cfg.Command, "args", cfg.Args)
				code, err := deps.Runner.Run(ctx, runner.Command{
					Name:   cfg.Command,
					Args:   cfg.Args,
					Stdin:  deps.Stdin,
					Stdout: deps.Stdout,
					Stderr: deps.Stderr,
				})
				if err != nil || code != 0 {
					return task.SubprocessFailed(code, err)
				}
				return nil
			},
		}},
	}
}
