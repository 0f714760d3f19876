package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/mattjoyce/devtask/internal/config"
	"github.com/mattjoyce/devtask/internal/runner"
	"github.com/mattjoyce/devtask/internal/task"
)

const logFileKey = "log_file"

// RunTask runs the project binary with stderr truncated into cfg.LogPath.
// Stdout and stdin stay on the terminal.
func RunTask(cfg config.RunConfig, deps Deps) *task.Task {
	return &task.Task{
		Name:        "run",
		Description: fmt.Sprintf("run %s, stderr > %s", cfg.Binary, cfg.LogPath),
		Steps: []task.Step{
			{
				Name: "open-log",
				Run: func(_ context.Context, inv *task.Invocation) error {
					f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
					if err != nil {
						return task.LogRedirectionFailed(err)
					}
					inv.AddCleanup(f.Close)
					inv.Set(logFileKey, f)
					return nil
				},
			},
			{
				Name: "exec",
				Run: func(ctx context.Context, inv *task.Invocation) error {
					v, _ := inv.Get(logFileKey)
					f, ok := v.(*os.File)
					if !ok {
						return task.LogRedirectionFailed(fmt.Errorf("log file not open"))
					}

					inv.Logger.Debug("running binary", "binary", cfg.Binary, "log", cfg.LogPath)
					code, err := deps.Runner.Run(ctx, runner.Command{
						Name:   cfg.Binary,
						Stdin:  deps.Stdin,
						Stdout: deps.Stdout,
						Stderr: f,
					})
					if err != nil || code != 0 {
						return task.SubprocessFailed(code, err)
					}
					return nil
				},
			},
		},
	}
}
