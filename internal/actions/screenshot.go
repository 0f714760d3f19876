package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattjoyce/devtask/internal/artifact"
	"github.com/mattjoyce/devtask/internal/config"
	"github.com/mattjoyce/devtask/internal/runner"
	"github.com/mattjoyce/devtask/internal/task"
)

const windowIDKey = "window_id"

// ScreenshotRule matches image targets and captures the active window into
// them after cfg.Delay.
func ScreenshotRule(cfg config.ScreenshotConfig, deps Deps) task.Rule {
	patterns := make([]string, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		patterns[i] = "%" + ext
	}

	windows := deps.Windows
	if windows == nil {
		windows = CommandQuerier{Runner: deps.Runner, Command: cfg.WindowCommand, Stderr: deps.Stderr}
	}

	return task.Rule{
		Name:        strings.Join(patterns, " "),
		Description: fmt.Sprintf("capture the active window after %s", cfg.Delay),
		Match:       task.ExtensionMatcher(cfg.Extensions...),
		Build: func(target string) *task.Task {
			return &task.Task{
				Name:        target,
				Description: "screenshot",
				Target:      target,
				Steps: []task.Step{
					delayStep(cfg, deps),
					activeWindowStep(windows),
					captureStep(cfg, deps),
					verifyStep(),
				},
			}
		},
	}
}

func delayStep(cfg config.ScreenshotConfig, deps Deps) task.Step {
	return task.Step{
		Name: "delay",
		Run: func(_ context.Context, inv *task.Invocation) error {
			inv.Logger.Info("waiting before capture", "delay", cfg.Delay)
			deps.Sleeper.Sleep(cfg.Delay)
			return nil
		},
	}
}

func activeWindowStep(windows WindowQuerier) task.Step {
	return task.Step{
		Name: "active-window",
		Run: func(ctx context.Context, inv *task.Invocation) error {
			id, err := windows.ActiveWindow(ctx)
			if err != nil {
				return task.DependencyFailed(err)
			}
			inv.Logger.Debug("active window", "window_id", id)
			inv.Set(windowIDKey, id)
			return nil
		},
	}
}

func captureStep(cfg config.ScreenshotConfig, deps Deps) task.Step {
	return task.Step{
		Name: "capture",
		Run: func(ctx context.Context, inv *task.Invocation) error {
			id, ok := inv.GetString(windowIDKey)
			if !ok || id == "" {
				return task.DependencyFailed(fmt.Errorf("window id missing"))
			}

			code, err := deps.Runner.Run(ctx, runner.Command{
				Name:   cfg.Command,
				Args:   []string{"-window", id, inv.Target()},
				Stdout: deps.Stdout,
				Stderr: deps.Stderr,
			})
			if err != nil || code != 0 {
				return task.SubprocessFailed(code, err)
			}
			return nil
		},
	}
}

func verifyStep() task.Step {
	return task.Step{
		Name: "verify",
		Run: func(_ context.Context, inv *task.Invocation) error {
			info, err := artifact.Stat(inv.Target())
			if err != nil {
				return err
			}
			if !info.Exists {
				return task.SubprocessFailed(0, fmt.Errorf("capture reported success but %s was not written", inv.Target()))
			}

			digest, err := artifact.Digest(inv.Target())
			if err != nil {
				return err
			}
			inv.Logger.Info("screenshot captured", "target", inv.Target(), "bytes", info.Size, "blake3", digest)
			return nil
		},
	}
}
