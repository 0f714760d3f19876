package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/devtask/internal/actions"
	"github.com/mattjoyce/devtask/internal/config"
	"github.com/mattjoyce/devtask/internal/doctor"
	"github.com/mattjoyce/devtask/internal/lock"
	"github.com/mattjoyce/devtask/internal/log"
	"github.com/mattjoyce/devtask/internal/task"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:], actions.DefaultDeps()))
}

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	always     bool
	list       bool
	check      bool
	jsonOut    bool
}

// usageError marks argument problems so they exit with task.ExitUsage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func runCLI(args []string, deps actions.Deps) int {
	exitCode := 0
	cmd := newRootCmd(deps, &exitCode)
	cmd.SetArgs(args)
	if deps.Stdout != nil {
		cmd.SetOut(deps.Stdout)
	}
	if deps.Stderr != nil {
		cmd.SetErr(deps.Stderr)
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "devtask: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) || exitCode == 0 {
			// cobra reports flag parsing problems without reaching RunE
			return task.ExitUsage
		}
	}
	return exitCode
}

func newRootCmd(deps actions.Deps, exitCode *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "devtask [flags] <task | image-path>",
		Short: "devtask - project task dispatcher",
		Long: `devtask runs the project's developer tasks.

Tasks:
  doc            Build the documentation and open it in the default viewer
  run            Run the project binary, stderr truncated into the run log
  <path>.png     Capture the active window into <path>.png after a short delay

A screenshot target that already exists is up to date and is not recaptured
unless -B is given. A capture writes only the target inside the project; the
per-task lock file lives in the system temp directory (lock.dir overrides it,
lock.disabled turns it off). With --log-level info the BLAKE3 digest of each
new screenshot is logged to stderr.`,
		Example: `  devtask doc
  devtask run
  devtask docs/img/main-screen.png
  devtask -B shot.png`,
		Version:       currentVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list || opts.check {
				if len(args) > 0 {
					return usageError{fmt.Errorf("--list and --check take no arguments")}
				}
				return nil
			}
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one task name or target path, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, deps, args)
			*exitCode = task.ExitCodeOf(err)
			return err
		},
	}
	cmd.SetVersionTemplate("devtask {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Optional YAML file overriding built-in task settings")
	flags.StringVar(&opts.logLevel, "log-level", "", "Dispatcher log level: debug, info, warn, error (default from config, warn)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Dispatcher log format: text or json (default from config, text)")
	flags.BoolVarP(&opts.always, "always-make", "B", false, "Run pattern tasks even when the target is up to date")
	flags.BoolVar(&opts.list, "list", false, "List tasks and target patterns")
	flags.BoolVar(&opts.check, "check", false, "Check that the programs the tasks call are installed")
	flags.BoolVar(&opts.jsonOut, "json", false, "With --check, print the report as JSON")

	return cmd
}

func run(cmd *cobra.Command, opts *options, deps actions.Deps, args []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg, opts)

	if opts.check {
		return runCheck(cmd, cfg, opts.jsonOut)
	}

	reg := task.NewRegistry()
	if err := actions.Register(reg, cfg, deps); err != nil {
		return fmt.Errorf("register tasks: %w", err)
	}

	if opts.list {
		fmt.Fprint(cmd.OutOrStdout(), renderTaskList(reg.Entries()))
		return nil
	}

	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	var lockFn task.LockFunc
	if !cfg.Lock.Disabled {
		lockFn = taskLocker(cfg.Lock.Dir)
	}

	res, err := task.NewExecutor(opts.always, lockFn).Execute(cmd.Context(), t)
	if res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "devtask: '%s' is up to date.\n", t.Target)
	}
	return err
}

func runCheck(cmd *cobra.Command, cfg *config.Config, jsonOut bool) error {
	result := doctor.New(cfg, nil).Validate()

	if jsonOut {
		out, err := doctor.FormatJSON(result)
		if err != nil {
			return fmt.Errorf("render check report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), doctor.FormatHuman(result))
	}

	if !result.Valid {
		return fmt.Errorf("dependency check failed with %d error(s)", len(result.Errors))
	}
	return nil
}

func setupLogging(cfg *config.Config, opts *options) {
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	format := cfg.Log.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	log.Setup(level, format)
}

// taskLocker scopes locks to the working directory so separate checkouts
// never contend.
func taskLocker(dir string) task.LockFunc {
	return func(name string) (func() error, error) {
		project, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		l, err := lock.AcquirePIDLock(lock.TaskLockPath(dir, project, name))
		if err != nil {
			if errors.Is(err, lock.ErrLocked) {
				return nil, fmt.Errorf("%w: %v", task.ErrTaskBusy, err)
			}
			return nil, err
		}
		log.WithComponent("lock").Debug("acquired task lock", "task", name, "path", l.Path())
		return l.Release, nil
	}
}

func currentVersion() string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "0.0.0-dev"
	}

	commit := strings.TrimSpace(gitCommit)
	if commit == "" || commit == "unknown" {
		commit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if commit == "" {
		commit = "unknown"
	}

	built := strings.TrimSpace(buildDate)
	if built == "" || built == "unknown" {
		built = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if normalized, ok := normalizeBuildTimeUTC(built); ok {
		built = normalized
	} else {
		built = "unknown"
	}

	return fmt.Sprintf("%s (commit %s, built %s)", v, shortenCommit(commit), built)
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func normalizeBuildTimeUTC(raw string) (string, bool) {
	if raw == "" || raw == "unknown" {
		return "", false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", false
	}

	return t.UTC().Format(time.RFC3339), true
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
