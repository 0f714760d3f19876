package config

import "time"

// Config represents the devtask settings. Every field has a built-in default,
// so a config file is optional and only needs to name what it overrides.
type Config struct {
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Doc        DocConfig        `yaml:"doc"`
	Run        RunConfig        `yaml:"run"`
	Lock       LockConfig       `yaml:"lock"`
	Log        LogConfig        `yaml:"log"`
}

// ScreenshotConfig drives the pattern-triggered capture task.
type ScreenshotConfig struct {
	Delay         time.Duration `yaml:"delay" default:"5s" validate:"gte=0s"`
	Extensions    []string      `yaml:"extensions" default:"[\".png\"]" validate:"required,min=1,dive,ext"`
	WindowCommand []string      `yaml:"window_command" default:"[\"xdotool\", \"getactivewindow\"]" validate:"required,min=1,dive,required"`
	Command       string        `yaml:"command" default:"import" validate:"required"`
}

// DocConfig drives the doc task.
type DocConfig struct {
	Command string   `yaml:"command" default:"cargo" validate:"required"`
	Args    []string `yaml:"args" default:"[\"doc\", \"--open\"]"`
}

// RunConfig drives the run task.
type RunConfig struct {
	Binary  string `yaml:"binary" default:"./target/debug/macros" validate:"required"`
	LogPath string `yaml:"log_path" default:"run.log" validate:"required"`
}

// LockConfig controls the per-task invocation lock.
type LockConfig struct {
	Disabled bool   `yaml:"disabled"`
	Dir      string `yaml:"dir"` // empty means os.TempDir()
}

// LogConfig sets the dispatcher's own logging. CLI flags take precedence.
type LogConfig struct {
	Level  string `yaml:"level" default:"warn" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" default:"text" validate:"oneof=text json"`
}
