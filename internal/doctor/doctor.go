// Package doctor checks that the external programs and paths the tasks rely
// on are available on this host.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattjoyce/devtask/internal/config"
)

// Result holds the outcome of a check run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// LookPathFunc resolves an executable the way exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// Doctor checks task collaborators for a loaded config.
type Doctor struct {
	cfg      *config.Config
	lookPath LookPathFunc
}

// New creates a Doctor. A nil lookPath uses exec.LookPath.
func New(cfg *config.Config, lookPath LookPathFunc) *Doctor {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Doctor{cfg: cfg, lookPath: lookPath}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	if err := config.Validate(d.cfg); err != nil {
		d.addError(r, "config", "", err.Error())
	} else {
		d.checkScreenshotTools(r)
		d.checkDocGenerator(r)
		d.checkRunBinary(r)
		d.checkLogPath(r)
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// checkScreenshotTools checks the window query and capture programs.
func (d *Doctor) checkScreenshotTools(r *Result) {
	sc := d.cfg.Screenshot
	if _, err := d.lookPath(sc.WindowCommand[0]); err != nil {
		d.addError(r, "screenshot", "screenshot.window_command",
			fmt.Sprintf("window query %q not found: %v", sc.WindowCommand[0], err))
	}
	if _, err := d.lookPath(sc.Command); err != nil {
		d.addError(r, "screenshot", "screenshot.command",
			fmt.Sprintf("capture utility %q not found: %v", sc.Command, err))
	}
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		d.addWarning(r, "screenshot", "", "no display detected; the active window query will fail")
	}
}

func (d *Doctor) checkDocGenerator(r *Result) {
	if _, err := d.lookPath(d.cfg.Doc.Command); err != nil {
		d.addError(r, "doc", "doc.command",
			fmt.Sprintf("documentation generator %q not found: %v", d.cfg.Doc.Command, err))
	}
}

// checkRunBinary only warns: the binary may simply not be built yet.
func (d *Doctor) checkRunBinary(r *Result) {
	if _, err := d.lookPath(d.cfg.Run.Binary); err != nil {
		d.addWarning(r, "run", "run.binary",
			fmt.Sprintf("project binary %q not runnable (not built yet?): %v", d.cfg.Run.Binary, err))
	}
}

// checkLogPath flags a log location the run task could not open.
func (d *Doctor) checkLogPath(r *Result) {
	dir := filepath.Dir(d.cfg.Run.LogPath)
	fi, err := os.Stat(dir)
	switch {
	case err != nil:
		d.addError(r, "run", "run.log_path", fmt.Sprintf("log directory %q: %v", dir, err))
	case !fi.IsDir():
		d.addError(r, "run", "run.log_path", fmt.Sprintf("log directory %q is not a directory", dir))
	}

	if fi, err := os.Stat(d.cfg.Run.LogPath); err == nil && fi.IsDir() {
		d.addError(r, "run", "run.log_path", fmt.Sprintf("log path %q is a directory", d.cfg.Run.LogPath))
	}
}

// FormatHuman returns a human-readable report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("All task dependencies found.\n")
		return b.String()
	}

	if r.Valid && len(r.Warnings) > 0 {
		b.WriteString("All required task dependencies found")
		fmt.Fprintf(&b, " (%d warning(s))\n", len(r.Warnings))
	}

	if !r.Valid {
		fmt.Fprintf(&b, "Missing task dependencies (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
