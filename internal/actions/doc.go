// Package actions defines the project's developer tasks: screenshot capture,
// documentation build and running the project binary with its stderr sent to
// a log file.
//
// All collaborators (subprocess runner, sleeper, active-window query, terminal
// streams) come in through Deps so each task can be exercised with fakes.
package actions
