// Package rexec runs the local helper processes used to render and view constraint graphs.
package rexec

import (
	"fmt"
	"strings"
)

// ProcessConfig describes a process to run.
type ProcessConfig struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
	CWD  string   `json:"cwd"`
	// OneShot processes are waited on and their exit status is reported. Others are started and
	// left running; they are never restarted.
	OneShot bool `json:"one_shot"`
	// Log forwards the process output to the logger at debug level.
	Log bool `json:"log"`
}

// CommandLine returns the process name followed by its arguments.
func (cfg ProcessConfig) CommandLine() string {
	return strings.Join(append([]string{cfg.Name}, cfg.Args...), " ")
}

// A ProcessError is returned when a process could not be run or exited with a non-zero status.
type ProcessError struct {
	Cmd      string
	Args     []string
	ExitCode int
	// Output is the combined stdout and stderr of a one shot process.
	Output string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("process %q exited with code %d", e.Cmd, e.ExitCode)
	if e.Err != nil && e.ExitCode == 127 {
		msg = fmt.Sprintf("process %q could not be started: %v", e.Cmd, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}
