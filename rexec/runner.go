package rexec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
	"go.viam.com/utils/pexec"

	"go.hpp.dev/manipulation/logging"
)

// A Runner runs local processes.
type Runner interface {
	// Run runs the process described by cfg. One shot processes are waited on and a non-zero exit
	// is a *ProcessError; other processes are started and Run returns once they are running.
	Run(ctx context.Context, cfg ProcessConfig) error
}

// ManagedRunner runs processes on the local host as managed processes.
type ManagedRunner struct {
	Logger logging.Logger
}

// NewManagedRunner returns a Runner backed by managed processes.
func NewManagedRunner(logger logging.Logger) *ManagedRunner {
	return &ManagedRunner{Logger: logger}
}

// Run implements Runner.
func (r *ManagedRunner) Run(ctx context.Context, cfg ProcessConfig) error {
	if cfg.Name == "" {
		return errors.New("process name is required")
	}
	if cfg.OneShot {
		return r.runOneShot(ctx, cfg)
	}
	return r.start(ctx, cfg)
}

func (r *ManagedRunner) runOneShot(ctx context.Context, cfg ProcessConfig) error {
	var output bytes.Buffer
	proc := pexec.NewManagedProcess(pexec.ProcessConfig{
		ID:        cfg.Name,
		Name:      cfg.Name,
		Args:      cfg.Args,
		CWD:       cfg.CWD,
		OneShot:   true,
		Log:       cfg.Log,
		LogWriter: &output,
	}, r.Logger.AsZap())

	r.Logger.CDebugw(ctx, "running process", "cmd", cfg.CommandLine())
	if err := proc.Start(ctx); err != nil {
		return processError(cfg, output.String(), err)
	}
	return nil
}

// start launches the process and returns. Its exit is logged and never triggers a restart.
func (r *ManagedRunner) start(ctx context.Context, cfg ProcessConfig) error {
	proc := pexec.NewManagedProcess(pexec.ProcessConfig{
		ID:   cfg.Name,
		Name: cfg.Name,
		Args: cfg.Args,
		CWD:  cfg.CWD,
		Log:  cfg.Log,
		OnUnexpectedExit: func(_ context.Context, exitCode int) bool {
			if exitCode != 0 {
				r.Logger.Warnw("process exited", "cmd", cfg.Name, "code", exitCode)
			} else {
				r.Logger.Debugw("process exited", "cmd", cfg.Name)
			}
			return false
		},
	}, r.Logger.AsZap())

	r.Logger.CDebugw(ctx, "starting process", "cmd", cfg.CommandLine())
	if err := proc.Start(ctx); err != nil {
		return processError(cfg, "", err)
	}
	return nil
}

func processError(cfg ProcessConfig, output string, err error) error {
	perr := &ProcessError{Cmd: cfg.Name, Args: cfg.Args, ExitCode: 1, Output: output, Err: err}
	var exitErr *exec.ExitError
	var execErr *exec.Error
	switch {
	case errors.As(err, &exitErr):
		perr.ExitCode = exitErr.ExitCode()
	case errors.As(err, &execErr):
		perr.ExitCode = 127
	}
	return perr
}
