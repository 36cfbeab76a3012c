package inject

import (
	"context"

	"go.hpp.dev/manipulation/rexec"
)

// ProcessRunner is an injected process runner.
type ProcessRunner struct {
	rexec.Runner
	RunFunc func(ctx context.Context, cfg rexec.ProcessConfig) error
}

// Run calls the injected Run or the real version.
func (r *ProcessRunner) Run(ctx context.Context, cfg rexec.ProcessConfig) error {
	if r.RunFunc == nil {
		return r.Runner.Run(ctx, cfg)
	}
	return r.RunFunc(ctx, cfg)
}
