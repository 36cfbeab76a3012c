package rexec_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.uber.org/zap/zapcore"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/rexec"
)

func TestManagedRunnerOneShot(t *testing.T) {
	ctx := context.Background()
	runner := rexec.NewManagedRunner(logging.NewTestLogger(t))

	t.Run("success", func(t *testing.T) {
		err := runner.Run(ctx, rexec.ProcessConfig{Name: "sh", Args: []string{"-c", "exit 0"}, OneShot: true})
		test.That(t, err, test.ShouldBeNil)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		err := runner.Run(ctx, rexec.ProcessConfig{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}, OneShot: true})
		var perr *rexec.ProcessError
		test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
		test.That(t, perr.ExitCode, test.ShouldEqual, 3)
		test.That(t, perr.Output, test.ShouldContainSubstring, "boom")
		test.That(t, err.Error(), test.ShouldContainSubstring, "exited with code 3")
	})

	t.Run("missing binary", func(t *testing.T) {
		err := runner.Run(ctx, rexec.ProcessConfig{Name: "hpp-no-such-binary", OneShot: true})
		var perr *rexec.ProcessError
		test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
		test.That(t, perr.ExitCode, test.ShouldEqual, 127)
	})

	t.Run("no name", func(t *testing.T) {
		test.That(t, runner.Run(ctx, rexec.ProcessConfig{}), test.ShouldNotBeNil)
	})
}

func TestManagedRunnerBackground(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	runner := rexec.NewManagedRunner(logger)

	start := time.Now()
	err := runner.Run(context.Background(), rexec.ProcessConfig{Name: "sh", Args: []string{"-c", "sleep 0.2; exit 4"}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Since(start), test.ShouldBeLessThan, 200*time.Millisecond)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("process exited").Len() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("process exited").Len(), test.ShouldEqual, 1)

	// background processes are not restarted after exiting
	time.Sleep(1500 * time.Millisecond)
	test.That(t, logs.FilterMessage("restarting process").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("process exited").Len(), test.ShouldEqual, 1)

	err = runner.Run(context.Background(), rexec.ProcessConfig{Name: "hpp-no-such-binary"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCommandLine(t *testing.T) {
	cfg := rexec.ProcessConfig{Name: "dot", Args: []string{"-Tpdf", "-o/tmp/g.pdf", "/tmp/g.dot"}}
	test.That(t, cfg.CommandLine(), test.ShouldEqual, "dot -Tpdf -o/tmp/g.pdf /tmp/g.dot")
}
