// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"envforge-cli/internal/plan"

	"github.com/charmbracelet/log"
)

type (
	// IO carries the streams a run is wired to.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result reports how far a run got.
	Result struct {
		// ExitCode is 0 on success, otherwise the failing command's code.
		ExitCode int
		// Completed counts commands that finished successfully.
		Completed int
		// FailedStep is the index of the failing command, -1 on success.
		FailedStep int
		// Err describes the failure; nil when ExitCode is 0. A non-zero
		// exit from the command itself produces an Err describing the step,
		// not the raw exec error.
		Err error
	}

	// Runner executes a plan.
	Runner interface {
		// Name identifies the runner ("native" or "virtual").
		Name() string
		// Run executes every command in order, aborting at the first
		// failure. ctx cancellation interrupts the in-flight command.
		Run(ctx context.Context, p *plan.Plan, streams IO) *Result
	}
)

// New returns the runner for a config/flag name.
func New(name string, logger *log.Logger) (Runner, error) {
	switch name {
	case "native", "":
		return &NativeRunner{logger: logger}, nil
	case "virtual":
		return &VirtualRunner{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown runner %q (want native or virtual)", name)
	}
}

// DefaultIO wires a run to the process streams.
func DefaultIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// buildEnv returns the process environment with the plan's bin directories
// prepended to PATH. This stands in for `conda activate` for the remainder
// of the run.
func buildEnv(p *plan.Plan) []string {
	env := os.Environ()
	if len(p.BinDirs) == 0 {
		return env
	}
	prefix := strings.Join(p.BinDirs, string(os.PathListSeparator))
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + prefix + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
			return env
		}
	}
	return append(env, "PATH="+prefix)
}

func stepFailure(idx int, cmd plan.Command, code int) error {
	return fmt.Errorf("step %d (%s) exited with status %d", idx+1, cmd.Description, code)
}
