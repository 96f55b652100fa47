// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"os/exec"

	"envforge-cli/internal/plan"

	"github.com/charmbracelet/log"
)

// NativeRunner executes plan commands directly with os/exec.
type NativeRunner struct {
	logger *log.Logger
}

// Name implements Runner.
func (r *NativeRunner) Name() string { return "native" }

// Run implements Runner.
func (r *NativeRunner) Run(ctx context.Context, p *plan.Plan, streams IO) *Result {
	env := buildEnv(p)

	for i, step := range p.Commands {
		if r.logger != nil {
			r.logger.Debug("executing step", "index", i+1, "argv", step.Argv)
		}

		cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
		cmd.Env = env
		cmd.Stdin = streams.Stdin
		cmd.Stdout = streams.Stdout
		cmd.Stderr = streams.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code := exitErr.ExitCode()
				return &Result{
					ExitCode:   code,
					Completed:  i,
					FailedStep: i,
					Err:        stepFailure(i, step, code),
				}
			}
			// Start failures (program missing, permission denied).
			return &Result{ExitCode: 1, Completed: i, FailedStep: i, Err: err}
		}
	}

	return &Result{Completed: len(p.Commands), FailedStep: -1}
}
