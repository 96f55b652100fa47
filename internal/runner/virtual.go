// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"envforge-cli/internal/plan"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes plan commands through the built-in mvdan/sh
// interpreter instead of the host shell. External programs (conda, pip) are
// still spawned by the interpreter's exec handler; the shell layer itself
// is what is replaced.
type VirtualRunner struct {
	logger *log.Logger
}

// Name implements Runner.
func (r *VirtualRunner) Name() string { return "virtual" }

// Run implements Runner.
func (r *VirtualRunner) Run(ctx context.Context, p *plan.Plan, streams IO) *Result {
	env := buildEnv(p)
	parser := syntax.NewParser()

	for i, step := range p.Commands {
		if r.logger != nil {
			r.logger.Debug("executing step", "index", i+1, "argv", step.Argv)
		}

		src, err := quoteArgv(step.Argv)
		if err != nil {
			return &Result{ExitCode: 1, Completed: i, FailedStep: i, Err: err}
		}

		prog, err := parser.Parse(strings.NewReader(src), step.Description)
		if err != nil {
			return &Result{ExitCode: 1, Completed: i, FailedStep: i,
				Err: fmt.Errorf("failed to parse step command: %w", err)}
		}

		interpreter, err := interp.New(
			interp.Env(expand.ListEnviron(env...)),
			interp.StdIO(streams.Stdin, streams.Stdout, streams.Stderr),
		)
		if err != nil {
			return &Result{ExitCode: 1, Completed: i, FailedStep: i,
				Err: fmt.Errorf("failed to create interpreter: %w", err)}
		}

		if err := interpreter.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				code := int(status)
				return &Result{
					ExitCode:   code,
					Completed:  i,
					FailedStep: i,
					Err:        stepFailure(i, step, code),
				}
			}
			return &Result{ExitCode: 1, Completed: i, FailedStep: i, Err: err}
		}
	}

	return &Result{Completed: len(p.Commands), FailedStep: -1}
}

// quoteArgv renders an argv as a single safely-quoted shell command.
func quoteArgv(argv []string) (string, error) {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", arg, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}
