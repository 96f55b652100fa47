// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"envforge-cli/internal/issue"
	"envforge-cli/internal/plan"
	"envforge-cli/internal/receipt"
	"envforge-cli/internal/runner"

	"github.com/spf13/cobra"
)

var (
	installManifest string
	installBuiltin  bool
	installReuse    bool
	installRunner   string
	installDryRun   bool
)

// installCmd provisions the environment described by the forgefile.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision the environment described by the forgefile",
	Long: `Provision a conda environment from a forgefile.

The run resolves the conda installation (defaults, PATH, then an
interactive prompt), creates the named environment pinned to the
manifest's interpreter version, and executes the install steps strictly
in manifest order. The first failing step aborts the run; the partially
configured environment is left in place.

Examples:
  envforge install                       Use ./forgefile.toml
  envforge install --manifest env.toml   Use an explicit manifest
  envforge install --builtin             Use the embedded default manifest
  envforge install --reuse               Skip creation when the env exists
  envforge install --runner virtual      Execute via the built-in shell`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installManifest, "manifest", "m", "", "forgefile path (default ./forgefile.toml)")
	installCmd.Flags().BoolVar(&installBuiltin, "builtin", false, "use the embedded default manifest")
	installCmd.Flags().BoolVar(&installReuse, "reuse", false, "reuse an existing environment instead of failing at creation")
	installCmd.Flags().StringVar(&installRunner, "runner", "", "step executor: native or virtual (default from config)")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "resolve and print the plan without executing")
}

func runInstall(cmd *cobra.Command, args []string) error {
	// Errors are rendered by the command itself.
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	logger := newLogger()

	cfg, err := loadGlobalConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(err, verbose)))
		return &ExitError{Code: 1, Err: err}
	}

	ff, err := resolveForgefile(installManifest, installBuiltin, cfg.UI.ColorScheme)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	logger.Debug("manifest loaded", "path", ff.FilePath, "env", ff.Name, "steps", len(ff.Steps))

	inst, _, err := resolveInstallation(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(err, verbose)))
		return &ExitError{Code: 1, Err: err}
	}
	logger.Debug("conda resolved", "root", inst.Root, "source", inst.Source)

	// With --reuse an existing environment skips creation; without it the
	// existence check surfaces a clean diagnostic before conda would fail.
	skipCreate := false
	if inst.EnvExists(ff.Name) {
		if !installReuse {
			printIssue(os.Stderr, issue.EnvAlreadyExistsId, cfg.UI.ColorScheme)
			err := issue.NewContext().
				Op("create environment").
				Resource(ff.Name).
				Suggest("Pass --reuse to run the install steps against the existing environment").
				Wrap(fmt.Errorf("environment directory already exists: %s", inst.EnvDir(ff.Name))).
				Err()
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(err, verbose)))
			return &ExitError{Code: 1, Err: err}
		}
		skipCreate = true
		logger.Info("reusing existing environment", "env", ff.Name)
	}

	p := plan.Compile(ff, inst, plan.Options{SkipCreate: skipCreate})

	if installDryRun {
		out, err := p.Render(plan.FormatText, cfg.UI.ColorScheme)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	runnerName := installRunner
	if runnerName == "" {
		runnerName = cfg.Runner
	}
	r, err := runner.New(runnerName, logger)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		TitleStyle.Render("Provisioning"),
		CmdStyle.Render(ff.Name+" (python "+ff.Python+")"))

	res := r.Run(cmd.Context(), p, runner.DefaultIO())
	if res.ExitCode != 0 {
		printIssue(os.Stderr, issue.InstallStepFailedId, cfg.UI.ColorScheme)
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(res.Err, verbose)))
		return &ExitError{Code: res.ExitCode, Err: res.Err}
	}

	rec := receipt.FromPlan(p, ff.FilePath, time.Now())
	if err := rec.Write(inst.EnvDir(ff.Name)); err != nil {
		// The environment is fully provisioned; a failed receipt write is
		// worth a warning, not a failed run.
		logger.Warn("could not write receipt", "err", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s environment %s ready (%d steps)\n",
		SuccessStyle.Render("✓"), ff.Name, res.Completed)
	return nil
}
