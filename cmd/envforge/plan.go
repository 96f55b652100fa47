// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"envforge-cli/internal/plan"

	"github.com/spf13/cobra"
)

var (
	planManifest string
	planBuiltin  bool
	planReuse    bool
	planFormat   string
)

// planCmd renders the install sequence without executing it.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the install sequence without executing",
	Long: `Resolve the conda installation and the forgefile, then print the
ordered command sequence a matching 'envforge install' would run.

The script format emits an executable POSIX script with every argument
shell-quoted, suitable for auditing or running on an air-gapped host:

  envforge plan --format script > provision.sh

Examples:
  envforge plan                      Plain numbered listing
  envforge plan --format markdown    Rendered markdown summary
  envforge plan --format script      Executable POSIX script`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planManifest, "manifest", "m", "", "forgefile path (default ./forgefile.toml)")
	planCmd.Flags().BoolVar(&planBuiltin, "builtin", false, "use the embedded default manifest")
	planCmd.Flags().BoolVar(&planReuse, "reuse", false, "plan against an existing environment (skips creation)")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "output format: text, markdown, or script")
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, err := plan.ParseFormat(planFormat)
	if err != nil {
		return err
	}
	// Past flag validation, errors are rendered by the command itself.
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cfg, err := loadGlobalConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(err, verbose)))
		return &ExitError{Code: 1, Err: err}
	}

	ff, err := resolveForgefile(planManifest, planBuiltin, cfg.UI.ColorScheme)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	inst, _, err := resolveInstallation(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(formatError(err, verbose)))
		return &ExitError{Code: 1, Err: err}
	}

	skipCreate := planReuse && inst.EnvExists(ff.Name)
	p := plan.Compile(ff, inst, plan.Options{SkipCreate: skipCreate})

	out, err := p.Render(format, cfg.UI.ColorScheme)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
