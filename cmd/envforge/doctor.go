// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"envforge-cli/internal/conda"
	"envforge-cli/internal/receipt"

	"github.com/spf13/cobra"
)

var doctorEnv string

// doctorCmd diagnoses conda discovery and provisioned environments.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose conda discovery",
	Long: `Probe the conda discovery candidates in order and report what was
found. With --env, also report whether the named environment exists and
show its install receipt when envforge provisioned it.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorEnv, "env", "", "also inspect the named environment")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cfg, err := loadGlobalConfig()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Conda discovery"))

	// Doctor never prompts: it reports, the operator decides.
	inst, probes, err := conda.Resolve(conda.Options{Override: cfg.CondaRoot})
	for _, p := range probes {
		if p.Err == nil {
			fmt.Fprintf(out, "  %s %s (%s)\n", SuccessStyle.Render("✓"), CmdStyle.Render(p.Path), p.Source)
			continue
		}
		fmt.Fprintf(out, "  %s %s (%s): %v\n", ErrorStyle.Render("✗"), p.Path, p.Source, p.Err)
	}
	if err != nil {
		fmt.Fprintln(out, WarningStyle.Render("no usable conda installation found"))
		return &ExitError{Code: 1, Err: err}
	}
	fmt.Fprintf(out, "using %s\n", CmdStyle.Render(inst.Root))

	if doctorEnv == "" {
		return nil
	}

	fmt.Fprintln(out, TitleStyle.Render("Environment "+doctorEnv))
	if !inst.EnvExists(doctorEnv) {
		fmt.Fprintf(out, "  %s not found under %s\n", ErrorStyle.Render("✗"), inst.EnvDir(doctorEnv))
		return nil
	}
	fmt.Fprintf(out, "  %s exists at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(inst.EnvDir(doctorEnv)))

	rec, err := receipt.Read(inst.EnvDir(doctorEnv))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, SubtitleStyle.Render("  no install receipt (not provisioned by envforge)"))
	case err != nil:
		fmt.Fprintf(out, "  %s unreadable receipt: %v\n", WarningStyle.Render("!"), err)
	default:
		fmt.Fprintf(out, "  provisioned from %s at %s (%d steps, python %s)\n",
			CmdStyle.Render(rec.Manifest), rec.CompletedAt.Format("2006-01-02 15:04 MST"),
			len(rec.Steps), rec.Python)
	}
	return nil
}
