// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"envforge-cli/internal/config"
	"envforge-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// nonInteractive disables the discovery prompt even on a terminal
	nonInteractive bool
	// condaRootFlag is an explicit conda installation root
	condaRootFlag string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "envforge",
		Short: "A declarative conda environment provisioner",
		Long: TitleStyle.Render("envforge") + SubtitleStyle.Render(" - A declarative conda environment provisioner") + `

envforge provisions isolated Python environments from a forgefile: a TOML
manifest naming the environment, its pinned interpreter version, and an
ordered list of conda and pip install steps. Steps run strictly in order
and the first failure aborts the run.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a forgefile in your project directory
  2. Declare the environment and its install steps
  3. Provision with: envforge install

` + SubtitleStyle.Render("Examples:") + `
  envforge init             Create a starter forgefile
  envforge plan             Preview the install sequence without executing
  envforge install          Provision the environment
  envforge install --reuse  Re-run installs against an existing environment
  envforge doctor           Diagnose conda discovery`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/envforge/config.cue)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail when discovery needs operator input")
	rootCmd.PersistentFlags().StringVar(&condaRootFlag, "conda-root", "", "conda installation root (skips discovery)")

	// Add subcommands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Debug level when --verbose is set.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "envforge",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadGlobalConfig resolves the config file and folds the global flags in:
// --verbose and --conda-root take precedence over file values.
func loadGlobalConfig() (*config.Config, error) {
	cfg, _, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.UI.Verbose = true
	}
	if condaRootFlag != "" {
		cfg.CondaRoot = condaRootFlag
	}
	return cfg, nil
}

// printIssue renders a known issue's markdown help to w. Rendering errors
// degrade to the raw markdown rather than masking the original failure.
func printIssue(w io.Writer, id issue.Id, scheme string) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	out, err := iss.Render(scheme)
	if err != nil {
		out = string(iss.MarkdownMsg())
	}
	fmt.Fprintln(w, out)
}

// formatError prints actionable errors with their suggestions; other errors
// fall back to their plain message.
func formatError(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
