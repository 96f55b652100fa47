// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"envforge-cli/internal/config"

	"github.com/spf13/cobra"
)

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage envforge configuration",
}

// configShowCmd prints the effective configuration after defaults, the
// config file, and flags are merged.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()
	if path == "" {
		fmt.Fprintln(out, SubtitleStyle.Render("no config file found, showing defaults"))
	} else {
		fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("config file:"), CmdStyle.Render(path))
	}

	condaRoot := cfg.CondaRoot
	if condaRootFlag != "" {
		condaRoot = condaRootFlag
	}
	if condaRoot == "" {
		condaRoot = "(auto-discover)"
	}

	fmt.Fprintf(out, "conda_root:      %s\n", condaRoot)
	fmt.Fprintf(out, "runner:          %s\n", cfg.Runner)
	fmt.Fprintf(out, "ui.color_scheme: %s\n", cfg.UI.ColorScheme)
	fmt.Fprintf(out, "ui.verbose:      %t\n", cfg.UI.Verbose || verbose)
	return nil
}
