// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"envforge-cli/internal/manifest"

	"github.com/spf13/cobra"
)

var initForce bool

// initCmd writes a starter forgefile into the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter forgefile in the current directory",
	Long: `Write the embedded default manifest to ./forgefile.toml as a starting
point. Refuses to overwrite an existing forgefile unless --force is set.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing forgefile")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := manifest.DefaultFileName

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, manifest.DefaultBytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s created %s\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(path))
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Edit it, then run 'envforge plan' to preview the install."))
	return nil
}
