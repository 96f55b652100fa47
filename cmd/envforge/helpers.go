// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io/fs"
	"os"

	"envforge-cli/internal/conda"
	"envforge-cli/internal/config"
	"envforge-cli/internal/issue"
	"envforge-cli/internal/manifest"
)

// resolveForgefile picks the manifest for a run: the embedded default when
// --builtin is set, the --manifest path when given, otherwise
// forgefile.toml in the current directory.
func resolveForgefile(manifestFlag string, builtin bool, scheme string) (*manifest.Forgefile, error) {
	if builtin {
		return manifest.Default(), nil
	}

	path := manifestFlag
	if path == "" {
		path = manifest.DefaultFileName
	}

	ff, err := manifest.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			printIssue(os.Stderr, issue.ForgefileNotFoundId, scheme)
		} else {
			printIssue(os.Stderr, issue.ForgefileParseErrorId, scheme)
		}
		return nil, err
	}
	return ff, nil
}

// resolveInstallation locates conda. The interactive prompt is attached
// only when stdin is a terminal and --non-interactive is not set; otherwise
// a failed discovery is terminal and rendered as an issue.
func resolveInstallation(cfg *config.Config) (*conda.Installation, []conda.Probe, error) {
	opts := conda.Options{Override: cfg.CondaRoot}
	interactive := !nonInteractive && conda.StdinIsTerminal()
	if interactive {
		opts.Prompter = conda.TerminalPrompter{}
	}

	inst, probes, err := conda.Resolve(opts)
	if err != nil && cfg.CondaRoot == "" {
		if !interactive {
			printIssue(os.Stderr, issue.NonInteractiveStdinId, cfg.UI.ColorScheme)
		} else {
			printIssue(os.Stderr, issue.CondaNotFoundId, cfg.UI.ColorScheme)
		}
	}
	return inst, probes, err
}
