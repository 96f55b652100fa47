// SPDX-License-Identifier: EPL-2.0

package conda

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"envforge-cli/internal/issue"
)

// PromptTitle is the wording of the interactive recovery prompt, kept
// verbatim from the original installer.
const PromptTitle = "Please provide you conda install directory:"

// Source identifies where an installation candidate came from.
type Source int

const (
	// SourceOverride is an explicit --conda-root flag or conda_root config value.
	SourceOverride Source = iota
	// SourcePrimaryDefault is ~/miniconda3.
	SourcePrimaryDefault
	// SourceSecondaryDefault is ~/anaconda3.
	SourceSecondaryDefault
	// SourcePath is the directory containing the conda binary found on PATH.
	SourcePath
	// SourcePrompt is a directory supplied interactively by the operator.
	SourcePrompt
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "explicit override"
	case SourcePrimaryDefault:
		return "default location (~/miniconda3)"
	case SourceSecondaryDefault:
		return "default location (~/anaconda3)"
	case SourcePath:
		return "PATH"
	case SourcePrompt:
		return "interactive prompt"
	default:
		return "unknown"
	}
}

type (
	// Installation is a validated conda installation root.
	Installation struct {
		// Root is the absolute, symlink-resolved installation directory.
		Root string
		// Source indicates how the root was found.
		Source Source
	}

	// Probe records one discovery attempt, for doctor output.
	Probe struct {
		Path   string
		Source Source
		Err    error
	}

	// Prompter supplies a directory interactively when automatic discovery
	// fails. Implementations re-prompt on their own terms; Resolve calls
	// AskDir once per rejected candidate, without bound.
	Prompter interface {
		AskDir(title string) (string, error)
	}

	// Options configures Resolve.
	Options struct {
		// Override is an explicit installation root; when set and invalid,
		// discovery fails without trying the defaults.
		Override string
		// HomeDir overrides the home directory used for the default
		// candidates (tests). Empty means os.UserHomeDir.
		HomeDir string
		// LookPath overrides exec.LookPath (tests).
		LookPath func(file string) (string, error)
		// Prompter enables interactive recovery. Nil means non-interactive:
		// discovery failure is terminal.
		Prompter Prompter
	}
)

// CondaBin returns the path of the conda executable inside the installation.
func (i *Installation) CondaBin() string {
	return filepath.Join(i.Root, "bin", "conda")
}

// EnvDir returns the directory a named environment lives in.
func (i *Installation) EnvDir(name string) string {
	return filepath.Join(i.Root, "envs", name)
}

// EnvExists reports whether a named environment directory already exists.
func (i *Installation) EnvExists(name string) bool {
	info, err := os.Stat(i.EnvDir(name))
	return err == nil && info.IsDir()
}

// Resolve locates a conda installation. The returned probes record every
// candidate that was tried, in order, including the one that succeeded.
func Resolve(opts Options) (*Installation, []Probe, error) {
	var probes []Probe

	try := func(path string, src Source) (*Installation, bool) {
		root, err := validate(path)
		probes = append(probes, Probe{Path: path, Source: src, Err: err})
		if err != nil {
			return nil, false
		}
		return &Installation{Root: root, Source: src}, true
	}

	// An explicit override is authoritative: if it is wrong, guessing
	// defaults behind the operator's back would mask the mistake.
	if opts.Override != "" {
		inst, ok := try(opts.Override, SourceOverride)
		if !ok {
			return nil, probes, issue.NewContext().
				Op("resolve conda installation").
				Resource(opts.Override).
				Suggest("Check the --conda-root flag or the conda_root config value").
				Wrap(probes[len(probes)-1].Err).
				Err()
		}
		return inst, probes, nil
	}

	home := opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, probes, fmt.Errorf("failed to get home directory: %w", err)
		}
	}

	if inst, ok := try(filepath.Join(home, "miniconda3"), SourcePrimaryDefault); ok {
		return inst, probes, nil
	}
	if inst, ok := try(filepath.Join(home, "anaconda3"), SourceSecondaryDefault); ok {
		return inst, probes, nil
	}

	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if bin, err := lookPath("conda"); err == nil {
		// bin is <root>/bin/conda or <root>/condabin/conda.
		if inst, ok := try(filepath.Dir(filepath.Dir(bin)), SourcePath); ok {
			return inst, probes, nil
		}
	} else {
		probes = append(probes, Probe{Path: "conda", Source: SourcePath, Err: err})
	}

	if opts.Prompter == nil {
		return nil, probes, issue.NewContext().
			Op("resolve conda installation").
			Suggest("Pass --conda-root with the installation directory").
			Suggest("Or set conda_root in the envforge config file").
			Wrap(fmt.Errorf("no conda installation found and interactive recovery is unavailable")).
			Err()
	}

	// Interactive recovery: re-prompt until a valid directory is supplied.
	for {
		answer, err := opts.Prompter.AskDir(PromptTitle)
		if err != nil {
			return nil, probes, fmt.Errorf("conda directory prompt aborted: %w", err)
		}
		if inst, ok := try(answer, SourcePrompt); ok {
			return inst, probes, nil
		}
	}
}

// validate normalizes a candidate to an absolute, symlink-resolved path and
// checks that it is a directory containing bin/conda.
func validate(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", resolved)
	}

	bin := filepath.Join(resolved, "bin", "conda")
	if fi, err := os.Stat(bin); err != nil || fi.IsDir() {
		return "", fmt.Errorf("%s does not contain bin/conda", resolved)
	}

	return resolved, nil
}
