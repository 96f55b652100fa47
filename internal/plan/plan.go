// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"path/filepath"

	"envforge-cli/internal/conda"
	"envforge-cli/internal/manifest"
)

type (
	// Command is one executable provisioning step.
	Command struct {
		// Description is a short human-readable label.
		Description string
		// Argv is the program and its arguments; Argv[0] is an absolute path.
		Argv []string
	}

	// Plan is the full ordered command sequence for one environment.
	Plan struct {
		// EnvName is the environment being provisioned.
		EnvName string
		// Python is the pinned interpreter version.
		Python string
		// CondaRoot is the resolved installation root.
		CondaRoot string
		// BinDirs are prepended to PATH while the plan runs, standing in
		// for `conda activate`: the environment's own bin first, then the
		// installation's.
		BinDirs []string
		// Commands run strictly in order; the first failure aborts the rest.
		Commands []Command
	}

	// Options configures compilation.
	Options struct {
		// SkipCreate omits the create command. Set when reusing an
		// environment that already exists.
		SkipCreate bool
	}
)

// Compile translates a manifest into the ordered command sequence. Step
// order follows the manifest exactly; later steps may depend on what
// earlier ones installed.
func Compile(ff *manifest.Forgefile, inst *conda.Installation, opts Options) *Plan {
	envDir := inst.EnvDir(ff.Name)

	p := &Plan{
		EnvName:   ff.Name,
		Python:    ff.Python,
		CondaRoot: inst.Root,
		BinDirs: []string{
			filepath.Join(envDir, "bin"),
			filepath.Join(inst.Root, "bin"),
		},
	}

	if !opts.SkipCreate {
		p.Commands = append(p.Commands, Command{
			Description: fmt.Sprintf("create environment %s (python %s)", ff.Name, ff.Python),
			Argv:        []string{inst.CondaBin(), "create", "-n", ff.Name, "python=" + ff.Python, "-y"},
		})
	}

	for _, st := range ff.Steps {
		p.Commands = append(p.Commands, compileStep(st, ff.Name, inst, envDir))
	}

	return p
}

func compileStep(st manifest.Step, envName string, inst *conda.Installation, envDir string) Command {
	switch st.Kind {
	case manifest.StepConda:
		argv := []string{inst.CondaBin(), "install", "-n", envName}
		desc := "conda install"
		if st.Channel != "" {
			argv = append(argv, "-c", st.Channel)
			desc += " -c " + st.Channel
		}
		argv = append(argv, "-y")
		argv = append(argv, st.Packages...)
		return Command{
			Description: fmt.Sprintf("%s (%d packages)", desc, len(st.Packages)),
			Argv:        argv,
		}
	case manifest.StepPip:
		// The environment's own pip, so packages land inside the env
		// without any shell-level activation.
		argv := []string{filepath.Join(envDir, "bin", "pip"), "install"}
		argv = append(argv, st.Packages...)
		return Command{
			Description: fmt.Sprintf("pip install (%d packages)", len(st.Packages)),
			Argv:        argv,
		}
	default:
		// Unreachable: manifest validation rejects unknown kinds.
		panic(fmt.Sprintf("unknown step kind %q", st.Kind))
	}
}
