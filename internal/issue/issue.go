// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CondaNotFoundId Id = iota + 1
	ForgefileNotFoundId
	ForgefileParseErrorId
	EnvAlreadyExistsId
	InstallStepFailedId
	NonInteractiveStdinId
	ConfigLoadFailedId
)

type MarkdownMsg string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

// Issue is a known failure condition with a markdown help text that is
// rendered in the terminal when the condition is hit.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	condaNotFoundIssue = &Issue{
		id: CondaNotFoundId,
		mdMsg: `
# No conda installation found!

We probed the default install locations and PATH but could not find conda.

## Probed locations (in order):
1. ` + "`--conda-root` flag / `conda_root` config value" + `
2. ` + "`~/miniconda3`" + `
3. ` + "`~/anaconda3`" + `
4. ` + "`conda` on your PATH" + `

## Things you can try:
- Install Miniconda:
~~~
$ wget https://repo.anaconda.com/miniconda/Miniconda3-latest-Linux-x86_64.sh
$ bash Miniconda3-latest-Linux-x86_64.sh
~~~

- Or point envforge at an existing installation:
~~~
$ envforge install --conda-root /opt/conda
~~~`,
	}

	forgefileNotFoundIssue = &Issue{
		id: ForgefileNotFoundId,
		mdMsg: `
# No forgefile found!

We searched for a forgefile but could not find one.

## Search locations (in order of precedence):
1. The ` + "`--manifest`" + ` flag value
2. ` + "`forgefile.toml`" + ` in the current directory

## Things you can try:
- Create a starter forgefile in your current directory:
~~~
$ envforge init
~~~

- Or run with the built-in default manifest:
~~~
$ envforge install --builtin
~~~`,
	}

	forgefileParseErrorIssue = &Issue{
		id: ForgefileParseErrorId,
		mdMsg: `
# Failed to parse forgefile!

Your forgefile contains syntax errors or invalid configuration.

## Common issues:
- Invalid TOML syntax (unbalanced quotes or brackets)
- Unknown step kind (must be ` + "`conda`" + ` or ` + "`pip`" + `)
- Empty package list in a step
- Missing ` + "`name`" + ` or ` + "`python`" + ` at the top level

## Example of a valid forgefile:
~~~toml
name = "myenv"
python = "3.10"

[[step]]
kind = "pip"
packages = ["tqdm==4.66.1", "matplotlib"]

[[step]]
kind = "conda"
channel = "conda-forge"
packages = ["gdal"]
~~~`,
	}

	envAlreadyExistsIssue = &Issue{
		id: EnvAlreadyExistsId,
		mdMsg: `
# Environment already exists!

An environment with this name already exists under ` + "`envs/`" + ` and
re-creating it would fail at the create step.

## Things you can try:
- Reuse the existing environment and only run the install steps:
~~~
$ envforge install --reuse
~~~

- Or remove it first:
~~~
$ conda env remove -n <name>
~~~`,
	}

	installStepFailedIssue = &Issue{
		id: InstallStepFailedId,
		mdMsg: `
# Install step failed!

One of the install steps exited with a non-zero status. Later steps were
not attempted and the partially configured environment was left in place.

## Common causes:
- Package index or channel unreachable (network)
- Version pin unsolvable against the channel
- A source build failed because the compiler toolchain step was removed

## Things you can try:
- Re-run with verbose mode to see the exact command:
~~~
$ envforge --verbose install
~~~

- Preview the full step sequence without executing:
~~~
$ envforge plan
~~~`,
	}

	nonInteractiveStdinIssue = &Issue{
		id: NonInteractiveStdinId,
		mdMsg: `
# Cannot prompt for the conda directory!

Automatic discovery failed and standard input is not a terminal, so the
interactive recovery prompt is unavailable.

## Things you can try:
- Pass the installation directory explicitly:
~~~
$ envforge install --conda-root /opt/conda
~~~

- Or set it once in your config file:
~~~cue
conda_root: "/opt/conda"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the envforge configuration file.

## Configuration file locations:
- Linux: ~/.config/envforge/config.cue
- macOS: ~/Library/Application Support/envforge/config.cue
- Windows: %APPDATA%\envforge\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
conda_root: "/opt/conda"
runner: "native"

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		condaNotFoundIssue.Id():         condaNotFoundIssue,
		forgefileNotFoundIssue.Id():     forgefileNotFoundIssue,
		forgefileParseErrorIssue.Id():   forgefileParseErrorIssue,
		envAlreadyExistsIssue.Id():      envAlreadyExistsIssue,
		installStepFailedIssue.Id():     installStepFailedIssue,
		nonInteractiveStdinIssue.Id():   nonInteractiveStdinIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns all known issues, sorted by id for stable output.
func Values() []*Issue {
	vals := maps.Values(issues)
	slices.SortFunc(vals, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return vals
}

func Get(id Id) *Issue {
	return issues[id]
}
